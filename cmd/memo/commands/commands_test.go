package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/cmd/memo/commands"
	"go.trai.ch/memo/internal/adapters/config"
	"go.trai.ch/memo/internal/adapters/encode"
	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/adapters/memory"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/adapters/theme"
	"go.trai.ch/memo/internal/app"
	"go.trai.ch/memo/internal/build"
)

func newCLI() (*commands.CLI, *bytes.Buffer) {
	log := logger.Nop()
	loader := config.NewLoader(log)
	encoder := encode.New()
	resolver := theme.NewResolver(log)
	cli := commands.New(&app.Components{
		App:       app.New(loader, encoder, resolver, log),
		Logger:    log,
		Encoder:   encoder,
		Resolver:  resolver,
		Loader:    loader,
		Monitor:   memory.Disabled{},
		Telemetry: telemetry.NewNoop(),
	})
	var out bytes.Buffer
	cli.SetOutput(&out)
	return cli, &out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEncodeCommand(t *testing.T) {
	cli, out := newCLI()
	props := writeFile(t, "props.yaml", "b: 2\na: 1\n")

	cli.SetArgs([]string{"encode", props})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), `"a":1`)
	assert.Contains(t, out.String(), `"b":2`)
}

func TestResolveCommand(t *testing.T) {
	cli, out := newCLI()
	cfg := writeFile(t, "memo.yaml", "theme:\n  vars:\n    spacing:\n      md: 16px\n")
	props := writeFile(t, "props.yaml", "padding: theme.spacing.md\n")

	cli.SetArgs([]string{"--config", cfg, "resolve", props})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "padding: 16px")
}

func TestEncodeCommand_MissingFileFails(t *testing.T) {
	cli, _ := newCLI()
	cli.SetArgs([]string{"encode", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, cli.Execute(context.Background()))
}

func TestServeCommand_StopsOnContextCancel(t *testing.T) {
	cli, _ := newCLI()
	cfg := writeFile(t, "memo.yaml", "theme:\n  vars: {}\n")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cli.SetArgs([]string{"--config", cfg, "serve"})
	require.NoError(t, cli.Execute(ctx))
}

func TestServeCommand_DiagnosticsEnabled(t *testing.T) {
	cli, _ := newCLI()
	// A debug address switches serve onto the metric-recording path.
	cfg := writeFile(t, "memo.yaml", "debug:\n  addr: 127.0.0.1:0\ntheme:\n  vars: {}\n")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cli.SetArgs([]string{"--config", cfg, "serve"})
	require.NoError(t, cli.Execute(ctx))
}

func TestVersionCommand(t *testing.T) {
	cli, _ := newCLI()
	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "dev", build.Version)
}
