package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/adapters/config"
	"go.trai.ch/memo/internal/adapters/encode"
	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/adapters/theme"
	"go.trai.ch/memo/internal/app"
)

func newApp() *app.App {
	log := logger.Nop()
	return app.New(config.NewLoader(log), encode.New(), theme.NewResolver(log), log)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApp_EncodeFileIsOrderIndependent(t *testing.T) {
	a := newApp()

	first := writeFile(t, "a.yaml", "b: 2\na: 1\n")
	second := writeFile(t, "b.yaml", "a: 1\nb: 2\n")

	sigA, err := a.EncodeFile(first)
	require.NoError(t, err)
	sigB, err := a.EncodeFile(second)
	require.NoError(t, err)
	assert.Equal(t, sigA, sigB)

	_, err = a.EncodeFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestApp_ResolveFile(t *testing.T) {
	a := newApp()

	configPath := writeFile(t, "memo.yaml", `
theme:
  mode: light
  vars:
    spacing:
      md: 16px
`)
	propsPath := writeFile(t, "props.yaml", "padding: theme.spacing.md\nlabel: hi\n")

	out, err := a.ResolveFile(configPath, propsPath)
	require.NoError(t, err)

	obj, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "16px", obj["padding"])
	assert.Equal(t, "hi", obj["label"])
}
