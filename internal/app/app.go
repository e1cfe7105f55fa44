package app

import (
	"os"

	"gopkg.in/yaml.v3"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

// App implements the CLI use cases: inspecting signatures and theme
// resolutions from files.
type App struct {
	loader   ports.ConfigLoader
	encoder  ports.Encoder
	resolver ports.ThemeResolver
	logger   ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, encoder ports.Encoder, resolver ports.ThemeResolver, logger ports.Logger) *App {
	return &App{
		loader:   loader,
		encoder:  encoder,
		resolver: resolver,
		logger:   logger,
	}
}

// EncodeFile reads a YAML property graph and returns its canonical
// signature.
func (a *App) EncodeFile(path string) (domain.Signature, error) {
	props, err := readProps(path)
	if err != nil {
		return "", err
	}
	return a.encoder.Encode(props), nil
}

// ResolveFile reads a YAML property graph, resolves it against the theme
// from the configuration at configPath, and returns the resolved graph.
func (a *App) ResolveFile(configPath, propsPath string) (any, error) {
	settings, err := a.loader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	props, err := readProps(propsPath)
	if err != nil {
		return nil, err
	}
	return a.resolver.Resolve(props, settings.Theme, domain.ResolveOptions{}), nil
}

func readProps(path string) (any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read props file"), "path", path)
	}
	var props any
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse props file"), "path", path)
	}
	return props, nil
}
