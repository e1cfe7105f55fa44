package ports

import "go.trai.ch/memo/internal/core/domain"

// ConfigLoader reads runtime settings and the theme dictionary.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads settings from path. A missing file yields defaults.
	Load(path string) (*domain.Settings, error)

	// LoadTheme reads only the theme section from path, so a hot reload
	// of a malformed file cannot clobber unrelated settings.
	LoadTheme(path string) (*domain.Theme, error)
}
