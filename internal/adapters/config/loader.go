package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader reads memo.yaml into runtime settings. Missing fields fall back
// to defaults; a missing file yields the full default configuration.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads settings from path.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("no configuration file, using defaults", "path", path)
			return domain.DefaultSettings(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	settings := domain.DefaultSettings()
	applyResolution(settings, file.Resolution)
	applyEviction(settings, file.Eviction)
	settings.Debug.Addr = file.Debug.Addr
	settings.Theme = BuildTheme(file.Theme)
	return settings, nil
}

// LoadTheme reads only the theme section from path. The watcher uses it
// for hot reload so a malformed edit cannot clobber unrelated settings.
func (l *Loader) LoadTheme(path string) (*domain.Theme, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read theme file"), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse theme file"), "path", path)
	}
	return BuildTheme(file.Theme), nil
}

func applyResolution(settings *domain.Settings, dto ResolutionDTO) {
	if dto.Limit > 0 {
		settings.Resolution.Limit = dto.Limit
	}
	if dto.Batch > 0 {
		settings.Resolution.Batch = dto.Batch
	}
	if dto.Enabled != nil {
		settings.Resolution.Enabled = *dto.Enabled
	}
}

func applyEviction(settings *domain.Settings, dto EvictionDTO) {
	if dto.DebounceMS > 0 {
		settings.Eviction.Debounce = time.Duration(dto.DebounceMS) * time.Millisecond
	}
	if dto.MemoryIntervalMS > 0 {
		settings.Eviction.MemoryInterval = time.Duration(dto.MemoryIntervalMS) * time.Millisecond
	}
	if dto.HighWaterBytes > 0 {
		settings.Eviction.HighWaterBytes = dto.HighWaterBytes
	}
}

// BuildTheme assembles a Theme from its DTO, merging the active mode's
// overrides over the base dictionary. Merging is deep for nested plain
// objects so a mode can override a single token without redefining its
// whole group.
func BuildTheme(dto ThemeDTO) *domain.Theme {
	mode := dto.Mode
	if mode == "" {
		mode = "light"
	}

	vars := deepCopy(dto.Vars)
	if overrides, ok := dto.Modes[mode]; ok {
		vars = deepMerge(vars, overrides)
	}
	if vars == nil {
		vars = map[string]any{}
	}
	return &domain.Theme{Mode: mode, Vars: vars}
}

func deepCopy(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func deepMerge(base, overrides map[string]any) map[string]any {
	if base == nil {
		return deepCopy(overrides)
	}
	for k, v := range overrides {
		existing, ok := base[k].(map[string]any)
		nested, isMap := v.(map[string]any)
		if ok && isMap {
			base[k] = deepMerge(existing, nested)
			continue
		}
		base[k] = v
	}
	return base
}
