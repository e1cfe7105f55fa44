// Package config provides the YAML configuration and theme loader.
package config

// File mirrors the memo.yaml structure.
type File struct {
	Version    string        `yaml:"version"`
	Resolution ResolutionDTO `yaml:"resolution"`
	Eviction   EvictionDTO   `yaml:"eviction"`
	Debug      DebugDTO      `yaml:"debug"`
	Theme      ThemeDTO      `yaml:"theme"`
}

// ResolutionDTO bounds the resolution cache.
type ResolutionDTO struct {
	Limit   int   `yaml:"limit"`
	Batch   int   `yaml:"batch"`
	Enabled *bool `yaml:"enabled"`
}

// EvictionDTO tunes the eviction controller.
type EvictionDTO struct {
	DebounceMS       int    `yaml:"debounceMs"`
	MemoryIntervalMS int    `yaml:"memoryIntervalMs"`
	HighWaterBytes   uint64 `yaml:"highWaterBytes"`
}

// DebugDTO configures the diagnostics server.
type DebugDTO struct {
	Addr string `yaml:"addr"`
}

// ThemeDTO is the theme dictionary definition. Vars holds the base
// dictionary; Modes holds per-mode overrides merged over Vars for the
// active mode.
type ThemeDTO struct {
	Mode  string                    `yaml:"mode"`
	Vars  map[string]any            `yaml:"vars"`
	Modes map[string]map[string]any `yaml:"modes"`
}
