package domain

import "time"

// ResolutionCacheSettings bounds the theme resolution cache.
type ResolutionCacheSettings struct {
	// Limit is the entry count above which a batch eviction runs.
	Limit int

	// Batch is the number of least-recently-used entries removed per
	// eviction.
	Batch int

	// Enabled gates caching entirely. Hosts with per-render identity
	// concerns can disable it and fall through to recomputation.
	Enabled bool
}

// EvictionSettings tunes the eviction controller.
type EvictionSettings struct {
	// Debounce is the window that coalesces a burst of navigation signals
	// into a single sweep.
	Debounce time.Duration

	// MemoryInterval is how often the memory monitor is polled. Zero
	// disables memory-pressure sweeps.
	MemoryInterval time.Duration

	// HighWaterBytes is the heap-in-use level above which an emergency
	// sweep runs.
	HighWaterBytes uint64
}

// DebugSettings configures the development-only diagnostics server.
type DebugSettings struct {
	// Addr is the listen address. Empty disables the server.
	Addr string
}

// Settings is the full runtime configuration.
type Settings struct {
	Resolution ResolutionCacheSettings
	Eviction   EvictionSettings
	Debug      DebugSettings
	Theme      *Theme
}

// DefaultSettings returns the configuration used when no file is provided.
func DefaultSettings() *Settings {
	return &Settings{
		Resolution: ResolutionCacheSettings{
			Limit:   500,
			Batch:   50,
			Enabled: true,
		},
		Eviction: EvictionSettings{
			Debounce:       150 * time.Millisecond,
			MemoryInterval: 30 * time.Second,
			HighWaterBytes: 512 << 20,
		},
		Theme: &Theme{Mode: "light", Vars: map[string]any{}},
	}
}
