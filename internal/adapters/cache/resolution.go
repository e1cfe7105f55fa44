package cache

import (
	"strconv"

	"golang.org/x/sync/singleflight"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.ResolutionCache = (*ResolutionCache)(nil)

// ResolutionCache is the bounded LRU for resolved property graphs.
// Disabled caching is a policy choice for hosts where per-render identity
// matters more than reuse; every lookup then recomputes.
type ResolutionCache struct {
	lru       *LRU[uint64, any]
	group     singleflight.Group
	enabled   bool
	telemetry ports.Telemetry
}

// NewResolutionCache creates a ResolutionCache from settings.
func NewResolutionCache(settings domain.ResolutionCacheSettings, telemetry ports.Telemetry) *ResolutionCache {
	return &ResolutionCache{
		lru:       NewLRU[uint64, any](settings.Limit, settings.Batch),
		enabled:   settings.Enabled,
		telemetry: telemetry,
	}
}

// Enabled reports whether caching is active.
func (c *ResolutionCache) Enabled() bool { return c.enabled }

// GetOrResolve returns the cached resolution for key or computes and
// stores it. Concurrent misses on the same key are coalesced through
// singleflight so the resolver runs once.
func (c *ResolutionCache) GetOrResolve(key uint64, resolve func() any) any {
	if !c.enabled {
		return resolve()
	}

	if value, ok := c.lru.Get(key); ok {
		c.telemetry.RecordResolutionLookup(true)
		return value
	}
	c.telemetry.RecordResolutionLookup(false)

	value, _, _ := c.group.Do(strconv.FormatUint(key, 16), func() (any, error) {
		if cached, ok := c.lru.Get(key); ok {
			return cached, nil
		}
		resolved := resolve()
		c.lru.Set(key, resolved)
		return resolved, nil
	})
	return value
}

// Get returns the cached resolution for key.
func (c *ResolutionCache) Get(key uint64) (any, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.lru.Get(key)
}

// Set stores a resolution.
func (c *ResolutionCache) Set(key uint64, resolved any) {
	if !c.enabled {
		return
	}
	c.lru.Set(key, resolved)
}

// Len returns the current entry count.
func (c *ResolutionCache) Len() int { return c.lru.Len() }

// Clear drops all entries.
func (c *ResolutionCache) Clear() { c.lru.Clear() }

// Shrink evicts up to n of the oldest entries, for hosts that want to
// shed memory without a full purge.
func (c *ResolutionCache) Shrink(n int) int { return c.lru.EvictOldest(n) }
