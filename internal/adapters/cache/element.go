package cache

import (
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.ElementCache = (*ElementCache)(nil)

// ElementCache maps stable keys to their handle: last signature, artifact,
// and lifecycle boundary. Entries live until an eviction sweep confirms
// the key is unmounted; there is no size bound because the live UI tree
// itself bounds the population between sweeps.
type ElementCache struct {
	mu      sync.RWMutex
	entries map[domain.StableKey]*domain.Handle
}

// NewElementCache creates an empty ElementCache.
func NewElementCache() *ElementCache {
	return &ElementCache{entries: make(map[domain.StableKey]*domain.Handle)}
}

// Lookup returns the handle for key when its stored signature matches sig.
func (c *ElementCache) Lookup(key domain.StableKey, sig domain.Signature) (*domain.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	handle, ok := c.entries[key]
	if !ok || handle.Signature != sig {
		return nil, false
	}
	return handle, true
}

// Entry returns the handle for key regardless of signature.
func (c *ElementCache) Entry(key domain.StableKey) (*domain.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	handle, ok := c.entries[key]
	return handle, ok
}

// Store inserts or replaces the handle for handle.Key.
func (c *ElementCache) Store(handle *domain.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[handle.Key] = handle
}

// Refresh updates signature and artifact of an existing handle in place.
// The boundary is deliberately untouched: replacing it would fire a stale
// unmount for a slot that is still live.
func (c *ElementCache) Refresh(key domain.StableKey, sig domain.Signature, artifact *domain.Artifact) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	handle, ok := c.entries[key]
	if !ok {
		return false
	}
	handle.Signature = sig
	handle.Artifact = artifact
	return true
}

// Delete removes the entry for key.
func (c *ElementCache) Delete(key domain.StableKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Keys returns a snapshot of all cached keys.
func (c *ElementCache) Keys() []domain.StableKey {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]domain.StableKey, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the current entry count.
func (c *ElementCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *ElementCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[domain.StableKey]*domain.Handle)
}
