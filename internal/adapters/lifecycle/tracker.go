// Package lifecycle implements mount tracking and the lifecycle boundary
// that wraps cached artifacts.
package lifecycle

import (
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.MountTracker = (*Tracker)(nil)

// Tracker maintains the live set of mounted stable keys. Membership here
// is what protects an element cache entry from eviction.
type Tracker struct {
	mu     sync.RWMutex
	live   map[domain.StableKey]struct{}
	logger ports.Logger
}

// NewTracker creates an empty Tracker.
func NewTracker(logger ports.Logger) *Tracker {
	return &Tracker{
		live:   make(map[domain.StableKey]struct{}),
		logger: logger,
	}
}

// TrackMount marks key as live.
func (t *Tracker) TrackMount(key domain.StableKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live[key] = struct{}{}
}

// UntrackMount removes key from the live set. A second call for an
// already-removed key is a safe no-op, reported as false and logged as a
// diagnostic.
func (t *Tracker) UntrackMount(key domain.StableKey) bool {
	t.mu.Lock()
	_, ok := t.live[key]
	if ok {
		delete(t.live, key)
	}
	t.mu.Unlock()

	if !ok {
		t.logger.Warn("untrack for key that was not mounted", "key", key.String())
	}
	return ok
}

// IsMounted reports whether key is live.
func (t *Tracker) IsMounted(key domain.StableKey) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.live[key]
	return ok
}

// Len returns the number of live keys.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.live)
}
