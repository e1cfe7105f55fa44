package lifecycle

import (
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ domain.Boundary = (*Boundary)(nil)

// Boundary notifies the mount tracker on mount and unmount, exactly once
// per visibility transition. One boundary is created per stable key when
// its entry first enters the element cache and is reused on every cache
// hit and refresh afterwards: wrapping a hit in a fresh boundary would
// fire a stale unmount from the old one and prematurely delete a live
// entry.
type Boundary struct {
	mu      sync.Mutex
	key     domain.StableKey
	mounted bool
	tracker ports.MountTracker
}

// NewBoundary creates a boundary for key.
func NewBoundary(key domain.StableKey, tracker ports.MountTracker) *Boundary {
	return &Boundary{key: key, tracker: tracker}
}

// Mount marks the slot live. Mounting an already-mounted boundary is a
// no-op, so host frameworks that fire effects defensively stay safe.
func (b *Boundary) Mount() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mounted {
		return
	}
	b.mounted = true
	b.tracker.TrackMount(b.key)
}

// Unmount marks the slot gone and reports whether it was live. The key is
// read at call time: even a callback whose identity was established once
// and reused across re-renders observes the current key.
func (b *Boundary) Unmount() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.mounted {
		return false
	}
	b.mounted = false
	return b.tracker.UntrackMount(b.key)
}

// Key returns the slot key the boundary currently observes.
func (b *Boundary) Key() domain.StableKey {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.key
}

// Rebind points the boundary at a new key while keeping its identity.
// Mount state carries over: a live boundary moves its liveness to the new
// key rather than leaking the old one.
func (b *Boundary) Rebind(key domain.StableKey) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if key == b.key {
		return
	}
	if b.mounted {
		b.tracker.UntrackMount(b.key)
		b.tracker.TrackMount(key)
	}
	b.key = key
}

// Detached returns a boundary that tracks nothing. Uncacheable nodes get
// one so hosts can treat every handle uniformly.
func Detached() domain.Boundary { return detached{} }

type detached struct{}

func (detached) Mount()                {}
func (detached) Unmount() bool         { return false }
func (detached) Key() domain.StableKey { return "" }
