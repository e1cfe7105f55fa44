package ports

import "go.trai.ch/memo/internal/core/domain"

// ResolutionCache is a bounded LRU for resolved property graphs, keyed by
// the combined digest of graph signature, theme signature, and theme mode.
//
//go:generate mockgen -source=caches.go -destination=mocks/mock_caches.go -package=mocks
type ResolutionCache interface {
	// Enabled reports whether caching is active. When disabled,
	// GetOrResolve always recomputes.
	Enabled() bool

	// GetOrResolve returns the cached resolution for key or computes,
	// stores, and returns it. Concurrent misses for the same key are
	// coalesced into one computation.
	GetOrResolve(key uint64, resolve func() any) any

	// Get returns the cached resolution for key, marking it most
	// recently used.
	Get(key uint64) (any, bool)

	// Set stores a resolution, marking it most recently used.
	Set(key uint64, resolved any)

	// Len returns the current entry count.
	Len() int

	// Clear drops all entries.
	Clear()
}

// ElementCache maps stable keys to their last signature, artifact, and
// lifecycle boundary.
type ElementCache interface {
	// Lookup returns the handle for key if its stored signature equals
	// sig. A signature mismatch is a miss.
	Lookup(key domain.StableKey, sig domain.Signature) (*domain.Handle, bool)

	// Entry returns the handle for key regardless of signature.
	Entry(key domain.StableKey) (*domain.Handle, bool)

	// Store inserts or replaces the handle for handle.Key.
	Store(handle *domain.Handle)

	// Refresh updates the signature and artifact of an existing handle in
	// place, keeping its boundary. Reports whether the key was present.
	Refresh(key domain.StableKey, sig domain.Signature, artifact *domain.Artifact) bool

	// Delete removes the entry for key, reporting whether it existed.
	Delete(key domain.StableKey) bool

	// Keys returns a snapshot of all cached keys.
	Keys() []domain.StableKey

	// Len returns the current entry count.
	Len() int

	// Clear drops all entries.
	Clear()
}
