package ports

import "go.trai.ch/memo/internal/core/domain"

// MountTracker maintains the live set of mounted stable keys.
//
//go:generate mockgen -source=lifecycle.go -destination=mocks/mock_lifecycle.go -package=mocks
type MountTracker interface {
	// TrackMount marks key as live.
	TrackMount(key domain.StableKey)

	// UntrackMount removes key from the live set, reporting whether it
	// was present. A second call for the same key is a safe no-op.
	UntrackMount(key domain.StableKey) bool

	// IsMounted reports whether key is live.
	IsMounted(key domain.StableKey) bool

	// Len returns the number of live keys.
	Len() int
}
