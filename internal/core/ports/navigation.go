package ports

import "go.trai.ch/memo/internal/core/domain"

// NavigationSource delivers navigation signals to subscribers. The host
// router is expected to call into an implementation explicitly; a default
// process-wide hub exists for hosts that do not supply their own.
//
//go:generate mockgen -source=navigation.go -destination=mocks/mock_navigation.go -package=mocks
type NavigationSource interface {
	// Subscribe registers fn for future events and returns a cancel
	// function. Cancel is idempotent.
	Subscribe(fn func(domain.NavigationEvent)) (cancel func())
}

// MemoryMonitor exposes best-effort memory pressure readings. A monitor
// that cannot observe the environment reports ok=false; absence of the
// capability is never an error.
type MemoryMonitor interface {
	Usage() (stats domain.MemoryStats, ok bool)
}
