package lifecycle

import (
	"runtime"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// WatchToken registers a best-effort leak net on a host-owned token
// object. If the host drops the token without the unmount notification
// ever firing, the cleanup untracks the key so the next sweep can reclaim
// its cache entry.
//
// This is purely a safety net: cleanup timing is up to the garbage
// collector and may never run at all. Primary cleanup is always the
// explicit unmount through the boundary.
func WatchToken[T any](token *T, key domain.StableKey, tracker ports.MountTracker, logger ports.Logger) {
	if token == nil {
		return
	}
	runtime.AddCleanup(token, func(k domain.StableKey) {
		if tracker.IsMounted(k) {
			logger.Warn("mount token collected while key still tracked, untracking", "key", k.String())
			tracker.UntrackMount(k)
		}
	}, key)
}
