package navigation

import (
	"sync"

	"go.trai.ch/memo/internal/core/domain"
)

// The default adapter is the process-wide hub used when the host wires no
// navigation source of its own. Installation is guarded by a flag so
// repeated eviction-controller starts can never attach a second adapter,
// and uninstalling restores the uninstalled state for tests.
var (
	defaultMu        sync.Mutex
	defaultHub       *Hub
	defaultInstalled bool
)

// InstallDefault installs and returns the process-wide hub. The first
// call creates it; later calls are no-ops that return the existing hub
// with fresh=false, mirroring an idempotent patch of a global API.
func InstallDefault() (hub *Hub, fresh bool) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultInstalled {
		return defaultHub, false
	}
	if defaultHub == nil {
		defaultHub = NewHub()
	}
	defaultInstalled = true
	return defaultHub, true
}

// UninstallDefault reverses InstallDefault. Subscriptions on the hub stay
// valid; only the installed flag is reset so a later install is fresh
// again. Safe to call when nothing is installed.
func UninstallDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultInstalled = false
}

// DefaultInstalled reports whether the default adapter is active.
func DefaultInstalled() bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultInstalled
}

// NotifyDefault delivers ev through the default hub if one is installed.
// Hosts that only need the default path can call this instead of keeping
// a hub reference. A missing hub is not an error; the signal is simply
// dropped.
func NotifyDefault(ev domain.NavigationEvent) {
	defaultMu.Lock()
	hub, installed := defaultHub, defaultInstalled
	defaultMu.Unlock()

	if installed && hub != nil {
		hub.Notify(ev)
	}
}
