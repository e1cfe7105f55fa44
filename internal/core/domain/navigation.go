package domain

// NavigationKind distinguishes how a navigation was initiated.
type NavigationKind string

const (
	// NavigationPassive covers history traversal the host did not initiate
	// programmatically, such as back/forward.
	NavigationPassive NavigationKind = "passive"

	// NavigationActive covers programmatic navigation issued by the host
	// router.
	NavigationActive NavigationKind = "active"
)

// NavigationEvent is a signal that the visible UI tree may have changed
// wholesale. The eviction controller debounces these into sweeps.
type NavigationEvent struct {
	Kind NavigationKind
	Path string
}

// MemoryStats is a snapshot of process memory pressure, reported by an
// optional monitor.
type MemoryStats struct {
	// HeapInUse is the number of heap bytes currently in use.
	HeapInUse uint64

	// HeapSys is the total heap memory obtained from the OS.
	HeapSys uint64
}
