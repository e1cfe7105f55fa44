// Package memory implements the optional memory-pressure monitor.
package memory

import (
	"runtime"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.MemoryMonitor = (*RuntimeMonitor)(nil)

// RuntimeMonitor reads heap usage from the Go runtime.
type RuntimeMonitor struct{}

// NewRuntimeMonitor creates a RuntimeMonitor.
func NewRuntimeMonitor() *RuntimeMonitor {
	return &RuntimeMonitor{}
}

// Usage returns the current heap usage. The runtime monitor is always
// able to observe, so ok is always true.
func (m *RuntimeMonitor) Usage() (domain.MemoryStats, bool) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return domain.MemoryStats{
		HeapInUse: stats.HeapInuse,
		HeapSys:   stats.HeapSys,
	}, true
}

// Disabled is a monitor that observes nothing. Environments without
// memory introspection use it; the controller treats the absence as
// "never under pressure", not as an error.
type Disabled struct{}

// Usage always reports ok=false.
func (Disabled) Usage() (domain.MemoryStats, bool) {
	return domain.MemoryStats{}, false
}
