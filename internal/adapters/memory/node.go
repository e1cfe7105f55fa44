package memory

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/core/ports"
)

const NodeID graft.ID = "adapter.memory_monitor"

func init() {
	graft.Register(graft.Node[ports.MemoryMonitor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.MemoryMonitor, error) {
			return NewRuntimeMonitor(), nil
		},
	})
}
