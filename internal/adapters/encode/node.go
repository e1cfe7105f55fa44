package encode

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/core/ports"
)

const NodeID graft.ID = "adapter.encoder"

func init() {
	graft.Register(graft.Node[ports.Encoder]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Encoder, error) {
			return New(), nil
		},
	})
}
