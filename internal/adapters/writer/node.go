package writer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/core/ports"
)

// NodeID is the unique identifier for the resource writer Graft node.
const NodeID graft.ID = "adapter.writer"

func init() {
	graft.Register(graft.Node[ports.ResourceWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResourceWriter, error) {
			return New(), nil
		},
	})
}
