package assetdb

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/adapters/fs"
	"go.trai.ch/bale/internal/core/ports"
)

// NodeID is the unique identifier for the asset database Graft node.
const NodeID graft.ID = "adapter.assetdb"

func init() {
	graft.Register(graft.Node[ports.AssetDatabaseOpener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.AssetDatabaseOpener, error) {
			hasher, err := graft.Dep[ports.FileHasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewOpener(hasher), nil
		},
	})
}
