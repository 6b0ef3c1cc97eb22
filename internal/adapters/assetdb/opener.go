package assetdb

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
)

var _ ports.AssetDatabaseOpener = (*Opener)(nil)

// Opener opens the asset index named by a project manifest.
type Opener struct {
	hasher ports.FileHasher
}

// NewOpener creates an Opener that hashes asset files with hasher.
func NewOpener(hasher ports.FileHasher) *Opener {
	return &Opener{hasher: hasher}
}

// Open implements ports.AssetDatabaseOpener.
func (o *Opener) Open(ctx context.Context, project *domain.Project) (ports.AssetDatabase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(project.Root, project.AssetIndex, o.hasher)
}
