package ports

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
)

// ContentExtractor resolves the object graph of assets.
//
//go:generate mockgen -source=assets.go -destination=mocks/mock_assets.go -package=mocks
type ContentExtractor interface {
	// Extract returns the objects an asset owns and the objects it references.
	// It fails if the id does not resolve to a valid asset on disk.
	Extract(
		ctx context.Context,
		asset domain.AssetID,
		platform domain.Platform,
	) (included, referenced []domain.ObjectIdentifier, err error)

	// ReferencesForObjects returns the objects referenced by the given set of objects.
	ReferencesForObjects(
		ctx context.Context,
		objects []domain.ObjectIdentifier,
		platform domain.Platform,
	) ([]domain.ObjectIdentifier, error)
}

// ScenePreparer turns scenes into their serializable form.
type ScenePreparer interface {
	// Prepare writes the processed scene and its resource files below scratchDir.
	Prepare(
		ctx context.Context,
		scene domain.AssetID,
		platform domain.Platform,
		scratchDir string,
	) (domain.SceneInfo, error)
}

// AssetOracle answers questions about declared asset ids.
type AssetOracle interface {
	// Classify reports whether the id is a scene, a regular asset or invalid.
	Classify(asset domain.AssetID) domain.AssetKind
	// DefaultAddress returns the path-derived address of an asset.
	DefaultAddress(asset domain.AssetID) string
	// ContentHash hashes the asset and its transitive on-disk dependencies.
	ContentHash(ctx context.Context, asset domain.AssetID) (string, error)
	// IsPackedSprite reports whether the asset is a texture packed into a sprite atlas.
	IsPackedSprite(asset domain.AssetID) bool
}

// EditorState reports the state of documents held open by an editor.
type EditorState interface {
	// HasUnsavedChanges reports whether any open document is dirty.
	HasUnsavedChanges(ctx context.Context) (bool, error)
}

// AssetDatabase is every project-content collaborator a build needs.
type AssetDatabase interface {
	ContentExtractor
	ScenePreparer
	AssetOracle
	EditorState
}

// AssetDatabaseOpener opens the asset database of a project.
type AssetDatabaseOpener interface {
	Open(ctx context.Context, project *domain.Project) (AssetDatabase, error)
}
