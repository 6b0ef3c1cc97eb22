package domain

import "go.trai.ch/zerr"

var (
	// ErrCanceled is returned when a build is stopped by the operator or a progress tracker.
	ErrCanceled = zerr.New("build canceled")

	// ErrUnsavedChanges is returned by preflight when the project has unsaved editor documents.
	ErrUnsavedChanges = zerr.New("project has unsaved changes")

	// ErrMixedBundle is returned when a bundle declares both scenes and non-scene assets.
	ErrMixedBundle = zerr.New("bundle mixes scenes and assets")

	// ErrExtractionFailed is returned when the content extractor fails on an asset classified as valid.
	ErrExtractionFailed = zerr.New("object extraction failed")

	// ErrScenePreparationFailed is returned when a scene cannot be prepared for serialization.
	ErrScenePreparationFailed = zerr.New("scene preparation failed")

	// ErrMissingDependency is returned when a bundle depends on a bundle that does not exist.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrOwnershipViolation is returned when an asset's owning bundle does not list the asset.
	ErrOwnershipViolation = zerr.New("asset owner does not contain asset")

	// ErrSelfDependency is returned when a bundle lists itself as a dependency.
	ErrSelfDependency = zerr.New("bundle depends on itself")

	// ErrVirtualReferenceMissing is returned when an asset references a shared object without depending on its virtual bundle.
	ErrVirtualReferenceMissing = zerr.New("asset does not depend on the virtual bundle of a referenced object")

	// ErrUnknownBundle is returned when a requested bundle is not part of the build.
	ErrUnknownBundle = zerr.New("unknown bundle")

	// ErrInvalidObjectIdentifier is returned when an object identifier cannot be parsed.
	ErrInvalidObjectIdentifier = zerr.New("invalid object identifier")

	// ErrConfigNotFound is returned when the project manifest does not exist.
	ErrConfigNotFound = zerr.New("could not find " + ManifestFileName)

	// ErrConfigReadFailed is returned when the project manifest cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the project manifest is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedVersion is returned when the manifest schema version is outside the supported range.
	ErrUnsupportedVersion = zerr.New("unsupported manifest version")

	// ErrInvalidBundleName is returned when a bundle has an empty or malformed name.
	ErrInvalidBundleName = zerr.New("invalid bundle name")

	// ErrDuplicateBundle is returned when two bundle definitions share a name.
	ErrDuplicateBundle = zerr.New("duplicate bundle name")

	// ErrMissingAssetID is returned when a bundle definition lists an asset without an id.
	ErrMissingAssetID = zerr.New("asset id is required")

	// ErrUnknownCompression is returned when the manifest names an unsupported compression.
	ErrUnknownCompression = zerr.New("unknown compression")

	// ErrAssetIndexReadFailed is returned when the project asset index cannot be loaded.
	ErrAssetIndexReadFailed = zerr.New("failed to read asset index")

	// ErrAssetNotFound is returned when an asset id does not resolve to an asset on disk.
	ErrAssetNotFound = zerr.New("asset not found")

	// ErrCacheReadFailed is returned when a cache entry exists but cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheWriteFailed is returned when a cache entry cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrInvalidArtifact is returned when a cache entry names an artifact outside its entry.
	ErrInvalidArtifact = zerr.New("cache artifact path escapes its entry")

	// ErrCacheLocked is returned when another build holds the cache writer lock.
	ErrCacheLocked = zerr.New("cache is locked by another build")

	// ErrResourceWriteFailed is returned when the resource writer cannot serialize a command.
	ErrResourceWriteFailed = zerr.New("failed to write resource files")

	// ErrArchiveFailed is returned when resource files cannot be archived.
	ErrArchiveFailed = zerr.New("failed to archive bundle")

	// ErrTempDirFailed is returned when the scoped build directory cannot be created.
	ErrTempDirFailed = zerr.New("failed to create build directory")

	// ErrInvalidGraph is returned when the dependency information violates a structural invariant.
	ErrInvalidGraph = zerr.New("invalid dependency information")

	// ErrBuildFailed marks errors whose build result was already reported.
	ErrBuildFailed = zerr.New("build failed")
)

var (
	// ErrUnhashableValue is returned when a value of an unsupported kind is passed to the content hasher.
	ErrUnhashableValue = zerr.New("value cannot be hashed")

	// ErrInvalidKey is returned when a content key cannot be parsed.
	ErrInvalidKey = zerr.New("invalid content key")
)
