package domain

import "path/filepath"

const (
	// BaleDirName is the name of the internal workspace directory.
	BaleDirName = ".bale"

	// CacheDirName is the name of the build cache directory.
	CacheDirName = "cache"

	// TempDirName is the name of the directory holding scoped per-build scratch space.
	TempDirName = "tmp"

	// ManifestFileName is the name of the project configuration file.
	ManifestFileName = "bale.yaml"

	// AssetIndexFileName is the default name of the project asset index.
	AssetIndexFileName = "assets.yaml"

	// BuildManifestFileName is the name of the summary written beside the built bundles.
	BuildManifestFileName = "bale.manifest.json"

	// DefaultOutputDirName is the default bundle output folder.
	DefaultOutputDirName = "Bundles"

	// EditorStateFileName is the name of the file, inside the bale directory, where an
	// editor integration reports its open documents.
	EditorStateFileName = "editor.yaml"

	// CacheLockFileName is the name of the single-writer lock inside the cache root.
	CacheLockFileName = ".lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultBalePath returns the default root directory for bale metadata.
func DefaultBalePath() string {
	return BaleDirName
}

// DefaultCachePath returns the default path for the build cache.
// It joins .bale and cache.
func DefaultCachePath() string {
	return filepath.Join(BaleDirName, CacheDirName)
}

// DefaultTempPath returns the default parent of scoped build directories.
// It joins .bale and tmp.
func DefaultTempPath() string {
	return filepath.Join(BaleDirName, TempDirName)
}
