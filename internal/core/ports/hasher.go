package ports

// FileHasher computes content hashes of files on disk.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type FileHasher interface {
	// HashFiles returns a stable hash over the contents of paths, independent of their order.
	// Directories are walked recursively.
	HashFiles(paths []string) (string, error)
}
