package ports

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
)

// BuildCache memoizes stage results under content-derived keys.
// Every operation is best-effort: a miss or a failed save never aborts a build.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type BuildCache interface {
	// Load decodes the result stored under key into out. It reports false on a miss.
	Load(ctx context.Context, key hashing.Key, out any) bool

	// LoadArtifacts is Load for entries with artifacts; the artifacts are copied below
	// destDir at their saved relative paths before it reports true.
	LoadArtifacts(ctx context.Context, key hashing.Key, out any, destDir string) bool

	// Save stores result under key. It reports whether the entry was written.
	Save(ctx context.Context, key hashing.Key, result any) bool

	// SaveArtifacts stores result plus the files at paths, relative to srcDir.
	SaveArtifacts(ctx context.Context, key hashing.Key, result any, srcDir string, paths []string) bool
}

// CacheStore is a BuildCache with a single writer at a time.
type CacheStore interface {
	BuildCache

	// Lock blocks until this process is the only writer or ctx is done.
	Lock(ctx context.Context) error

	// Unlock releases the writer lock.
	Unlock() error

	// Purge removes every entry.
	Purge() error
}

// CacheProvider opens the cache described by settings.
type CacheProvider interface {
	Open(ctx context.Context, settings domain.CacheSettings) (CacheStore, error)
}
