package domain

// Compression selects how bundle archives are compressed.
type Compression string

const (
	// CompressionNone stores resource files uncompressed.
	CompressionNone Compression = "none"
	// CompressionZstd compresses archives with zstd.
	CompressionZstd Compression = "zstd"
)

// RemoteCacheSettings configures the optional S3-compatible cache tier.
type RemoteCacheSettings struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
	Insecure  bool
}

// Enabled reports whether a remote tier is configured.
func (r RemoteCacheSettings) Enabled() bool {
	return r.Endpoint != "" && r.Bucket != ""
}

// CacheSettings configures the build cache.
type CacheSettings struct {
	Enabled       bool
	Dir           string
	MemoryEntries int
	Remote        RemoteCacheSettings
}

// DedupSettings configures the shared-object deduplicator.
type DedupSettings struct {
	Enabled    bool
	Aggressive bool
}

// Project is the loaded build manifest of a project.
type Project struct {
	// Root is the absolute project directory; relative paths below resolve against it.
	Root         string
	Version      string
	Platform     Platform
	OutputDir    string
	AssetIndex   string
	Compression  Compression
	Parallelism  int
	Cache        CacheSettings
	Dedup        DedupSettings
	StripSprites bool
	Bundles      []BundleDefinition
}
