package config

// Manifest represents the structure of the bale.yaml configuration file.
type Manifest struct {
	Version      string      `yaml:"version"`
	Platform     PlatformDTO `yaml:"platform"`
	Output       string      `yaml:"output"`
	AssetIndex   string      `yaml:"assetIndex"`
	Compression  string      `yaml:"compression"`
	Parallelism  int         `yaml:"parallelism"`
	Cache        CacheDTO    `yaml:"cache"`
	Dedup        DedupDTO    `yaml:"dedup"`
	StripSprites *bool       `yaml:"stripSprites"`
	Bundles      []BundleDTO `yaml:"bundles"`
}

// PlatformDTO represents the build target.
type PlatformDTO struct {
	Target  string `yaml:"target"`
	Variant string `yaml:"variant"`
}

// CacheDTO represents the build cache settings.
type CacheDTO struct {
	Enabled       *bool     `yaml:"enabled"`
	Dir           string    `yaml:"dir"`
	MemoryEntries *int      `yaml:"memoryEntries"`
	Remote        RemoteDTO `yaml:"remote"`
}

// RemoteDTO represents the S3-compatible remote cache tier.
type RemoteDTO struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Insecure  bool   `yaml:"insecure"`
}

// DedupDTO represents the shared-object deduplicator settings.
type DedupDTO struct {
	Enabled    *bool `yaml:"enabled"`
	Aggressive bool  `yaml:"aggressive"`
}

// BundleDTO represents a bundle definition in the configuration.
type BundleDTO struct {
	Name   string     `yaml:"name"`
	Assets []AssetDTO `yaml:"assets"`
}

// AssetDTO represents one declared asset of a bundle.
type AssetDTO struct {
	ID      string `yaml:"id"`
	Address string `yaml:"address"`
}
