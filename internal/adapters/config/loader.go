// Package config provides the project manifest loader for bale.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// SupportedVersions is the range of manifest schema versions this loader understands.
const SupportedVersions = ">= 1.0, < 2.0"

// DefaultMemoryEntries is the size of the in-memory cache tier when the manifest does not set one.
const DefaultMemoryEntries = 256

// Environment variables that override manifest settings.
const (
	EnvCacheDir        = "BALE_CACHE_DIR"
	EnvRemoteEndpoint  = "BALE_REMOTE_ENDPOINT"
	EnvRemoteBucket    = "BALE_REMOTE_BUCKET"
	EnvRemoteAccessKey = "BALE_REMOTE_ACCESS_KEY"
	EnvRemoteSecretKey = "BALE_REMOTE_SECRET_KEY"
	EnvRemoteRegion    = "BALE_REMOTE_REGION"
	EnvRemoteInsecure  = "BALE_REMOTE_INSECURE"
)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
	logger   ports.Logger
}

// NewLoader creates a loader for bale.yaml that reports recoverable problems to logger.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{Filename: domain.ManifestFileName, logger: logger}
}

// Load reads the manifest at path. A directory path is searched for the manifest file,
// and an empty path searches upwards from the working directory.
func (l *FileConfigLoader) Load(path string) (*domain.Project, error) {
	file, err := l.locate(path)
	if err != nil {
		return nil, err
	}

	l.loadEnvFile(filepath.Join(filepath.Dir(file), ".env"))

	return Load(file)
}

func (l *FileConfigLoader) locate(path string) (string, error) {
	name := l.Filename
	if name == "" {
		name = domain.ManifestFileName
	}

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", zerr.With(domain.ErrConfigNotFound, "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
		}
		if info.IsDir() {
			path = filepath.Join(path, name)
			if _, err := os.Stat(path); err != nil {
				return "", zerr.With(domain.ErrConfigNotFound, "path", path)
			}
		}
		return filepath.Abs(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get current working directory")
	}
	dir := cwd
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		dir = parent
	}
}

func (l *FileConfigLoader) loadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil && l.logger != nil {
		l.logger.Warn(zerr.With(zerr.Wrap(err, "failed to load env file"), "path", path).Error())
	}
}

// Load reads a manifest from the given path and returns the project it describes.
// Relative paths in the manifest resolve against the manifest's directory.
func Load(path string) (*domain.Project, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var manifest Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project root")
	}
	return manifest.toProject(root)
}

func (m *Manifest) toProject(root string) (*domain.Project, error) {
	if err := checkVersion(m.Version); err != nil {
		return nil, err
	}

	compression, err := parseCompression(m.Compression)
	if err != nil {
		return nil, err
	}

	bundles, err := toBundles(m.Bundles)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		Root:    root,
		Version: m.Version,
		Platform: domain.Platform{
			Target:  m.Platform.Target,
			Variant: m.Platform.Variant,
		},
		OutputDir:   resolve(root, m.Output, domain.DefaultOutputDirName),
		AssetIndex:  resolve(root, m.AssetIndex, domain.AssetIndexFileName),
		Compression: compression,
		Parallelism: m.Parallelism,
		Cache: domain.CacheSettings{
			Enabled:       boolOr(m.Cache.Enabled, true),
			Dir:           resolve(root, m.Cache.Dir, domain.DefaultCachePath()),
			MemoryEntries: intOr(m.Cache.MemoryEntries, DefaultMemoryEntries),
			Remote: domain.RemoteCacheSettings{
				Endpoint:  m.Cache.Remote.Endpoint,
				Bucket:    m.Cache.Remote.Bucket,
				Prefix:    m.Cache.Remote.Prefix,
				Region:    m.Cache.Remote.Region,
				AccessKey: m.Cache.Remote.AccessKey,
				SecretKey: m.Cache.Remote.SecretKey,
				Insecure:  m.Cache.Remote.Insecure,
			},
		},
		Dedup: domain.DedupSettings{
			Enabled:    boolOr(m.Dedup.Enabled, true),
			Aggressive: m.Dedup.Aggressive,
		},
		StripSprites: boolOr(m.StripSprites, true),
		Bundles:      bundles,
	}
	if p.Parallelism <= 0 {
		p.Parallelism = runtime.NumCPU()
	}

	if err := applyEnv(p); err != nil {
		return nil, err
	}
	return p, nil
}

func checkVersion(raw string) error {
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return zerr.Wrap(err, "invalid version constraint")
	}
	version, err := semver.NewVersion(raw)
	if err != nil {
		return zerr.With(domain.ErrUnsupportedVersion, "version", raw)
	}
	if !constraint.Check(version) {
		return zerr.With(zerr.With(domain.ErrUnsupportedVersion, "version", raw), "supported", SupportedVersions)
	}
	return nil
}

func parseCompression(raw string) (domain.Compression, error) {
	switch c := domain.Compression(strings.ToLower(raw)); c {
	case "":
		return domain.CompressionZstd, nil
	case domain.CompressionNone, domain.CompressionZstd:
		return c, nil
	default:
		return "", zerr.With(domain.ErrUnknownCompression, "compression", raw)
	}
}

func toBundles(dtos []BundleDTO) ([]domain.BundleDefinition, error) {
	seen := make(map[string]bool, len(dtos))
	bundles := make([]domain.BundleDefinition, 0, len(dtos))
	for _, dto := range dtos {
		if !validBundleName(dto.Name) {
			return nil, zerr.With(domain.ErrInvalidBundleName, "bundle", dto.Name)
		}
		if seen[dto.Name] {
			return nil, zerr.With(domain.ErrDuplicateBundle, "bundle", dto.Name)
		}
		seen[dto.Name] = true

		def := domain.BundleDefinition{Name: dto.Name}
		for i, asset := range dto.Assets {
			id := strings.TrimSpace(asset.ID)
			if id == "" {
				return nil, zerr.With(zerr.With(domain.ErrMissingAssetID, "bundle", dto.Name), "index", i)
			}
			def.Assets = append(def.Assets, domain.AssetRef{ID: domain.AssetID(id), Address: asset.Address})
		}
		bundles = append(bundles, def)
	}
	return bundles, nil
}

// validBundleName rejects names that are empty or would escape the output directory.
func validBundleName(name string) bool {
	if strings.TrimSpace(name) == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

// applyEnv overrides cache settings from BALE_* environment variables.
func applyEnv(p *domain.Project) error {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		p.Cache.Dir = resolve(p.Root, dir, dir)
	}
	remote := &p.Cache.Remote
	for env, field := range map[string]*string{
		EnvRemoteEndpoint:  &remote.Endpoint,
		EnvRemoteBucket:    &remote.Bucket,
		EnvRemoteAccessKey: &remote.AccessKey,
		EnvRemoteSecretKey: &remote.SecretKey,
		EnvRemoteRegion:    &remote.Region,
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*field = v
		}
	}
	if raw := strings.TrimSpace(os.Getenv(EnvRemoteInsecure)); raw != "" {
		insecure, err := strconv.ParseBool(raw)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "env", EnvRemoteInsecure)
		}
		remote.Insecure = insecure
	}
	return nil
}

func resolve(root, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
