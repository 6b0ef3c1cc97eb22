// Package enginetest provides in-memory collaborators and fixtures for testing the
// build stages.
package enginetest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/zerr"
)

// Asset is one asset of a fake project.
type Asset struct {
	Kind         domain.AssetKind
	Path         string
	Included     []domain.ObjectIdentifier
	Referenced   []domain.ObjectIdentifier
	Scene        domain.SceneInfo
	PackedSprite bool
	Hash         string
}

// Project is an in-memory ContentExtractor, ScenePreparer, AssetOracle and EditorState.
type Project struct {
	mu      sync.Mutex
	Assets  map[domain.AssetID]*Asset
	Objects map[domain.ObjectIdentifier][]domain.ObjectIdentifier
	Dirty   bool

	ExtractCalls int
	PrepareCalls int
	ExtractErr   map[domain.AssetID]error
}

// NewProject creates an empty project.
func NewProject() *Project {
	return &Project{
		Assets:     make(map[domain.AssetID]*Asset),
		Objects:    make(map[domain.ObjectIdentifier][]domain.ObjectIdentifier),
		ExtractErr: make(map[domain.AssetID]error),
	}
}

// Extract implements ports.ContentExtractor.
func (p *Project) Extract(
	_ context.Context,
	id domain.AssetID,
	_ domain.Platform,
) (included, referenced []domain.ObjectIdentifier, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ExtractCalls++
	if err := p.ExtractErr[id]; err != nil {
		return nil, nil, err
	}
	a, ok := p.Assets[id]
	if !ok {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, ""), "asset", string(id))
	}
	return slices.Clone(a.Included), slices.Clone(a.Referenced), nil
}

// ReferencesForObjects implements ports.ContentExtractor.
func (p *Project) ReferencesForObjects(
	_ context.Context,
	objects []domain.ObjectIdentifier,
	_ domain.Platform,
) ([]domain.ObjectIdentifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.ObjectIdentifier
	for _, obj := range objects {
		for _, ref := range p.Objects[obj] {
			if !slices.Contains(out, ref) {
				out = append(out, ref)
			}
		}
	}
	return out, nil
}

// Prepare implements ports.ScenePreparer by writing the processed scene and its
// resource files into scratchDir.
func (p *Project) Prepare(
	_ context.Context,
	scene domain.AssetID,
	_ domain.Platform,
	scratchDir string,
) (domain.SceneInfo, error) {
	p.mu.Lock()
	p.PrepareCalls++
	a, ok := p.Assets[scene]
	p.mu.Unlock()
	if !ok || a.Kind != domain.AssetScene {
		return domain.SceneInfo{}, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, ""), "scene", string(scene))
	}

	info := domain.SceneInfo{
		ProcessedScene: filepath.Join(scratchDir, "scene.processed"),
		Referenced:     slices.Clone(a.Scene.Referenced),
		UsageTags:      a.Scene.UsageTags,
	}
	if err := os.WriteFile(info.ProcessedScene, []byte(scene), domain.FilePerm); err != nil {
		return info, err
	}
	for _, f := range a.Scene.ResourceFiles {
		path := filepath.Join(scratchDir, f.FileName)
		if err := os.WriteFile(path, []byte(f.FileName), domain.FilePerm); err != nil {
			return info, err
		}
		info.ResourceFiles = append(info.ResourceFiles, domain.ResourceFile{FileName: path, Serialized: f.Serialized})
	}
	return info, nil
}

// Classify implements ports.AssetOracle.
func (p *Project) Classify(id domain.AssetID) domain.AssetKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.Assets[id]; ok {
		return a.Kind
	}
	return domain.AssetInvalid
}

// DefaultAddress implements ports.AssetOracle.
func (p *Project) DefaultAddress(id domain.AssetID) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.Assets[id]; ok {
		return a.Path
	}
	return string(id)
}

// ContentHash implements ports.AssetOracle.
func (p *Project) ContentHash(_ context.Context, id domain.AssetID) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.Assets[id]
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrAssetNotFound, ""), "asset", string(id))
	}
	if a.Hash == "" {
		return hashing.MustSum(0, a.Path, a.Included, a.Referenced).String(), nil
	}
	return a.Hash, nil
}

// IsPackedSprite implements ports.AssetOracle.
func (p *Project) IsPackedSprite(id domain.AssetID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.Assets[id]
	return ok && a.PackedSprite
}

// HasUnsavedChanges implements ports.EditorState.
func (p *Project) HasUnsavedChanges(context.Context) (bool, error) {
	return p.Dirty, nil
}

// Tracker is a ProgressTracker that asks to stop on the StopAt-th update of any step.
type Tracker struct {
	StopAt  int
	Steps   []string
	Updates []string
}

// StartStep implements ports.ProgressTracker.
func (t *Tracker) StartStep(title string, _ int) {
	t.Steps = append(t.Steps, title)
}

// Update implements ports.ProgressTracker.
func (t *Tracker) Update(info string) bool {
	t.Updates = append(t.Updates, info)
	return t.StopAt == 0 || len(t.Updates) < t.StopAt
}

// EndStep implements ports.ProgressTracker.
func (t *Tracker) EndStep() bool {
	return true
}

// Cache is an in-memory BuildCache with JSON round trips, matching the on-disk cache.
type Cache struct {
	mu        sync.Mutex
	entries   map[hashing.Key][]byte
	artifacts map[hashing.Key]map[string][]byte
	Loads     int
	Hits      int
	Saves     int
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		entries:   make(map[hashing.Key][]byte),
		artifacts: make(map[hashing.Key]map[string][]byte),
	}
}

// Load implements ports.BuildCache.
func (c *Cache) Load(_ context.Context, key hashing.Key, out any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Loads++
	data, ok := c.entries[key]
	if !ok || json.Unmarshal(data, out) != nil {
		return false
	}
	c.Hits++
	return true
}

// LoadArtifacts implements ports.BuildCache.
func (c *Cache) LoadArtifacts(ctx context.Context, key hashing.Key, out any, destDir string) bool {
	if !c.Load(ctx, key, out) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for rel, data := range c.artifacts[key] {
		path := filepath.Join(destDir, rel)
		if os.MkdirAll(filepath.Dir(path), domain.DirPerm) != nil {
			return false
		}
		if os.WriteFile(path, data, domain.FilePerm) != nil {
			return false
		}
	}
	return true
}

// Save implements ports.BuildCache.
func (c *Cache) Save(_ context.Context, key hashing.Key, result any) bool {
	data, err := json.Marshal(result)
	if err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Saves++
	c.entries[key] = data
	return true
}

// SaveArtifacts implements ports.BuildCache.
func (c *Cache) SaveArtifacts(ctx context.Context, key hashing.Key, result any, srcDir string, paths []string) bool {
	files := make(map[string][]byte, len(paths))
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(srcDir, rel)) //nolint:gosec // test fixture
		if err != nil {
			return false
		}
		files[rel] = data
	}
	if !c.Save(ctx, key, result) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts[key] = files
	return true
}

// Logger discards log output and remembers warnings.
type Logger struct {
	mu       sync.Mutex
	Warnings []string
}

// Info implements ports.Logger.
func (l *Logger) Info(string) {}

// Warn implements ports.Logger.
func (l *Logger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warnings = append(l.Warnings, msg)
}

// Error implements ports.Logger.
func (l *Logger) Error(error) {}
