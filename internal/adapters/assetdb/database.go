package assetdb

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.AssetDatabase = (*Database)(nil)

// contentHashVersion is folded into every content hash.
const contentHashVersion = 1

// Database is a read-only view of one project's asset index.
type Database struct {
	root    string
	assets  map[domain.AssetID]*asset
	objects map[domain.ObjectIdentifier]*object
	hasher  ports.FileHasher
}

// processedScene is the serialized form of a prepared scene.
type processedScene struct {
	Scene     domain.AssetID            `json:"scene"`
	Path      string                    `json:"path"`
	Platform  domain.Platform           `json:"platform"`
	Objects   []domain.ObjectIdentifier `json:"objects"`
	UsageTags domain.UsageTags          `json:"usageTags"`
}

// editorState represents the file an editor integration keeps up to date.
type editorState struct {
	Documents []document `yaml:"documents"`
}

type document struct {
	Path  string `yaml:"path"`
	Dirty bool   `yaml:"dirty"`
}

// Open loads the index at indexPath. Asset paths resolve against root.
func Open(root, indexPath string, hasher ports.FileHasher) (*Database, error) {
	assets, err := readIndex(indexPath)
	if err != nil {
		return nil, err
	}
	db := &Database{
		root:    root,
		assets:  assets,
		objects: make(map[domain.ObjectIdentifier]*object),
		hasher:  hasher,
	}
	for _, a := range assets {
		for i := range a.objects {
			db.objects[a.objects[i].id] = &a.objects[i]
		}
	}
	return db, nil
}

func (db *Database) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(db.root, filepath.FromSlash(path))
}

// lookup returns the asset if it is indexed and present on disk.
func (db *Database) lookup(id domain.AssetID) (*asset, bool) {
	a, ok := db.assets[id]
	if !ok {
		return nil, false
	}
	if _, err := os.Stat(db.abs(a.path)); err != nil {
		return nil, false
	}
	return a, true
}

// Extract implements ports.ContentExtractor.
func (db *Database) Extract(
	ctx context.Context,
	id domain.AssetID,
	platform domain.Platform,
) (included, referenced []domain.ObjectIdentifier, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	a, ok := db.lookup(id)
	if !ok {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, ""), "asset", string(id))
	}
	included, referenced = db.objectsOf(a, platform)
	return included, referenced, nil
}

// objectsOf returns the objects a builds for platform in index order, and their
// references outside of them in identifier order.
func (db *Database) objectsOf(a *asset, platform domain.Platform) (included, referenced []domain.ObjectIdentifier) {
	owned := make([]*object, 0, len(a.objects))
	for i := range a.objects {
		if a.objects[i].availableOn(platform) {
			owned = append(owned, &a.objects[i])
			included = append(included, a.objects[i].id)
		}
	}
	return included, collectRefs(owned, included)
}

// ReferencesForObjects implements ports.ContentExtractor.
func (db *Database) ReferencesForObjects(
	ctx context.Context,
	objects []domain.ObjectIdentifier,
	platform domain.Platform,
) ([]domain.ObjectIdentifier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	known := make([]*object, 0, len(objects))
	for _, id := range objects {
		if o, ok := db.objects[id]; ok && o.availableOn(platform) {
			known = append(known, o)
		}
	}
	return collectRefs(known, objects), nil
}

func collectRefs(objects []*object, exclude []domain.ObjectIdentifier) []domain.ObjectIdentifier {
	refs := lo.Uniq(lo.FlatMap(objects, func(o *object, _ int) []domain.ObjectIdentifier {
		return o.refs
	}))
	refs = lo.Filter(refs, func(ref domain.ObjectIdentifier, _ int) bool {
		return !slices.Contains(exclude, ref)
	})
	slices.SortFunc(refs, domain.ObjectIdentifier.Compare)
	return refs
}

// Prepare implements ports.ScenePreparer. It writes the processed scene and copies the
// scene's raw resources into scratchDir.
func (db *Database) Prepare(
	ctx context.Context,
	scene domain.AssetID,
	platform domain.Platform,
	scratchDir string,
) (domain.SceneInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.SceneInfo{}, err
	}
	a, ok := db.lookup(scene)
	if !ok || !a.scene {
		return domain.SceneInfo{}, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, ""), "scene", string(scene))
	}
	if err := os.MkdirAll(scratchDir, domain.DirPerm); err != nil {
		return domain.SceneInfo{}, zerr.With(zerr.Wrap(err, domain.ErrScenePreparationFailed.Error()), "scene", string(scene))
	}

	included, referenced := db.objectsOf(a, platform)
	data, err := json.MarshalIndent(processedScene{
		Scene:     a.id,
		Path:      a.path,
		Platform:  platform,
		Objects:   included,
		UsageTags: a.usageTags,
	}, "", "  ")
	if err != nil {
		return domain.SceneInfo{}, zerr.With(zerr.Wrap(err, domain.ErrScenePreparationFailed.Error()), "scene", string(scene))
	}

	info := domain.SceneInfo{
		ProcessedScene: filepath.Join(scratchDir, string(a.id)+".processed"),
		Referenced:     referenced,
		UsageTags:      a.usageTags,
	}
	if err := os.WriteFile(info.ProcessedScene, data, domain.FilePerm); err != nil {
		return domain.SceneInfo{}, zerr.With(zerr.Wrap(err, domain.ErrScenePreparationFailed.Error()), "scene", string(scene))
	}

	for _, res := range a.resources {
		dst := filepath.Join(scratchDir, filepath.Base(res))
		content, err := os.ReadFile(db.abs(res)) //nolint:gosec // path comes from the asset index
		if err == nil {
			err = os.WriteFile(dst, content, domain.FilePerm)
		}
		if err != nil {
			return domain.SceneInfo{}, zerr.With(zerr.With(
				zerr.Wrap(err, domain.ErrScenePreparationFailed.Error()), "scene", string(scene)), "resource", res)
		}
		info.ResourceFiles = append(info.ResourceFiles, domain.ResourceFile{FileName: dst})
	}
	return info, nil
}

// Classify implements ports.AssetOracle.
func (db *Database) Classify(id domain.AssetID) domain.AssetKind {
	a, ok := db.lookup(id)
	switch {
	case !ok:
		return domain.AssetInvalid
	case a.scene:
		return domain.AssetScene
	default:
		return domain.AssetRegular
	}
}

// DefaultAddress implements ports.AssetOracle.
func (db *Database) DefaultAddress(id domain.AssetID) string {
	if a, ok := db.assets[id]; ok {
		return a.path
	}
	return string(id)
}

// IsPackedSprite implements ports.AssetOracle.
func (db *Database) IsPackedSprite(id domain.AssetID) bool {
	a, ok := db.assets[id]
	return ok && a.sprite
}

// ContentHash implements ports.AssetOracle. The hash covers the files and index
// entries of the asset and of every indexed asset it references, transitively.
func (db *Database) ContentHash(ctx context.Context, id domain.AssetID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, ok := db.lookup(id); !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrAssetNotFound, ""), "asset", string(id))
	}

	closure := db.closure(id)
	var (
		files   []string
		entries []AssetDTO
	)
	for _, a := range closure {
		files = append(files, db.abs(a.path), db.abs(a.path)+".meta")
		for _, dep := range a.dependsOn {
			files = append(files, db.abs(dep))
		}
		for _, res := range a.resources {
			files = append(files, db.abs(res))
		}
		entries = append(entries, a.fingerprint())
	}

	// Files of referenced assets may be missing; those are validated when extracted.
	files = lo.Filter(files, func(path string, _ int) bool { return fileExists(path) })
	fileHash, err := db.hasher.HashFiles(files)
	if err != nil {
		return "", zerr.With(err, "asset", string(id))
	}
	key, err := hashing.Sum(contentHashVersion, fileHash, entries)
	if err != nil {
		return "", err
	}
	return key.String(), nil
}

// closure returns the asset and every indexed asset reachable through references,
// in id order. Missing referenced assets are skipped.
func (db *Database) closure(id domain.AssetID) []*asset {
	seen := map[domain.AssetID]*asset{}
	queue := []domain.AssetID{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, done := seen[next]; done {
			continue
		}
		a, ok := db.assets[next]
		if !ok {
			continue
		}
		seen[next] = a
		for _, o := range a.objects {
			for _, ref := range o.refs {
				if !ref.Asset.IsZero() {
					queue = append(queue, ref.Asset)
				}
			}
		}
	}
	ids := lo.Keys(seen)
	slices.Sort(ids)
	return lo.Map(ids, func(id domain.AssetID, _ int) *asset { return seen[id] })
}

// HasUnsavedChanges implements ports.EditorState. A project without an editor state
// file has no unsaved changes.
func (db *Database) HasUnsavedChanges(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path := filepath.Join(db.root, domain.BaleDirName, domain.EditorStateFileName)
	data, err := os.ReadFile(path) //nolint:gosec // fixed location inside the project
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to read editor state"), "path", path)
	}

	var state editorState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to parse editor state"), "path", path)
	}
	return lo.SomeBy(state.Documents, func(d document) bool { return d.Dirty }), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
