// Package depgraph builds the dependency graph of a bundle build from the declared
// bundle definitions and the object graphs of their assets.
package depgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// StageVersion is folded into every cache key of this stage.
const StageVersion uint32 = 1

// StageName is the display name of this stage.
const StageName = "dependency graph"

// Options configures one graph build.
type Options struct {
	Platform domain.Platform
	// ScratchDir receives prepared scenes, one sub directory per scene.
	ScratchDir string
	UseCache   bool
	// Parallelism bounds concurrent extraction calls. Values below 1 mean sequential.
	Parallelism int
}

// Builder produces the dependency graph of a build.
type Builder struct {
	extractor ports.ContentExtractor
	scenes    ports.ScenePreparer
	oracle    ports.AssetOracle
	cache     ports.BuildCache
	logger    ports.Logger
}

// New creates a Builder.
func New(
	extractor ports.ContentExtractor,
	scenes ports.ScenePreparer,
	oracle ports.AssetOracle,
	cache ports.BuildCache,
	logger ports.Logger,
) *Builder {
	return &Builder{
		extractor: extractor,
		scenes:    scenes,
		oracle:    oracle,
		cache:     cache,
		logger:    logger,
	}
}

// item is one declared (bundle, asset) pair.
type item struct {
	bundle string
	ref    domain.AssetRef
}

// extracted is the per-item outcome of the parallel phase.
type extracted struct {
	kind   domain.AssetKind
	info   *domain.AssetLoadInfo
	scene  *domain.SceneInfo
	cached bool
}

// Build classifies and extracts every declared asset, then closes the inter-bundle
// dependency edges. Invalid assets are skipped with a warning.
func (b *Builder) Build(
	ctx context.Context,
	defs []domain.BundleDefinition,
	opts Options,
	progress ports.ProgressTracker,
) (*domain.DependencyInfo, domain.Code, error) {
	items := lo.FlatMap(defs, func(def domain.BundleDefinition, _ int) []item {
		return lo.Map(def.Assets, func(ref domain.AssetRef, _ int) item {
			return item{bundle: def.Name, ref: ref}
		})
	})

	// 1. Drop repeated declarations: the first bundle to declare an asset owns it, and
	// later declaring bundles depend on the owner.
	firstOwner := make(map[domain.AssetID]string, len(items))
	var repeats []item
	items = lo.Filter(items, func(it item, _ int) bool {
		if owner, seen := firstOwner[it.ref.ID]; seen {
			b.logger.Warn(fmt.Sprintf("asset %s is declared by %s and %s, keeping %s", it.ref.ID, owner, it.bundle, owner))
			repeats = append(repeats, it)
			return false
		}
		firstOwner[it.ref.ID] = it.bundle
		return true
	})

	progress.StartStep(StageName, len(items))

	// 2. Extract every item, in parallel when allowed.
	results := make([]extracted, len(items))
	var progressMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Parallelism))

	for i, it := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			progressMu.Lock()
			proceed := progress.Update(fmt.Sprintf("%s/%s", it.bundle, it.ref.ID))
			progressMu.Unlock()
			if !proceed {
				return domain.CanceledError(StageName)
			}

			res, err := b.extract(gctx, it, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	if ctx.Err() != nil {
		return nil, domain.CodeCanceled, domain.CanceledError(StageName)
	}
	if err != nil {
		return nil, domain.CodeOf(err), err
	}

	// 3. Merge in declaration order.
	info := domain.NewDependencyInfo()
	allCached := len(items) > 0
	for i, it := range items {
		res := results[i]
		if res.kind == domain.AssetInvalid {
			continue
		}
		allCached = allCached && res.cached
		info.AddAsset(it.bundle, res.info)
		if res.scene != nil {
			info.SceneResourceFiles[it.ref.ID] = res.scene.ResourceFiles
			info.SceneUsageTags[it.ref.ID] = res.scene.UsageTags
		}
	}

	for _, it := range repeats {
		owner, ok := info.Owner(it.ref.ID)
		if !ok || owner == it.bundle {
			continue
		}
		for _, asset := range info.BundleToAssets[it.bundle] {
			info.AddDependency(asset, owner)
		}
	}

	// 4. One-hop closure: every asset depends on the owners of the assets it references.
	for _, asset := range info.AssetOrder {
		for _, ref := range info.AssetLoadInfo[asset].Referenced {
			if ref.Asset.IsZero() {
				continue
			}
			if owner, ok := info.Owner(ref.Asset); ok {
				info.AddDependency(asset, owner)
			}
		}
	}

	if !progress.EndStep() {
		return nil, domain.CodeCanceled, domain.CanceledError(StageName)
	}

	if allCached {
		return info, domain.CodeSuccessCached, nil
	}
	return info, domain.CodeSuccess, nil
}

func (b *Builder) extract(ctx context.Context, it item, opts Options) (extracted, error) {
	id := it.ref.ID
	kind := b.oracle.Classify(id)

	address := it.ref.Address
	if address == "" {
		address = b.oracle.DefaultAddress(id)
	}

	switch kind {
	case domain.AssetScene:
		scene, cached, err := b.prepareScene(ctx, id, opts)
		if err != nil {
			return extracted{}, err
		}
		return extracted{
			kind: kind,
			info: &domain.AssetLoadInfo{
				Asset:          id,
				Address:        address,
				Referenced:     scene.Referenced,
				ProcessedScene: scene.ProcessedScene,
			},
			scene:  &scene,
			cached: cached,
		}, nil

	case domain.AssetRegular:
		objects, cached, err := b.extractAsset(ctx, id, opts)
		if err != nil {
			return extracted{}, err
		}
		return extracted{
			kind: kind,
			info: &domain.AssetLoadInfo{
				Asset:      id,
				Address:    address,
				Included:   objects.Included,
				Referenced: objects.Referenced,
			},
			cached: cached,
		}, nil

	default:
		b.logger.Warn(fmt.Sprintf("skipping invalid asset %s in bundle %s", id, it.bundle))
		return extracted{kind: domain.AssetInvalid}, nil
	}
}

// assetEntry is the cached extraction result of a regular asset.
type assetEntry struct {
	Included   []domain.ObjectIdentifier `json:"included"`
	Referenced []domain.ObjectIdentifier `json:"referenced"`
}

func (b *Builder) extractAsset(ctx context.Context, id domain.AssetID, opts Options) (assetEntry, bool, error) {
	key, keyed := b.cacheKey(ctx, "asset", id, opts)

	var entry assetEntry
	if keyed && b.cache.Load(ctx, key, &entry) {
		return entry, true, nil
	}

	included, referenced, err := b.extractor.Extract(ctx, id, opts.Platform)
	if err != nil {
		return entry, false, zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "asset", string(id))
	}
	entry = assetEntry{Included: included, Referenced: referenced}

	if keyed && !b.cache.Save(ctx, key, entry) {
		b.logger.Warn(fmt.Sprintf("could not cache extraction of asset %s", id))
	}
	return entry, false, nil
}

func (b *Builder) prepareScene(ctx context.Context, id domain.AssetID, opts Options) (domain.SceneInfo, bool, error) {
	dir := filepath.Join(opts.ScratchDir, string(id))
	key, keyed := b.cacheKey(ctx, "scene", id, opts)

	var entry domain.SceneInfo
	if keyed && b.cache.LoadArtifacts(ctx, key, &entry, dir) {
		return absScene(entry, dir), true, nil
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return entry, false, zerr.With(zerr.Wrap(err, domain.ErrScenePreparationFailed.Error()), "scene", string(id))
	}
	scene, err := b.scenes.Prepare(ctx, id, opts.Platform, dir)
	if err != nil {
		return entry, false, zerr.With(zerr.Wrap(err, domain.ErrScenePreparationFailed.Error()), "scene", string(id))
	}

	if keyed {
		rel, paths, ok := relScene(scene, dir)
		if !ok || !b.cache.SaveArtifacts(ctx, key, rel, dir, paths) {
			b.logger.Warn(fmt.Sprintf("could not cache prepared scene %s", id))
		}
	}
	return scene, false, nil
}

// cacheKey derives the key of one item. Items whose content hash is unknown are not cached.
func (b *Builder) cacheKey(ctx context.Context, kind string, id domain.AssetID, opts Options) (hashing.Key, bool) {
	if !opts.UseCache {
		return hashing.Key{}, false
	}
	contentHash, err := b.oracle.ContentHash(ctx, id)
	if err != nil {
		b.logger.Warn(fmt.Sprintf("cannot hash asset %s, building without cache: %v", id, err))
		return hashing.Key{}, false
	}
	key, err := hashing.Sum(StageVersion, kind, id, contentHash, opts.Platform)
	if err != nil {
		return hashing.Key{}, false
	}
	return key, true
}

// relScene rewrites the scene's file paths relative to dir so they can be cached as artifacts.
func relScene(scene domain.SceneInfo, dir string) (domain.SceneInfo, []string, bool) {
	rel := scene
	rel.ResourceFiles = make([]domain.ResourceFile, len(scene.ResourceFiles))

	var paths []string
	relPath := func(p string) (string, bool) {
		r, err := filepath.Rel(dir, p)
		if err != nil || !filepath.IsLocal(r) {
			return "", false
		}
		paths = append(paths, r)
		return r, true
	}

	var ok bool
	if rel.ProcessedScene, ok = relPath(scene.ProcessedScene); !ok {
		return rel, nil, false
	}
	for i, f := range scene.ResourceFiles {
		r, ok := relPath(f.FileName)
		if !ok {
			return rel, nil, false
		}
		rel.ResourceFiles[i] = domain.ResourceFile{FileName: r, Serialized: f.Serialized}
	}
	return rel, lo.Uniq(paths), true
}

func absScene(scene domain.SceneInfo, dir string) domain.SceneInfo {
	scene.ProcessedScene = filepath.Join(dir, scene.ProcessedScene)
	files := make([]domain.ResourceFile, len(scene.ResourceFiles))
	for i, f := range scene.ResourceFiles {
		files[i] = domain.ResourceFile{FileName: filepath.Join(dir, f.FileName), Serialized: f.Serialized}
	}
	scene.ResourceFiles = files
	return scene
}
