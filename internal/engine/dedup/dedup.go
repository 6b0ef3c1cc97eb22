// Package dedup moves objects needed by more than one bundle into virtual bundles so
// each object is serialized once.
package dedup

import (
	"context"
	"fmt"
	"slices"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

// StageVersion is folded into every cache key of this stage.
const StageVersion uint32 = 1

// StageName is the display name of this stage.
const StageName = "deduplication"

// Options configures one deduplication run.
type Options struct {
	Platform domain.Platform
	// Aggressive also shares secondary included objects, not only cross references.
	Aggressive bool
	UseCache   bool
}

// Deduplicator synthesizes virtual bundles for shared objects.
type Deduplicator struct {
	extractor ports.ContentExtractor
	cache     ports.BuildCache
	logger    ports.Logger
}

// New creates a Deduplicator.
func New(extractor ports.ContentExtractor, cache ports.BuildCache, logger ports.Logger) *Deduplicator {
	return &Deduplicator{extractor: extractor, cache: cache, logger: logger}
}

// usage tracks who needs one object.
type usage struct {
	bundles []string
	assets  []domain.AssetID
}

// group is a set of objects needed by exactly the same bundles.
type group struct {
	key     hashing.Key
	objects []domain.ObjectIdentifier
}

// Run consumes in and returns a new graph with virtual assets for every object needed
// by more than one bundle. in is left untouched.
func (d *Deduplicator) Run(
	ctx context.Context,
	in *domain.DependencyInfo,
	opts Options,
	progress ports.ProgressTracker,
) (*domain.DependencyInfo, domain.Code, error) {
	key, keyErr := hashing.Sum(StageVersion, opts.Aggressive, opts.Platform, in)
	cacheable := opts.UseCache && keyErr == nil
	if cacheable {
		var cached domain.DependencyInfo
		if d.cache.Load(ctx, key, &cached) {
			return &cached, domain.CodeSuccessCached, nil
		}
	}

	out := in.Clone()
	progress.StartStep(StageName, len(out.AssetOrder))

	// 1. Map every candidate object to the bundles and assets that need it.
	usages := make(map[domain.ObjectIdentifier]*usage)
	var order []domain.ObjectIdentifier
	need := func(obj domain.ObjectIdentifier, bundle string, asset domain.AssetID) {
		u, ok := usages[obj]
		if !ok {
			u = &usage{}
			usages[obj] = u
			order = append(order, obj)
		}
		if !slices.Contains(u.bundles, bundle) {
			u.bundles = append(u.bundles, bundle)
		}
		if !slices.Contains(u.assets, asset) {
			u.assets = append(u.assets, asset)
		}
	}

	for _, asset := range out.AssetOrder {
		if !progress.Update(string(asset)) {
			return nil, domain.CodeCanceled, domain.CanceledError(StageName)
		}
		if out.IsVirtual(asset) {
			continue
		}
		owner, _ := out.Owner(asset)
		info := out.AssetLoadInfo[asset]

		if opts.Aggressive && len(info.Included) > 1 {
			for _, obj := range info.Included[1:] {
				need(obj, owner, asset)
			}
		}
		for _, ref := range info.Referenced {
			if ref.IsBuiltin() {
				continue
			}
			if !opts.Aggressive && !ref.Asset.IsZero() {
				if _, owned := out.AssetToBundles[ref.Asset]; owned {
					continue
				}
			}
			need(ref, owner, asset)
		}
	}

	// 2. Group shared objects by the exact set of bundles that need them.
	var groups []*group
	byKey := make(map[hashing.Key]*group)
	for _, obj := range order {
		u := usages[obj]
		if len(u.bundles) < 2 {
			continue
		}
		gk, err := hashing.Sum(StageVersion, hashing.Unordered(u.bundles))
		if err != nil {
			return nil, domain.CodeError, err
		}
		g, ok := byKey[gk]
		if !ok {
			g = &group{key: gk}
			byKey[gk] = g
			groups = append(groups, g)
		}
		g.objects = append(g.objects, obj)
	}

	// 3. Create one virtual asset per group, owning itself as a bundle.
	for _, g := range groups {
		id := domain.AssetID(g.key.String())
		address := g.key.String()
		slices.SortFunc(g.objects, domain.ObjectIdentifier.Compare)

		out.AddAsset(address, &domain.AssetLoadInfo{
			Asset:    id,
			Address:  address,
			Included: slices.Clone(g.objects),
		})
		out.VirtualAssets[id] = true
		for _, obj := range g.objects {
			out.ObjectToVirtualAsset[obj] = id
		}
	}

	// 4. Every asset that needed a grouped object now depends on its virtual bundle.
	for _, g := range groups {
		address := g.key.String()
		for _, obj := range g.objects {
			for _, asset := range usages[obj].assets {
				out.AddDependency(asset, address)
			}
		}
	}

	// 5. Resolve what the virtual assets themselves depend on.
	for _, g := range groups {
		if err := d.resolveVirtual(ctx, out, domain.AssetID(g.key.String()), opts.Platform); err != nil {
			return nil, domain.CodeOf(err), err
		}
	}

	if len(groups) > 0 {
		d.logger.Info(fmt.Sprintf("deduplicated %d shared objects into %d virtual bundles", countObjects(groups), len(groups)))
	}

	if !progress.EndStep() {
		return nil, domain.CodeCanceled, domain.CanceledError(StageName)
	}

	if cacheable && !d.cache.Save(ctx, key, out) {
		d.logger.Warn("could not cache deduplication result")
	}
	return out, domain.CodeSuccess, nil
}

// resolveVirtual adds the bundles needed by the objects of virtual: other virtual bundles
// for shared references, owning bundles for everything else.
func (d *Deduplicator) resolveVirtual(
	ctx context.Context,
	out *domain.DependencyInfo,
	virtual domain.AssetID,
	platform domain.Platform,
) error {
	refs, err := d.extractor.ReferencesForObjects(ctx, out.AssetLoadInfo[virtual].Included, platform)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "virtual_asset", string(virtual))
	}

	for _, ref := range refs {
		if ref.IsBuiltin() {
			continue
		}
		if other, shared := out.ObjectToVirtualAsset[ref]; shared {
			if other != virtual {
				owner, _ := out.Owner(other)
				out.AddDependency(virtual, owner)
			}
			continue
		}
		if ref.Asset.IsZero() {
			continue
		}
		if owner, ok := out.Owner(ref.Asset); ok {
			out.AddDependency(virtual, owner)
		}
	}
	return nil
}

func countObjects(groups []*group) int {
	n := 0
	for _, g := range groups {
		n += len(g.objects)
	}
	return n
}
