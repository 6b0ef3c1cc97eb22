// Package compiler turns the dependency graph into one write command per bundle.
package compiler

import (
	"cmp"
	"context"
	"slices"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

// StageVersion is folded into every cache key of this stage.
const StageVersion uint32 = 1

// StageName is the display name of this stage.
const StageName = "command compilation"

// Compiler builds write commands.
type Compiler struct {
	cache  ports.BuildCache
	logger ports.Logger
}

// New creates a Compiler.
func New(cache ports.BuildCache, logger ports.Logger) *Compiler {
	return &Compiler{cache: cache, logger: logger}
}

// Compile returns one command per bundle of in, in bundle declaration order.
func (c *Compiler) Compile(
	ctx context.Context,
	in *domain.DependencyInfo,
	useCache bool,
	progress ports.ProgressTracker,
) ([]*domain.WriteCommand, domain.Code, error) {
	key, keyErr := hashing.Sum(StageVersion, in)
	cacheable := useCache && keyErr == nil
	if cacheable {
		var cached []*domain.WriteCommand
		if c.cache.Load(ctx, key, &cached) {
			return cached, domain.CodeSuccessCached, nil
		}
	}

	progress.StartStep(StageName, len(in.BundleOrder))
	cmds := make([]*domain.WriteCommand, 0, len(in.BundleOrder))
	for _, bundle := range in.BundleOrder {
		if !progress.Update(bundle) {
			return nil, domain.CodeCanceled, domain.CanceledError(StageName)
		}
		cmd, err := compileBundle(in, bundle)
		if err != nil {
			return nil, domain.CodeError, err
		}
		cmds = append(cmds, cmd)
	}
	if !progress.EndStep() {
		return nil, domain.CodeCanceled, domain.CanceledError(StageName)
	}

	if cacheable && !c.cache.Save(ctx, key, cmds) {
		c.logger.Warn("could not cache compiled write commands")
	}
	return cmds, domain.CodeSuccess, nil
}

// compileBundle gathers the objects and dependencies of one bundle.
func compileBundle(in *domain.DependencyInfo, bundle string) (*domain.WriteCommand, error) {
	members := in.BundleToAssets[bundle]
	cmd := &domain.WriteCommand{
		Bundle:       bundle,
		InternalName: hashing.InternalFileName(bundle),
		Assets:       make([]domain.AssetLoadInfo, 0, len(members)),
	}

	scenes := 0
	for _, asset := range members {
		if in.AssetLoadInfo[asset].IsScene() {
			scenes++
		}
	}
	if scenes > 0 && scenes < len(members) {
		return nil, zerr.With(zerr.With(domain.ErrMixedBundle, "bundle", bundle), "scenes", scenes)
	}

	deps := make(map[string]bool)
	addDep := func(name string) {
		if name != bundle {
			deps[name] = true
		}
	}
	seen := make(map[domain.ObjectIdentifier]bool)
	var objects []domain.ObjectIdentifier
	add := func(obj domain.ObjectIdentifier) {
		if !seen[obj] {
			seen[obj] = true
			objects = append(objects, obj)
		}
	}

	for _, asset := range members {
		info := in.AssetLoadInfo[asset]
		cmd.Assets = append(cmd.Assets, *info.Clone())

		if m, ok := in.AssetToBundles[asset]; ok {
			for _, dep := range m.Dependencies {
				addDep(dep)
			}
		}

		for _, obj := range info.Included {
			if virtual, shared := in.ObjectToVirtualAsset[obj]; shared && virtual != asset {
				continue
			}
			add(obj)
		}

		for _, ref := range info.Referenced {
			if seen[ref] || ref.IsBuiltin() {
				continue
			}
			if virtual, shared := in.ObjectToVirtualAsset[ref]; shared {
				owner, _ := in.Owner(virtual)
				addDep(owner)
				continue
			}
			if !ref.Asset.IsZero() {
				if owner, ok := in.Owner(ref.Asset); ok {
					addDep(owner)
					continue
				}
			}
			// Nothing else owns the object, so it is serialized inline.
			add(ref)
		}

		if info.IsScene() {
			cmd.SceneBundle = true
			cmd.UsageTags |= in.SceneUsageTags[asset]
			cmd.SceneResources = append(cmd.SceneResources, in.SceneResourceFiles[asset]...)
		}
	}

	cmd.Objects = make([]domain.SerializationInfo, len(objects))
	for i, obj := range objects {
		cmd.Objects[i] = domain.SerializationInfo{Object: obj, Index: hashing.SerializationIndex(obj)}
	}
	slices.SortFunc(cmd.Objects, func(a, b domain.SerializationInfo) int {
		if c := cmp.Compare(a.Index, b.Index); c != 0 {
			return c
		}
		return a.Object.Compare(b.Object)
	})

	cmd.Dependencies = make([]string, 0, len(deps))
	for dep := range deps {
		cmd.Dependencies = append(cmd.Dependencies, dep)
	}
	slices.Sort(cmd.Dependencies)

	return cmd, nil
}
