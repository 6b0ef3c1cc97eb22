// Package sprites removes source textures that are superseded by packed sprite atlases.
package sprites

import (
	"context"
	"fmt"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
)

// StageVersion is folded into every cache key of this stage.
const StageVersion uint32 = 1

// StageName is the display name of this stage.
const StageName = "sprite stripping"

// Stripper drops the root texture object of packed sprites nobody references directly.
type Stripper struct {
	oracle ports.AssetOracle
	cache  ports.BuildCache
	logger ports.Logger
}

// New creates a Stripper.
func New(oracle ports.AssetOracle, cache ports.BuildCache, logger ports.Logger) *Stripper {
	return &Stripper{oracle: oracle, cache: cache, logger: logger}
}

// candidate is a packed sprite together with the number of references to its root object.
type candidate struct {
	Info       *domain.AssetLoadInfo
	References int
}

// Run returns a copy of in where every packed sprite whose root object (its first
// included object) is not referenced by any asset no longer includes that object.
func (s *Stripper) Run(
	ctx context.Context,
	in *domain.DependencyInfo,
	useCache bool,
	progress ports.ProgressTracker,
) (*domain.DependencyInfo, domain.Code, error) {
	out := in.Clone()

	refCount := make(map[domain.ObjectIdentifier]int)
	for _, asset := range out.AssetOrder {
		for _, ref := range out.AssetLoadInfo[asset].Referenced {
			refCount[ref]++
		}
	}

	progress.StartStep(StageName, len(out.AssetOrder))
	var candidates []candidate
	for _, asset := range out.AssetOrder {
		if !progress.Update(string(asset)) {
			return nil, domain.CodeCanceled, domain.CanceledError(StageName)
		}
		info := out.AssetLoadInfo[asset]
		if len(info.Included) == 0 || !s.oracle.IsPackedSprite(asset) {
			continue
		}
		candidates = append(candidates, candidate{Info: info, References: refCount[info.Included[0]]})
	}

	code := domain.CodeSuccess
	var stripped []domain.AssetID
	key, keyErr := hashing.Sum(StageVersion, candidates)
	switch {
	case useCache && keyErr == nil && s.cache.Load(ctx, key, &stripped):
		code = domain.CodeSuccessCached
	default:
		for _, c := range candidates {
			if c.References == 0 {
				stripped = append(stripped, c.Info.Asset)
			}
		}
		if useCache && keyErr == nil && !s.cache.Save(ctx, key, stripped) {
			s.logger.Warn("could not cache sprite stripping result")
		}
	}

	for _, asset := range stripped {
		info, ok := out.AssetLoadInfo[asset]
		if !ok || len(info.Included) == 0 {
			continue
		}
		info.Included = info.Included[1:]
		s.logger.Info(fmt.Sprintf("stripped packed sprite source %s", asset))
	}

	if !progress.EndStep() {
		return nil, domain.CodeCanceled, domain.CanceledError(StageName)
	}
	return out, code, nil
}
