package dedup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/engine/dedup"
	"go.trai.ch/bale/internal/engine/depgraph"
	"go.trai.ch/bale/internal/engine/enginetest"
)

var platform = domain.Platform{Target: "linux64"}

func buildGraph(t *testing.T, p *enginetest.Project, defs []domain.BundleDefinition) *domain.DependencyInfo {
	t.Helper()
	info, _, err := depgraph.New(p, p, p, enginetest.NewCache(), &enginetest.Logger{}).
		Build(context.Background(), defs, depgraph.Options{Platform: platform}, &enginetest.Tracker{})
	require.NoError(t, err)
	return info
}

func virtualBundles(info *domain.DependencyInfo) []string {
	var out []string
	for _, bundle := range info.BundleOrder {
		assets := info.BundleToAssets[bundle]
		if len(assets) == 1 && info.IsVirtual(assets[0]) {
			out = append(out, bundle)
		}
	}
	return out
}

func TestRun_SharedReferences(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(false)
	in := buildGraph(t, p, defs)

	out, code, err := dedup.New(p, enginetest.NewCache(), &enginetest.Logger{}).
		Run(context.Background(), in, dedup.Options{Platform: platform}, &enginetest.Tracker{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)
	require.NoError(t, out.Validate())

	virtuals := virtualBundles(out)
	require.Len(t, virtuals, 1)
	v := virtuals[0]

	assert.Equal(t, []string{"a", v}, out.Bundles(enginetest.Prefab1ID))
	assert.Equal(t, []string{"b", v}, out.Bundles(enginetest.Prefab2ID))
	assert.Equal(t, []domain.AssetID{domain.AssetID(v)}, out.BundleToAssets[v])

	shared := out.AssetLoadInfo[domain.AssetID(v)]
	assert.Equal(t, v, shared.Address)
	assert.Equal(t, []domain.ObjectIdentifier{enginetest.Mesh, enginetest.Script}, shared.Included)
	assert.Empty(t, shared.Referenced)
	assert.Equal(t, domain.AssetID(v), out.ObjectToVirtualAsset[enginetest.Mesh])
	assert.NotContains(t, out.ObjectToVirtualAsset, enginetest.DefaultResource)

	// The input graph is not modified.
	assert.Equal(t, []string{"a"}, in.Bundles(enginetest.Prefab1ID))
	assert.Empty(t, in.VirtualAssets)
	assert.Equal(t, []string{"a", "b"}, in.BundleOrder)
}

func TestRun_OwnedReferencesAreNotShared(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(true)
	in := buildGraph(t, p, defs)

	out, _, err := dedup.New(p, enginetest.NewCache(), &enginetest.Logger{}).
		Run(context.Background(), in, dedup.Options{Platform: platform}, &enginetest.Tracker{})
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	// Only the unowned script is shared; the mesh stays with the model's bundle.
	virtuals := virtualBundles(out)
	require.Len(t, virtuals, 1)
	v := virtuals[0]
	assert.Equal(t, []domain.ObjectIdentifier{enginetest.Script}, out.AssetLoadInfo[domain.AssetID(v)].Included)
	assert.Equal(t, []string{"a", "f", v}, out.Bundles(enginetest.Prefab1ID))
	assert.Equal(t, []string{"f"}, out.Bundles(enginetest.FBXID))
}

func TestRun_Aggressive(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(true)
	in := buildGraph(t, p, defs)

	out, code, err := dedup.New(p, enginetest.NewCache(), &enginetest.Logger{}).
		Run(context.Background(), in, dedup.Options{Platform: platform, Aggressive: true}, &enginetest.Tracker{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)
	require.NoError(t, out.Validate())

	virtuals := virtualBundles(out)
	require.Len(t, virtuals, 2)
	v1, v2 := virtuals[0], virtuals[1]

	assert.Equal(t, []domain.ObjectIdentifier{enginetest.Mesh}, out.AssetLoadInfo[domain.AssetID(v1)].Included)
	assert.Equal(t, []domain.ObjectIdentifier{enginetest.Script}, out.AssetLoadInfo[domain.AssetID(v2)].Included)

	assert.Equal(t, []string{"f", v1}, out.Bundles(enginetest.FBXID))
	assert.Equal(t, []string{"a", "f", v1, v2}, out.Bundles(enginetest.Prefab1ID))
	assert.Equal(t, []string{"b", "f", v1, v2}, out.Bundles(enginetest.Prefab2ID))

	// Root objects never move.
	for _, id := range []domain.AssetID{enginetest.Prefab1ID, enginetest.Prefab2ID, enginetest.FBXID} {
		assert.NotContains(t, out.ObjectToVirtualAsset, out.AssetLoadInfo[id].Included[0])
	}
}

func TestRun_VirtualAssetsDependOnEachOther(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(true)
	p.Objects[enginetest.Script] = []domain.ObjectIdentifier{enginetest.Mesh}
	p.Objects[enginetest.Mesh] = []domain.ObjectIdentifier{enginetest.DefaultResource}
	in := buildGraph(t, p, defs)

	out, _, err := dedup.New(p, enginetest.NewCache(), &enginetest.Logger{}).
		Run(context.Background(), in, dedup.Options{Platform: platform, Aggressive: true}, &enginetest.Tracker{})
	require.NoError(t, err)

	virtuals := virtualBundles(out)
	require.Len(t, virtuals, 2)
	v1, v2 := virtuals[0], virtuals[1]
	assert.Equal(t, []string{v2, v1}, out.Bundles(domain.AssetID(v2)))
	assert.Equal(t, []string{v1}, out.Bundles(domain.AssetID(v1)))
}

func TestRun_GroupKeyIgnoresBundleOrder(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(false)
	reversed := []domain.BundleDefinition{defs[1], defs[0]}
	d := dedup.New(p, enginetest.NewCache(), &enginetest.Logger{})

	first, _, err := d.Run(context.Background(), buildGraph(t, p, defs), dedup.Options{Platform: platform}, &enginetest.Tracker{})
	require.NoError(t, err)
	second, _, err := d.Run(context.Background(), buildGraph(t, p, reversed), dedup.Options{Platform: platform}, &enginetest.Tracker{})
	require.NoError(t, err)

	assert.Equal(t, virtualBundles(first), virtualBundles(second))
}

func TestRun_NothingShared(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(false)
	in := buildGraph(t, p, defs[:1])

	out, code, err := dedup.New(p, enginetest.NewCache(), &enginetest.Logger{}).
		Run(context.Background(), in, dedup.Options{Platform: platform, Aggressive: true}, &enginetest.Tracker{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)
	assert.Empty(t, out.VirtualAssets)
	assert.Equal(t, in, out)
}

func TestRun_Cached(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(true)
	cache := enginetest.NewCache()
	d := dedup.New(p, cache, &enginetest.Logger{})
	opts := dedup.Options{Platform: platform, Aggressive: true, UseCache: true}

	first, code, err := d.Run(context.Background(), buildGraph(t, p, defs), opts, &enginetest.Tracker{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)

	second, code, err := d.Run(context.Background(), buildGraph(t, p, defs), opts, &enginetest.Tracker{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccessCached, code)
	assert.Equal(t, first, second)

	opts.Aggressive = false
	_, code, err = d.Run(context.Background(), buildGraph(t, p, defs), opts, &enginetest.Tracker{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	p, defs := enginetest.PrefabProject(true)
	in := buildGraph(t, p, defs)

	out, code, err := dedup.New(p, enginetest.NewCache(), &enginetest.Logger{}).
		Run(context.Background(), in, dedup.Options{Platform: platform}, &enginetest.Tracker{StopAt: 2})
	require.ErrorIs(t, err, domain.ErrCanceled)
	assert.Equal(t, domain.CodeCanceled, code)
	assert.Nil(t, out)
}
