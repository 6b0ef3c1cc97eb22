package domain_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/core/domain"
)

func TestObjectIdentifier_Compare(t *testing.T) {
	a := domain.ObjectIdentifier{Asset: "00000000000000000000000000000001", LocalID: 5, Kind: domain.KindSerializedAsset}
	b := domain.ObjectIdentifier{Asset: "00000000000000000000000000000002", LocalID: 1, Kind: domain.KindSerializedAsset}
	sameAssetHigherLocal := domain.ObjectIdentifier{Asset: a.Asset, LocalID: 6, Kind: domain.KindSerializedAsset}
	sameLocalOtherKind := domain.ObjectIdentifier{Asset: a.Asset, LocalID: 5, Kind: domain.KindNonAsset}
	pathA := domain.ObjectIdentifier{LocalID: 9, Kind: domain.KindNonAsset, Path: "resources/a"}
	pathB := domain.ObjectIdentifier{LocalID: 1, Kind: domain.KindNonAsset, Path: "resources/b"}

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Negative(t, a.Compare(sameAssetHigherLocal))
	assert.Negative(t, a.Compare(sameLocalOtherKind))
	assert.Zero(t, a.Compare(a))

	// Without asset ids the path decides before the local id.
	assert.Negative(t, pathA.Compare(pathB))
	// An empty asset id sorts before any asset id.
	assert.Negative(t, pathB.Compare(a))
}

func TestObjectIdentifier_SortIsTotal(t *testing.T) {
	ids := []domain.ObjectIdentifier{
		{Asset: "b", LocalID: 1, Kind: domain.KindMetaAsset},
		{Path: "z", LocalID: 1, Kind: domain.KindNonAsset},
		{Asset: "a", LocalID: 2, Kind: domain.KindMetaAsset},
		{Asset: "a", LocalID: 1, Kind: domain.KindSerializedAsset},
		{Path: "y", LocalID: 3, Kind: domain.KindNonAsset},
	}
	reversed := slices.Clone(ids)
	slices.Reverse(reversed)

	slices.SortFunc(ids, domain.ObjectIdentifier.Compare)
	slices.SortFunc(reversed, domain.ObjectIdentifier.Compare)
	assert.Equal(t, ids, reversed)
	assert.Equal(t, "y", ids[0].Path)
	assert.Equal(t, domain.AssetID("b"), ids[4].Asset)
}

func TestObjectIdentifier_TextRoundTripAsMapKey(t *testing.T) {
	id := domain.ObjectIdentifier{Kind: domain.KindNonAsset, LocalID: -7, Path: "library/a:b"}
	m := map[domain.ObjectIdentifier]domain.AssetID{id: "v"}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[domain.ObjectIdentifier]domain.AssetID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m, decoded)
}

func TestObjectIdentifier_UnmarshalTextRejectsGarbage(t *testing.T) {
	var id domain.ObjectIdentifier
	require.ErrorContains(t, id.UnmarshalText([]byte("meta:abc")), domain.ErrInvalidObjectIdentifier.Error())
	require.ErrorContains(t, id.UnmarshalText([]byte("bogus:abc:1:")), domain.ErrInvalidObjectIdentifier.Error())
	require.ErrorContains(t, id.UnmarshalText([]byte("meta:abc:x:")), domain.ErrInvalidObjectIdentifier.Error())
}

func TestObjectIdentifier_IsBuiltin(t *testing.T) {
	assert.True(t, domain.ObjectIdentifier{Path: domain.BuiltinResourcePath, Kind: domain.KindNonAsset}.IsBuiltin())
	assert.False(t, domain.ObjectIdentifier{Path: "resources/extra", Kind: domain.KindNonAsset}.IsBuiltin())
}
