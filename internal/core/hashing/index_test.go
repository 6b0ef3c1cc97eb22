package hashing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
)

func TestSerializationIndex(t *testing.T) {
	mesh := domain.ObjectIdentifier{Asset: "00000000000000000000000000000010", LocalID: 4300000, Kind: domain.KindMetaAsset}
	builtin := domain.ObjectIdentifier{LocalID: 10, Kind: domain.KindNonAsset, Path: "resources/builtin_extra"}

	t.Run("stable across calls", func(t *testing.T) {
		assert.Equal(t, hashing.SerializationIndex(mesh), hashing.SerializationIndex(mesh))
		assert.Equal(t, hashing.SerializationIndex(builtin), hashing.SerializationIndex(builtin))
	})

	t.Run("kind participates for asset objects", func(t *testing.T) {
		serialized := mesh
		serialized.Kind = domain.KindSerializedAsset
		assert.NotEqual(t, hashing.SerializationIndex(mesh), hashing.SerializationIndex(serialized))
	})

	t.Run("local id participates", func(t *testing.T) {
		other := mesh
		other.LocalID++
		assert.NotEqual(t, hashing.SerializationIndex(mesh), hashing.SerializationIndex(other))
	})

	t.Run("path addresses non-asset objects", func(t *testing.T) {
		other := builtin
		other.Path = "resources/other"
		assert.NotEqual(t, hashing.SerializationIndex(builtin), hashing.SerializationIndex(other))

		// The asset id is ignored for path-addressed objects.
		withAsset := builtin
		withAsset.Asset = "ffffffffffffffffffffffffffffffff"
		assert.Equal(t, hashing.SerializationIndex(builtin), hashing.SerializationIndex(withAsset))
	})
}

func TestInternalFileName(t *testing.T) {
	name := hashing.InternalFileName("characters")
	assert.True(t, strings.HasPrefix(name, "CAB-"))
	assert.Len(t, name, 4+2*hashing.KeySize)
	assert.Equal(t, name, hashing.InternalFileName("characters"))
	assert.NotEqual(t, name, hashing.InternalFileName("environment"))
}
