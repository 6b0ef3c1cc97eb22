package writer_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/writer"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
)

func TestWrite_AssetBundle(t *testing.T) {
	t.Parallel()

	obj := domain.ObjectIdentifier{Asset: "0001", LocalID: 7, Kind: domain.KindSerializedAsset}
	cmd := &domain.WriteCommand{
		Bundle:       "ui",
		InternalName: hashing.InternalFileName("ui"),
		Assets:       []domain.AssetLoadInfo{{Asset: "0001", Address: "Assets/ui.prefab"}},
		Objects:      []domain.SerializationInfo{{Object: obj, Index: hashing.SerializationIndex(obj)}},
		Dependencies: []string{"shared"},
	}
	dep := &domain.WriteCommand{Bundle: "shared", InternalName: hashing.InternalFileName("shared")}
	outDir := t.TempDir()

	files, err := writer.New().Write(context.Background(), cmd, []*domain.WriteCommand{dep}, domain.Platform{Target: "linux64"}, outDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(outDir, cmd.InternalName), files[0].FileName)
	assert.True(t, files[0].Serialized)

	data, err := os.ReadFile(files[0].FileName)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "ui", doc["bundle"])
	assert.Equal(t, []any{"shared"}, doc["dependencies"])
	assert.Equal(t, []any{dep.InternalName}, doc["externals"])
	assert.Len(t, doc["objects"], 1)
}

func TestWrite_Deterministic(t *testing.T) {
	t.Parallel()

	cmd := &domain.WriteCommand{Bundle: "a", InternalName: hashing.InternalFileName("a")}
	w := writer.New()

	first, err := w.Write(context.Background(), cmd, nil, domain.Platform{Target: "ios"}, t.TempDir())
	require.NoError(t, err)
	second, err := w.Write(context.Background(), cmd, nil, domain.Platform{Target: "ios"}, t.TempDir())
	require.NoError(t, err)

	a, err := os.ReadFile(first[0].FileName)
	require.NoError(t, err)
	b, err := os.ReadFile(second[0].FileName)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWrite_SceneBundle(t *testing.T) {
	t.Parallel()

	scratch := t.TempDir()
	scene := filepath.Join(scratch, "scene.processed")
	resource := filepath.Join(scratch, "main.resS")
	require.NoError(t, os.WriteFile(scene, []byte("scene"), 0o600))
	require.NoError(t, os.WriteFile(resource, []byte("raw"), 0o600))

	cmd := &domain.WriteCommand{
		Bundle:         "level",
		InternalName:   hashing.InternalFileName("level"),
		Assets:         []domain.AssetLoadInfo{{Asset: "0020", ProcessedScene: scene}},
		SceneBundle:    true,
		SceneResources: []domain.ResourceFile{{FileName: resource}},
	}
	outDir := t.TempDir()

	files, err := writer.New().Write(context.Background(), cmd, nil, domain.Platform{Target: "linux64"}, outDir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(outDir, writer.ScenePrefix+"0020"), files[1].FileName)
	assert.Equal(t, filepath.Join(outDir, "main.resS"), files[2].FileName)
	assert.False(t, files[2].Serialized)

	data, err := os.ReadFile(files[2].FileName)
	require.NoError(t, err)
	assert.Equal(t, "raw", string(data))
}

func TestWrite_MissingSceneFails(t *testing.T) {
	t.Parallel()

	cmd := &domain.WriteCommand{
		Bundle:       "level",
		InternalName: hashing.InternalFileName("level"),
		Assets:       []domain.AssetLoadInfo{{Asset: "0020", ProcessedScene: filepath.Join(t.TempDir(), "missing")}},
		SceneBundle:  true,
	}
	_, err := writer.New().Write(context.Background(), cmd, nil, domain.Platform{}, t.TempDir())
	require.ErrorContains(t, err, "failed to open resource")
}
