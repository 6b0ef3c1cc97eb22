package assetdb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/assetdb"
	"go.trai.ch/bale/internal/adapters/fs"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const (
	prefabID  domain.AssetID = "00000000000000000000000000000001"
	modelID   domain.AssetID = "00000000000000000000000000000010"
	sceneID   domain.AssetID = "00000000000000000000000000000020"
	spriteID  domain.AssetID = "00000000000000000000000000000030"
	missingID domain.AssetID = "00000000000000000000000000000099"
)

const index = `
assets:
  - id: "00000000000000000000000000000001"
    path: Assets/Prefabs/1.prefab
    type: prefab
    objects:
      - localId: 100100000
        refs:
          - "meta:00000000000000000000000000000010:4300000:"
          - "nonasset::10:library/default resources"
      - localId: 400000
        refs: ["serialized:00000000000000000000000000000001:100100000:"]
      - localId: 2300000
        platforms: [android]
        refs: ["meta:00000000000000000000000000000030:2800000:"]
  - id: "00000000000000000000000000000010"
    path: Assets/Models/m.fbx
    type: model
    objects:
      - localId: 4300000
        kind: meta
        refs: ["nonasset::46:resources/builtin_extra"]
  - id: "00000000000000000000000000000030"
    path: Assets/Sprites/s.png
    type: texture
    packedSprite: true
    objects:
      - localId: 2800000
        kind: meta
  - id: "00000000000000000000000000000020"
    path: Assets/Scenes/main.unity
    type: scene
    objects:
      - localId: 1
        refs: ["meta:00000000000000000000000000000010:4300000:"]
    scene:
      usageTags: 5
      resources: [Assets/Scenes/main.resS]
  - id: "00000000000000000000000000000099"
    path: Assets/Missing.prefab
`

var (
	standalone = domain.Platform{Target: "standalone"}
	android    = domain.Platform{Target: "android"}

	mesh           = domain.ObjectIdentifier{Asset: modelID, LocalID: 4300000, Kind: domain.KindMetaAsset}
	spriteTexture  = domain.ObjectIdentifier{Asset: spriteID, LocalID: 2800000, Kind: domain.KindMetaAsset}
	defaultBuiltin = domain.ObjectIdentifier{LocalID: 10, Kind: domain.KindNonAsset, Path: domain.BuiltinResourcePath}
	extraBuiltin   = domain.ObjectIdentifier{LocalID: 46, Kind: domain.KindNonAsset, Path: "resources/builtin_extra"}
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func setupProject(t *testing.T) (string, *assetdb.Database) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "assets.yaml", index)
	writeFile(t, root, "Assets/Prefabs/1.prefab", "prefab")
	writeFile(t, root, "Assets/Models/m.fbx", "model")
	writeFile(t, root, "Assets/Models/m.fbx.meta", "importer settings")
	writeFile(t, root, "Assets/Sprites/s.png", "png")
	writeFile(t, root, "Assets/Scenes/main.unity", "scene")
	writeFile(t, root, "Assets/Scenes/main.resS", "raw resource")

	db, err := assetdb.Open(root, filepath.Join(root, "assets.yaml"), fs.NewHasher(fs.NewWalker()))
	require.NoError(t, err)
	return root, db
}

func TestDatabase_Extract(t *testing.T) {
	_, db := setupProject(t)
	ctx := context.Background()

	included, referenced, err := db.Extract(ctx, prefabID, standalone)
	require.NoError(t, err)
	assert.Equal(t, []domain.ObjectIdentifier{
		{Asset: prefabID, LocalID: 100100000, Kind: domain.KindSerializedAsset},
		{Asset: prefabID, LocalID: 400000, Kind: domain.KindSerializedAsset},
	}, included)
	assert.Equal(t, []domain.ObjectIdentifier{defaultBuiltin, mesh}, referenced,
		"references to own objects are dropped")

	included, referenced, err = db.Extract(ctx, prefabID, android)
	require.NoError(t, err)
	assert.Len(t, included, 3)
	assert.Equal(t, []domain.ObjectIdentifier{defaultBuiltin, mesh, spriteTexture}, referenced)
}

func TestDatabase_Extract_Missing(t *testing.T) {
	_, db := setupProject(t)
	ctx := context.Background()

	_, _, err := db.Extract(ctx, missingID, standalone)
	require.ErrorContains(t, err, domain.ErrAssetNotFound.Error())

	_, _, err = db.Extract(ctx, "ffffffffffffffffffffffffffffffff", standalone)
	require.ErrorContains(t, err, domain.ErrAssetNotFound.Error())
}

func TestDatabase_ReferencesForObjects(t *testing.T) {
	_, db := setupProject(t)
	unknown := domain.ObjectIdentifier{Asset: "ffffffffffffffffffffffffffffffff", LocalID: 1, Kind: domain.KindMetaAsset}

	refs, err := db.ReferencesForObjects(context.Background(), []domain.ObjectIdentifier{mesh, unknown}, standalone)
	require.NoError(t, err)
	assert.Equal(t, []domain.ObjectIdentifier{extraBuiltin}, refs)

	refs, err = db.ReferencesForObjects(context.Background(), []domain.ObjectIdentifier{spriteTexture}, standalone)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestDatabase_Oracle(t *testing.T) {
	_, db := setupProject(t)

	assert.Equal(t, domain.AssetRegular, db.Classify(prefabID))
	assert.Equal(t, domain.AssetScene, db.Classify(sceneID))
	assert.Equal(t, domain.AssetInvalid, db.Classify(missingID), "indexed but not on disk")
	assert.Equal(t, domain.AssetInvalid, db.Classify("ffffffffffffffffffffffffffffffff"))

	assert.Equal(t, "Assets/Prefabs/1.prefab", db.DefaultAddress(prefabID))
	assert.Equal(t, "unknown", db.DefaultAddress("unknown"))

	assert.True(t, db.IsPackedSprite(spriteID))
	assert.False(t, db.IsPackedSprite(prefabID))
}

func TestDatabase_Prepare(t *testing.T) {
	_, db := setupProject(t)
	scratch := filepath.Join(t.TempDir(), "scene")

	info, err := db.Prepare(context.Background(), sceneID, standalone, scratch)
	require.NoError(t, err)

	assert.Equal(t, domain.UsageTags(5), info.UsageTags)
	assert.Equal(t, []domain.ObjectIdentifier{mesh}, info.Referenced)
	assert.FileExists(t, info.ProcessedScene)
	assert.Equal(t, scratch, filepath.Dir(info.ProcessedScene))

	require.Len(t, info.ResourceFiles, 1)
	assert.False(t, info.ResourceFiles[0].Serialized)
	data, err := os.ReadFile(info.ResourceFiles[0].FileName)
	require.NoError(t, err)
	assert.Equal(t, "raw resource", string(data))
}

func TestDatabase_Prepare_NotAScene(t *testing.T) {
	_, db := setupProject(t)
	_, err := db.Prepare(context.Background(), prefabID, standalone, t.TempDir())
	require.ErrorContains(t, err, domain.ErrAssetNotFound.Error())
}

func TestDatabase_Prepare_MissingResource(t *testing.T) {
	root, db := setupProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "Assets", "Scenes", "main.resS")))

	_, err := db.Prepare(context.Background(), sceneID, standalone, t.TempDir())
	require.ErrorContains(t, err, domain.ErrScenePreparationFailed.Error())
}

func TestDatabase_ContentHash(t *testing.T) {
	root, db := setupProject(t)
	ctx := context.Background()

	first, err := db.ContentHash(ctx, prefabID)
	require.NoError(t, err)
	again, err := db.ContentHash(ctx, prefabID)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	writeFile(t, root, "Assets/Scenes/main.unity", "edited scene")
	unrelated, err := db.ContentHash(ctx, prefabID)
	require.NoError(t, err)
	assert.Equal(t, first, unrelated, "unreferenced assets do not count")

	writeFile(t, root, "Assets/Models/m.fbx.meta", "new importer settings")
	transitive, err := db.ContentHash(ctx, prefabID)
	require.NoError(t, err)
	assert.NotEqual(t, first, transitive, "referenced assets count")

	_, err = db.ContentHash(ctx, missingID)
	require.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestDatabase_ContentHash_HasherFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets.yaml", index)
	writeFile(t, root, "Assets/Prefabs/1.prefab", "prefab")

	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockFileHasher(ctrl)
	hasher.EXPECT().HashFiles(gomock.Any()).Return("", assert.AnError)

	db, err := assetdb.Open(root, filepath.Join(root, "assets.yaml"), hasher)
	require.NoError(t, err)
	_, err = db.ContentHash(context.Background(), prefabID)
	require.ErrorContains(t, err, assert.AnError.Error())
}

func TestDatabase_HasUnsavedChanges(t *testing.T) {
	root, db := setupProject(t)
	ctx := context.Background()
	state := filepath.Join(domain.BaleDirName, domain.EditorStateFileName)

	dirty, err := db.HasUnsavedChanges(ctx)
	require.NoError(t, err)
	assert.False(t, dirty, "no editor state file")

	writeFile(t, root, state, "documents:\n  - path: Assets/Scenes/main.unity\n    dirty: false\n")
	dirty, err = db.HasUnsavedChanges(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	writeFile(t, root, state, "documents:\n  - path: Assets/Scenes/main.unity\n    dirty: true\n")
	dirty, err = db.HasUnsavedChanges(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	writeFile(t, root, state, "documents: [\n")
	_, err = db.HasUnsavedChanges(ctx)
	require.Error(t, err)
}

func TestOpen_InvalidIndex(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "assets:\n  - id: a\n    path: p\n    colour: red\n"},
		{"missing path", "assets:\n  - id: a\n"},
		{"duplicate id", "assets:\n  - id: a\n    path: p\n  - id: a\n    path: q\n"},
		{"bad reference", "assets:\n  - id: a\n    path: p\n    objects:\n      - localId: 1\n        refs: [nonsense]\n"},
		{"bad kind", "assets:\n  - id: a\n    path: p\n    objects:\n      - localId: 1\n        kind: binary\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, "assets.yaml", tt.content)
			_, err := assetdb.Open(root, filepath.Join(root, "assets.yaml"), fs.NewHasher(fs.NewWalker()))
			require.ErrorContains(t, err, domain.ErrAssetIndexReadFailed.Error())
		})
	}

	_, err := assetdb.Open(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.ErrorContains(t, err, domain.ErrAssetIndexReadFailed.Error())
}

func TestOpener_Open(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index/assets.yaml", index)

	db, err := assetdb.NewOpener(fs.NewHasher(fs.NewWalker())).Open(context.Background(), &domain.Project{
		Root:       root,
		AssetIndex: filepath.Join(root, "index", "assets.yaml"),
	})
	require.NoError(t, err)
	assert.True(t, db.IsPackedSprite(spriteID))
}
