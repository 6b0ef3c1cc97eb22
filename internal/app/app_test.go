package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/archive"
	"go.trai.ch/bale/internal/adapters/assetdb"
	"go.trai.ch/bale/internal/adapters/cas"
	"go.trai.ch/bale/internal/adapters/fs"
	"go.trai.ch/bale/internal/adapters/telemetry"
	"go.trai.ch/bale/internal/adapters/telemetry/progrock"
	"go.trai.ch/bale/internal/adapters/writer"
	"go.trai.ch/bale/internal/app"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const (
	prefabID domain.AssetID = "00000000000000000000000000000001"
	modelID  domain.AssetID = "00000000000000000000000000000010"
)

const index = `
assets:
  - id: "00000000000000000000000000000001"
    path: Assets/Prefabs/hud.prefab
    type: prefab
    objects:
      - localId: 100100000
        refs: ["meta:00000000000000000000000000000010:4300000:"]
      - localId: 400000
  - id: "00000000000000000000000000000010"
    path: Assets/Models/ship.fbx
    type: model
    objects:
      - localId: 4300000
        kind: meta
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func setupProject(t *testing.T) *domain.Project {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "assets.yaml", index)
	writeFile(t, root, "Assets/Prefabs/hud.prefab", "prefab")
	writeFile(t, root, "Assets/Models/ship.fbx", "model")

	return &domain.Project{
		Root:        root,
		Version:     "1",
		Platform:    domain.Platform{Target: "standalone"},
		OutputDir:   filepath.Join(root, "Bundles"),
		AssetIndex:  filepath.Join(root, "assets.yaml"),
		Compression: domain.CompressionZstd,
		Parallelism: 2,
		Cache: domain.CacheSettings{
			Enabled:       true,
			Dir:           filepath.Join(root, domain.DefaultCachePath()),
			MemoryEntries: 16,
		},
		Dedup:        domain.DedupSettings{Enabled: true},
		StripSprites: true,
		Bundles: []domain.BundleDefinition{
			{Name: "ui", Assets: []domain.AssetRef{{ID: prefabID}}},
			{Name: "models", Assets: []domain.AssetRef{{ID: modelID}}},
		},
	}
}

// cloneProject hands out a fresh copy so overrides of one build do not leak into the next.
func cloneProject(p *domain.Project) func(string) (*domain.Project, error) {
	return func(string) (*domain.Project, error) {
		c := *p
		return &c, nil
	}
}

func newApp(
	loader ports.ConfigLoader,
	caches ports.CacheProvider,
	log ports.Logger,
	stdout *bytes.Buffer,
) *app.App {
	if caches == nil {
		caches = cas.NewProvider(log)
	}
	return app.New(
		loader,
		assetdb.NewOpener(fs.NewHasher(fs.NewWalker())),
		caches,
		writer.New(),
		archive.New(),
		telemetry.NewNoOpTracer(),
		progrock.New(),
		log,
	).WithOutput(stdout)
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func readManifest(t *testing.T, dir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, domain.BuildManifestFileName))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestApp_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	project := setupProject(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("").DoAndReturn(cloneProject(project)).Times(2)
	log := quietLogger(ctrl)

	var stdout bytes.Buffer
	code, err := newApp(loader, nil, log, &stdout).Build(context.Background(), app.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)

	assert.FileExists(t, filepath.Join(project.OutputDir, "ui"))
	assert.FileExists(t, filepath.Join(project.OutputDir, "models"))
	manifest := readManifest(t, project.OutputDir)
	assert.Len(t, manifest["bundles"], 2)
	assert.Contains(t, stdout.String(), "Built 2 bundles for standalone")
	assert.NoDirExists(t, filepath.Join(project.Root, domain.DefaultTempPath(), "build"))

	t.Run("reuses the cache on the next build", func(t *testing.T) {
		stdout.Reset()
		code, err := newApp(loader, nil, log, &stdout).Build(context.Background(), app.BuildOptions{})
		require.NoError(t, err)
		assert.True(t, code.IsOK())
		assert.FileExists(t, filepath.Join(project.OutputDir, "ui"))
		assert.DirExists(t, filepath.Join(project.Cache.Dir, "entries"))
	})
}

func TestApp_Build_LoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("custom.yaml").Return(nil, domain.ErrConfigNotFound)

	var stdout bytes.Buffer
	code, err := newApp(loader, nil, mocks.NewMockLogger(ctrl), &stdout).
		Build(context.Background(), app.BuildOptions{ConfigPath: "custom.yaml"})
	require.ErrorContains(t, err, "failed to load configuration")
	assert.Equal(t, domain.CodeError, code)
	assert.Empty(t, stdout.String())
}

func TestApp_Build_UnsavedChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	project := setupProject(t)
	writeFile(t, project.Root, filepath.Join(domain.BaleDirName, domain.EditorStateFileName),
		"documents:\n  - path: Assets/Prefabs/hud.prefab\n    dirty: true\n")

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("").DoAndReturn(cloneProject(project))

	var stdout bytes.Buffer
	code, err := newApp(loader, nil, quietLogger(ctrl), &stdout).Build(context.Background(), app.BuildOptions{})
	require.ErrorIs(t, err, domain.ErrUnsavedChanges)
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Equal(t, domain.CodeUnsavedChanges, code)
	assert.NoFileExists(t, filepath.Join(project.OutputDir, domain.BuildManifestFileName))
	assert.Contains(t, stdout.String(), "Build unsaved changes")
}

func TestApp_Build_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	project := setupProject(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("").DoAndReturn(cloneProject(project))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	code, err := newApp(loader, nil, quietLogger(ctrl), &stdout).
		Build(ctx, app.BuildOptions{NoCache: true})
	require.Error(t, err)
	assert.Equal(t, domain.CodeCanceled, code)
	assert.NoFileExists(t, filepath.Join(project.OutputDir, domain.BuildManifestFileName))
}

func TestApp_Build_CacheLocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	project := setupProject(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("").DoAndReturn(cloneProject(project))

	store := mocks.NewMockCacheStore(ctrl)
	store.EXPECT().Lock(gomock.Any()).Return(domain.ErrCacheLocked)
	caches := mocks.NewMockCacheProvider(ctrl)
	caches.EXPECT().Open(gomock.Any(), project.Cache).Return(store, nil)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("building without cache: " + domain.ErrCacheLocked.Error())
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	var stdout bytes.Buffer
	code, err := newApp(loader, caches, log, &stdout).Build(context.Background(), app.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)
}

func TestApp_Build_CacheUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	project := setupProject(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("").DoAndReturn(cloneProject(project))

	caches := mocks.NewMockCacheProvider(ctrl)
	caches.EXPECT().Open(gomock.Any(), gomock.Any()).Return(nil, errors.New("bucket unreachable"))

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("building without cache: bucket unreachable")
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	var stdout bytes.Buffer
	code, err := newApp(loader, caches, log, &stdout).Build(context.Background(), app.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)
}

func TestApp_Build_Overrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	project := setupProject(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("").DoAndReturn(cloneProject(project))
	// The provider must not be consulted when the cache is bypassed.
	caches := mocks.NewMockCacheProvider(ctrl)

	out := filepath.Join(t.TempDir(), "dist")
	var stdout bytes.Buffer
	code, err := newApp(loader, caches, quietLogger(ctrl), &stdout).Build(context.Background(), app.BuildOptions{
		NoCache:   true,
		NoDedup:   true,
		OutputDir: out,
		JSON:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, code)

	var summary struct {
		Code   string `json:"code"`
		Stages []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	assert.Equal(t, "success", summary.Code)
	statuses := map[string]string{}
	for _, st := range summary.Stages {
		statuses[st.Name] = st.Status
	}
	assert.Equal(t, string(domain.StageStatusSkipped), statuses["deduplication"])

	assert.FileExists(t, filepath.Join(out, "ui"))
	assert.FileExists(t, filepath.Join(out, domain.BuildManifestFileName))
	assert.NoDirExists(t, project.OutputDir)
}

func TestApp_Clean(t *testing.T) {
	setup := func(t *testing.T) (*domain.Project, *gomock.Controller, *mocks.MockConfigLoader) {
		t.Helper()
		ctrl := gomock.NewController(t)
		project := setupProject(t)
		project.Cache.Remote = domain.RemoteCacheSettings{Endpoint: "minio:9000", Bucket: "bale"}
		writeFile(t, project.OutputDir, "ui", "archive")
		writeFile(t, filepath.Join(project.Root, domain.DefaultTempPath()), "build/stale", "x")
		loader := mocks.NewMockConfigLoader(ctrl)
		loader.EXPECT().Load("").Return(project, nil)
		return project, ctrl, loader
	}

	t.Run("output only", func(t *testing.T) {
		project, ctrl, loader := setup(t)
		log := quietLogger(ctrl)
		caches := mocks.NewMockCacheProvider(ctrl)

		err := newApp(loader, caches, log, new(bytes.Buffer)).
			Clean(context.Background(), app.CleanOptions{Output: true})
		require.NoError(t, err)
		assert.NoDirExists(t, project.OutputDir)
		assert.DirExists(t, filepath.Join(project.Root, domain.DefaultTempPath()))
	})

	t.Run("cache purges local tiers only", func(t *testing.T) {
		project, ctrl, loader := setup(t)
		log := quietLogger(ctrl)

		local := project.Cache
		local.Remote = domain.RemoteCacheSettings{}
		store := mocks.NewMockCacheStore(ctrl)
		caches := mocks.NewMockCacheProvider(ctrl)
		gomock.InOrder(
			caches.EXPECT().Open(gomock.Any(), local).Return(store, nil),
			store.EXPECT().Lock(gomock.Any()).Return(nil),
			store.EXPECT().Purge().Return(nil),
			store.EXPECT().Unlock().Return(nil),
		)

		err := newApp(loader, caches, log, new(bytes.Buffer)).
			Clean(context.Background(), app.CleanOptions{Cache: true})
		require.NoError(t, err)
		assert.DirExists(t, project.OutputDir)
	})

	t.Run("all", func(t *testing.T) {
		project, ctrl, loader := setup(t)
		log := mocks.NewMockLogger(ctrl)
		gomock.InOrder(
			log.EXPECT().Info("purging build cache..."),
			log.EXPECT().Info("purged build cache"),
			log.EXPECT().Info("removing build output..."),
			log.EXPECT().Info("removed build output"),
			log.EXPECT().Info("removing build scratch space..."),
			log.EXPECT().Info("removed build scratch space"),
		)

		err := newApp(loader, nil, log, new(bytes.Buffer)).
			Clean(context.Background(), app.CleanOptions{All: true})
		require.NoError(t, err)
		assert.NoDirExists(t, project.OutputDir)
		assert.NoDirExists(t, filepath.Join(project.Root, domain.DefaultTempPath()))
	})

	t.Run("reports purge failures", func(t *testing.T) {
		project, ctrl, loader := setup(t)
		log := quietLogger(ctrl)

		store := mocks.NewMockCacheStore(ctrl)
		store.EXPECT().Lock(gomock.Any()).Return(domain.ErrCacheLocked)
		caches := mocks.NewMockCacheProvider(ctrl)
		caches.EXPECT().Open(gomock.Any(), gomock.Any()).Return(store, nil)

		err := newApp(loader, caches, log, new(bytes.Buffer)).
			Clean(context.Background(), app.CleanOptions{Cache: true, Output: true})
		require.ErrorContains(t, err, domain.ErrCacheLocked.Error())
		assert.NoDirExists(t, project.OutputDir)
	})
}
