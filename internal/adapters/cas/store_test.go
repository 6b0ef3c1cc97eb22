package cas_test

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/cas"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type result struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

type fakeRemote struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{objects: make(map[string][]byte)}
}

func (r *fakeRemote) Get(_ context.Context, name string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	data, ok := r.objects[name]
	if !ok {
		return nil, cas.ErrRemoteMiss
	}
	return data, nil
}

func (r *fakeRemote) Put(_ context.Context, name string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[name] = append([]byte(nil), data...)
	return nil
}

func newStore(t *testing.T, opts ...cas.Option) *cas.Store {
	t.Helper()
	s, err := cas.NewStore(t.TempDir(), opts...)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	key := hashing.MustSum(1, "entry")

	var out result
	assert.False(t, s.Load(ctx, key, &out))

	require.True(t, s.Save(ctx, key, result{Name: "a", Files: []string{"x"}}))
	require.True(t, s.Load(ctx, key, &out))
	assert.Equal(t, result{Name: "a", Files: []string{"x"}}, out)
}

func TestStore_EntriesAreImmutable(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	key := hashing.MustSum(1, "entry")

	require.True(t, s.Save(ctx, key, result{Name: "first"}))
	require.True(t, s.Save(ctx, key, result{Name: "second"}))

	var out result
	require.True(t, s.Load(ctx, key, &out))
	assert.Equal(t, "first", out.Name)
}

func TestStore_Artifacts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	key := hashing.MustSum(1, "scene")

	src := t.TempDir()
	writeFile(t, src, "scene/BuildPlayer-1", "processed")
	writeFile(t, src, "scene/main.resS", "raw")
	paths := []string{filepath.Join("scene", "BuildPlayer-1"), filepath.Join("scene", "main.resS")}

	require.True(t, s.SaveArtifacts(ctx, key, result{Name: "scene"}, src, paths))

	dest := t.TempDir()
	var out result
	require.True(t, s.LoadArtifacts(ctx, key, &out, dest))
	assert.Equal(t, "scene", out.Name)

	data, err := os.ReadFile(filepath.Join(dest, "scene", "BuildPlayer-1"))
	require.NoError(t, err)
	assert.Equal(t, "processed", string(data))
	data, err = os.ReadFile(filepath.Join(dest, "scene", "main.resS"))
	require.NoError(t, err)
	assert.Equal(t, "raw", string(data))
}

func TestStore_MissingArtifactIsNotSaved(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	s := newStore(t, cas.WithLogger(log))
	key := hashing.MustSum(1, "scene")

	assert.False(t, s.SaveArtifacts(ctx, key, result{}, t.TempDir(), []string{"missing"}))
	var out result
	assert.False(t, s.Load(ctx, key, &out))

	entries, err := os.ReadDir(filepath.Join(s.Dir(), "tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch entries are cleaned up")
}

func TestStore_FailedRestoreKeepsDestination(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	s := newStore(t, cas.WithLogger(log))
	key := hashing.MustSum(1, "archive")
	src := t.TempDir()
	writeFile(t, src, "ui", "new archive")
	require.True(t, s.SaveArtifacts(ctx, key, result{Name: "ui"}, src, []string{"ui"}))

	// Replace the cached artifact with something that cannot be read as a file.
	k := key.String()
	cached := filepath.Join(s.Dir(), "entries", k[:2], k, "artifacts", "ui")
	require.NoError(t, os.Remove(cached))
	require.NoError(t, os.Mkdir(cached, domain.DirPerm))

	dest := t.TempDir()
	writeFile(t, dest, "ui", "previous archive")
	var out result
	assert.False(t, s.LoadArtifacts(ctx, key, &out, dest))

	content, err := os.ReadFile(filepath.Join(dest, "ui"))
	require.NoError(t, err)
	assert.Equal(t, "previous archive", string(content))
	leftovers, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Len(t, leftovers, 1)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := hashing.MustSum(1, "entry")

	first, err := cas.NewStore(dir, cas.WithMemoryEntries(4))
	require.NoError(t, err)
	require.True(t, first.Save(ctx, key, result{Name: "kept"}))

	second, err := cas.NewStore(dir, cas.WithMemoryEntries(4))
	require.NoError(t, err)
	var out result
	require.True(t, second.Load(ctx, key, &out))
	assert.Equal(t, "kept", out.Name)
}

func TestStore_MemoryTierFollowsPurge(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, cas.WithMemoryEntries(4))
	key := hashing.MustSum(1, "entry")

	require.True(t, s.Save(ctx, key, result{Name: "a"}))
	var out result
	require.True(t, s.Load(ctx, key, &out))

	require.NoError(t, s.Purge())
	assert.False(t, s.Load(ctx, key, &out))
	assert.NoDirExists(t, filepath.Join(s.Dir(), "entries"))
}

func TestStore_CanceledContextMisses(t *testing.T) {
	s := newStore(t)
	key := hashing.MustSum(1, "entry")
	require.True(t, s.Save(context.Background(), key, result{Name: "a"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out result
	assert.False(t, s.Load(ctx, key, &out))
	assert.False(t, s.Save(ctx, hashing.MustSum(1, "other"), result{}))
}

func TestStore_RemoteTier(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	key := hashing.MustSum(1, "shared")

	src := t.TempDir()
	writeFile(t, src, "BuildPlayer-1", "processed")

	producer := newStore(t, cas.WithRemote(remote))
	require.True(t, producer.SaveArtifacts(ctx, key, result{Name: "remote"}, src, []string{"BuildPlayer-1"}))
	assert.Contains(t, remote.objects, key.String()+"/entry.json")
	assert.Contains(t, remote.objects, key.String()+"/artifacts/BuildPlayer-1")

	consumer := newStore(t, cas.WithRemote(remote))
	dest := t.TempDir()
	var out result
	require.True(t, consumer.LoadArtifacts(ctx, key, &out, dest))
	assert.Equal(t, "remote", out.Name)
	assert.FileExists(t, filepath.Join(dest, "BuildPlayer-1"))

	gets := remote.gets
	require.True(t, consumer.Load(ctx, key, &out))
	assert.Equal(t, gets, remote.gets, "a fetched entry is served locally")
}

func TestStore_RemoteMiss(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	s := newStore(t, cas.WithRemote(newFakeRemote()), cas.WithLogger(log))
	var out result
	assert.False(t, s.Load(ctx, hashing.MustSum(1, "absent"), &out))
}

func TestStore_RemoteEntryEscapingCacheRoot(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(2)

	root := t.TempDir()
	dir := filepath.Join(root, "cache")
	key := hashing.MustSum(1, "escape")
	escape := "../../../../escaped.txt"

	remote := newFakeRemote()
	remote.objects[key.String()+"/entry.json"] = []byte(`{"result":{"name":"evil"},"artifacts":["` + escape + `"]}`)
	remote.objects[path.Join(key.String(), "artifacts", escape)] = []byte("payload")

	s, err := cas.NewStore(dir, cas.WithRemote(remote), cas.WithLogger(log))
	require.NoError(t, err)

	// 1. The entry is a miss and nothing lands outside the cache
	var out result
	assert.False(t, s.LoadArtifacts(ctx, key, &out, t.TempDir()))
	assert.NoFileExists(t, filepath.Join(root, "escaped.txt"))
	k := key.String()
	assert.NoDirExists(t, filepath.Join(dir, "entries", k[:2], k))

	// 2. Saving artifacts outside the source directory is refused
	src := t.TempDir()
	assert.False(t, s.SaveArtifacts(ctx, key, result{Name: "evil"}, src, []string{"../outside"}))

	// 3. The key stays usable for a valid entry
	writeFile(t, src, "BuildPlayer-1", "processed")
	require.True(t, s.SaveArtifacts(ctx, key, result{Name: "good"}, src, []string{"BuildPlayer-1"}))
	require.True(t, s.LoadArtifacts(ctx, key, &out, t.TempDir()))
	assert.Equal(t, "good", out.Name)
}

func TestStore_Lock(t *testing.T) {
	dir := t.TempDir()
	a, err := cas.NewStore(dir)
	require.NoError(t, err)
	b, err := cas.NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, a.Lock(context.Background()))
	assert.FileExists(t, filepath.Join(dir, domain.CacheLockFileName))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err = b.Lock(ctx)
	require.ErrorContains(t, err, domain.ErrCacheLocked.Error())

	require.NoError(t, a.Unlock())
	require.NoError(t, b.Lock(context.Background()))
	require.NoError(t, b.Unlock())
	require.NoError(t, b.Unlock(), "unlocking twice is harmless")
}

func TestProvider_Open(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()

	store, err := cas.NewProvider(mocks.NewMockLogger(ctrl)).Open(context.Background(), domain.CacheSettings{
		Enabled:       true,
		Dir:           dir,
		MemoryEntries: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, dir, store.(*cas.Store).Dir())
}

func TestNewMinioRemote_RejectsIncompleteSettings(t *testing.T) {
	_, err := cas.NewMinioRemote(domain.RemoteCacheSettings{Endpoint: "localhost:9000"})
	require.Error(t, err)
}
