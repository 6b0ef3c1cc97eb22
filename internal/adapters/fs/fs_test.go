package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/fs"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	// root/
	//   .git/config
	//   .bale/cache/entry
	//   Library/cache.bin
	//   Assets/a.prefab
	//   Assets/a.prefab.meta
	root := t.TempDir()
	write(t, filepath.Join(root, ".git", "config"), "git")
	write(t, filepath.Join(root, ".bale", "cache", "entry"), "cached")
	write(t, filepath.Join(root, "Library", "cache.bin"), "lib")
	write(t, filepath.Join(root, "Assets", "a.prefab"), "prefab")
	write(t, filepath.Join(root, "Assets", "a.prefab.meta"), "meta")

	var files []string
	for path, err := range fs.NewWalker().WalkFiles(root, []string{"Library", "*.meta"}) {
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"Assets/a.prefab"}, files)
}

func TestWalker_WalkFiles_StopsEarly(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a"), "a")
	write(t, filepath.Join(root, "b"), "b")

	count := 0
	for range fs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	var errs []error
	for _, err := range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing"), nil) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	require.Error(t, errs[0])
}

func TestHasher_HashFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.prefab")
	b := filepath.Join(root, "b.fbx")
	write(t, a, "prefab")
	write(t, b, "model")

	h := fs.NewHasher(fs.NewWalker())

	ab, err := h.HashFiles([]string{a, b})
	require.NoError(t, err)
	ba, err := h.HashFiles([]string{b, a})
	require.NoError(t, err)
	assert.Equal(t, ab, ba, "order of paths does not matter")
	assert.Len(t, ab, 16)

	dir, err := h.HashFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, ab, dir, "a directory hashes like its files")

	dup, err := h.HashFiles([]string{a, root})
	require.NoError(t, err)
	assert.Equal(t, ab, dup, "files are counted once")

	write(t, b, "model v2")
	changed, err := h.HashFiles([]string{a, b})
	require.NoError(t, err)
	assert.NotEqual(t, ab, changed)
}

func TestHasher_HashFiles_Missing(t *testing.T) {
	h := fs.NewHasher(fs.NewWalker())
	_, err := h.HashFiles([]string{filepath.Join(t.TempDir(), "missing")})
	require.ErrorContains(t, err, "failed to stat file")
}

func TestHasher_ComputeFileHash(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	write(t, a, "same")
	write(t, b, "same")

	h := fs.NewHasher(fs.NewWalker())
	ha, err := h.ComputeFileHash(a)
	require.NoError(t, err)
	hb, err := h.ComputeFileHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}
