// Package cas implements the content-addressed build cache.
package cas

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/juju/fslock"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

const (
	entriesDirName  = "entries"
	scratchDirName  = "tmp"
	entryFileName   = "entry.json"
	artifactDirName = "artifacts"

	lockPollInterval = 50 * time.Millisecond
)

// entry is the stored form of one cache record.
type entry struct {
	Result    json.RawMessage `json:"result"`
	Artifacts []string        `json:"artifacts,omitempty"`
}

// Store keeps entries on disk below one directory, with an optional in-memory tier in
// front and an optional remote tier behind.
// Entries are immutable once committed: a save for a key that already exists is a no-op.
type Store struct {
	dir    string
	memory *lru.Cache[hashing.Key, []byte]
	remote Remote
	logger ports.Logger

	lock   *fslock.Lock
	locked bool
}

// Option configures a Store.
type Option func(*Store) error

// WithMemoryEntries keeps up to n recently used entries in memory.
func WithMemoryEntries(n int) Option {
	return func(s *Store) error {
		if n <= 0 {
			return nil
		}
		memory, err := lru.New[hashing.Key, []byte](n)
		if err != nil {
			return zerr.Wrap(err, "failed to create memory cache")
		}
		s.memory = memory
		return nil
	}
}

// WithRemote consults r on local misses and uploads every new entry to it.
func WithRemote(r Remote) Option {
	return func(s *Store) error {
		s.remote = r
		return nil
	}
}

// WithLogger reports cache failures as warnings to l.
func WithLogger(l ports.Logger) Option {
	return func(s *Store) error {
		s.logger = l
		return nil
	}
}

// NewStore creates a Store rooted at dir. Nothing is written until the first save.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = domain.DefaultCachePath()
	}
	s := &Store{
		dir:  filepath.Clean(dir),
		lock: fslock.New(filepath.Join(dir, domain.CacheLockFileName)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dir returns the cache root.
func (s *Store) Dir() string {
	return s.dir
}

// Load implements ports.BuildCache.
func (s *Store) Load(ctx context.Context, key hashing.Key, out any) bool {
	e, ok := s.read(ctx, key)
	if !ok {
		return false
	}
	return s.decode(key, e, out)
}

// LoadArtifacts implements ports.BuildCache.
func (s *Store) LoadArtifacts(ctx context.Context, key hashing.Key, out any, destDir string) bool {
	e, ok := s.read(ctx, key)
	if !ok {
		return false
	}
	src := filepath.Join(s.entryDir(key), artifactDirName)
	for _, rel := range e.Artifacts {
		if ctx.Err() != nil {
			return false
		}
		err := copyFile(filepath.Join(src, filepath.FromSlash(rel)), filepath.Join(destDir, filepath.FromSlash(rel)))
		if err != nil {
			s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key.String()))
			return false
		}
	}
	return s.decode(key, e, out)
}

// Save implements ports.BuildCache.
func (s *Store) Save(ctx context.Context, key hashing.Key, result any) bool {
	return s.SaveArtifacts(ctx, key, result, "", nil)
}

// SaveArtifacts implements ports.BuildCache.
func (s *Store) SaveArtifacts(ctx context.Context, key hashing.Key, result any, srcDir string, paths []string) bool {
	if ctx.Err() != nil {
		return false
	}
	raw, err := json.Marshal(result)
	if err != nil {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key.String()))
		return false
	}
	e := entry{Result: raw}
	for _, p := range paths {
		e.Artifacts = append(e.Artifacts, filepath.ToSlash(p))
	}
	if err := checkArtifacts(e.Artifacts); err != nil {
		s.warn(zerr.With(err, "key", key.String()))
		return false
	}
	data, err := json.Marshal(e)
	if err != nil {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key.String()))
		return false
	}

	if s.exists(key) {
		s.remember(key, data)
		return true
	}

	err = s.commit(key, data, func(dir string) error {
		for _, rel := range e.Artifacts {
			src := filepath.Join(srcDir, filepath.FromSlash(rel))
			dst := filepath.Join(dir, artifactDirName, filepath.FromSlash(rel))
			if err := copyFile(src, dst); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key.String()))
		return false
	}
	s.remember(key, data)
	s.upload(ctx, key, data, e.Artifacts)
	return true
}

// Lock takes the single-writer lock of the cache directory, polling until ctx is done.
func (s *Store) Lock(ctx context.Context) error {
	if s.locked {
		return nil
	}
	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "dir", s.dir)
	}
	for {
		err := s.lock.TryLock()
		if err == nil {
			s.locked = true
			return nil
		}
		if !errors.Is(err, fslock.ErrLocked) {
			return zerr.With(zerr.Wrap(err, domain.ErrCacheLocked.Error()), "dir", s.dir)
		}
		select {
		case <-ctx.Done():
			return zerr.With(domain.ErrCacheLocked, "dir", s.dir)
		case <-time.After(lockPollInterval):
		}
	}
}

// Unlock releases the lock taken by Lock.
func (s *Store) Unlock() error {
	if !s.locked {
		return nil
	}
	s.locked = false
	if err := s.lock.Unlock(); err != nil {
		return zerr.Wrap(err, "failed to release cache lock")
	}
	return nil
}

// Purge removes every local entry. The remote tier is left untouched.
func (s *Store) Purge() error {
	if s.memory != nil {
		s.memory.Purge()
	}
	for _, name := range []string{entriesDirName, scratchDirName} {
		if err := os.RemoveAll(filepath.Join(s.dir, name)); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to purge cache"), "dir", s.dir)
		}
	}
	return nil
}

func (s *Store) entryDir(key hashing.Key) string {
	k := key.String()
	return filepath.Join(s.dir, entriesDirName, k[:2], k)
}

func (s *Store) exists(key hashing.Key) bool {
	_, err := os.Stat(filepath.Join(s.entryDir(key), entryFileName))
	return err == nil
}

func (s *Store) remember(key hashing.Key, data []byte) {
	if s.memory != nil {
		s.memory.Add(key, data)
	}
}

// read looks the entry up in memory, then on disk, then remotely.
func (s *Store) read(ctx context.Context, key hashing.Key) (*entry, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	data, ok := s.lookup(ctx, key)
	if !ok {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key.String()))
		return nil, false
	}
	if err := checkArtifacts(e.Artifacts); err != nil {
		s.warn(zerr.With(err, "key", key.String()))
		return nil, false
	}
	return &e, true
}

func (s *Store) lookup(ctx context.Context, key hashing.Key) ([]byte, bool) {
	if s.memory != nil {
		if data, ok := s.memory.Get(key); ok && s.exists(key) {
			return data, true
		}
	}

	data, err := os.ReadFile(filepath.Join(s.entryDir(key), entryFileName))
	if err == nil {
		s.remember(key, data)
		return data, true
	}
	if !errors.Is(err, fs.ErrNotExist) {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key.String()))
		return nil, false
	}

	data, ok := s.fetch(ctx, key)
	if ok {
		s.remember(key, data)
	}
	return data, ok
}

func (s *Store) decode(key hashing.Key, e *entry, out any) bool {
	if err := json.Unmarshal(e.Result, out); err != nil {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key.String()))
		return false
	}
	return true
}

// commit builds an entry in a scratch directory and moves it into place in one rename.
func (s *Store) commit(key hashing.Key, data []byte, fill func(dir string) error) error {
	scratch := filepath.Join(s.dir, scratchDirName)
	if err := os.MkdirAll(scratch, domain.DirPerm); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp(scratch, key.String()+"-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	if err := os.WriteFile(filepath.Join(tmp, entryFileName), data, domain.FilePerm); err != nil {
		return err
	}
	if err := fill(tmp); err != nil {
		return err
	}

	final := s.entryDir(key)
	if err := os.MkdirAll(filepath.Dir(final), domain.DirPerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		if s.exists(key) {
			return nil
		}
		return err
	}
	return nil
}

func remoteName(key hashing.Key, parts ...string) string {
	return path.Join(append([]string{key.String()}, parts...)...)
}

// upload pushes artifacts first and the entry last, so remote readers never see a
// partial entry.
func (s *Store) upload(ctx context.Context, key hashing.Key, data []byte, artifacts []string) {
	if s.remote == nil {
		return
	}
	dir := filepath.Join(s.entryDir(key), artifactDirName)
	for _, rel := range artifacts {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel))) //nolint:gosec // inside cache root
		if err == nil {
			err = s.remote.Put(ctx, remoteName(key, artifactDirName, rel), content)
		}
		if err != nil {
			s.warn(zerr.With(err, "key", key.String()))
			return
		}
	}
	if err := s.remote.Put(ctx, remoteName(key, entryFileName), data); err != nil {
		s.warn(zerr.With(err, "key", key.String()))
	}
}

// fetch downloads an entry from the remote tier and commits it locally.
func (s *Store) fetch(ctx context.Context, key hashing.Key) ([]byte, bool) {
	if s.remote == nil {
		return nil, false
	}
	data, err := s.remote.Get(ctx, remoteName(key, entryFileName))
	if err != nil {
		if !errors.Is(err, ErrRemoteMiss) {
			s.warn(zerr.With(err, "key", key.String()))
		}
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key.String()))
		return nil, false
	}
	if err := checkArtifacts(e.Artifacts); err != nil {
		s.warn(zerr.With(err, "key", key.String()))
		return nil, false
	}

	err = s.commit(key, data, func(dir string) error {
		for _, rel := range e.Artifacts {
			content, err := s.remote.Get(ctx, remoteName(key, artifactDirName, rel))
			if err != nil {
				return err
			}
			dst := filepath.Join(dir, artifactDirName, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
				return err
			}
			if err := os.WriteFile(dst, content, domain.FilePerm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.warn(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key.String()))
		return nil, false
	}
	return data, true
}

// checkArtifacts rejects artifact names that would resolve outside an entry's artifact directory.
func checkArtifacts(artifacts []string) error {
	for _, rel := range artifacts {
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return zerr.With(zerr.Wrap(domain.ErrInvalidArtifact, ""), "artifact", rel)
		}
	}
	return nil
}

func (s *Store) warn(err error) {
	if s.logger != nil {
		s.logger.Warn(err.Error())
	}
}

// copyFile copies src to a temporary file beside dst and renames it into place, so dst
// is either absent, its previous content, or complete.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // paths come from the cache or the build directory
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return err
	}
	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+"-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = out.Close()
			_ = os.Remove(out.Name())
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(out.Name(), domain.FilePerm); err != nil {
		return err
	}
	if err := os.Rename(out.Name(), dst); err != nil {
		return err
	}
	committed = true
	return nil
}
