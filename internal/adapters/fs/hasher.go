package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileHasher = (*Hasher)(nil)

// Hasher hashes file contents with xxhash.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// HashFiles implements ports.FileHasher. Files are combined in path order, so the
// order of paths does not matter. Directories contribute every file below them.
func (h *Hasher) HashFiles(paths []string) (string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		for file, err := range h.walker.WalkFiles(path, nil) {
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", path)
			}
			files = append(files, file)
		}
	}
	slices.Sort(files)
	files = slices.Compact(files)

	hasher := xxhash.New()
	for _, file := range files {
		hash, err := h.ComputeFileHash(file)
		if err != nil {
			return "", err
		}
		if err := binary.Write(hasher, binary.LittleEndian, hash); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
