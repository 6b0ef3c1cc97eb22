package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/zerr"
)

// ManifestVersion is the version of the build manifest layout.
const ManifestVersion = 1

// Manifest lists the bundles of one build, for loaders at runtime.
type Manifest struct {
	FormatVersion int              `json:"formatVersion"`
	Platform      domain.Platform  `json:"platform"`
	Cached        bool             `json:"cached"`
	Bundles       []ManifestBundle `json:"bundles"`
}

// ManifestBundle is one entry of the manifest.
type ManifestBundle struct {
	Name         string   `json:"name"`
	Archive      string   `json:"archive"`
	CRC          uint32   `json:"crc"`
	Digest       string   `json:"digest"`
	Dependencies []string `json:"dependencies"`
}

// NewManifest builds the manifest of s. Archive paths are relative to the output directory.
func NewManifest(s Summary) Manifest {
	m := Manifest{
		FormatVersion: ManifestVersion,
		Platform:      s.Platform,
		Cached:        s.Code == domain.CodeSuccessCached,
		Bundles:       make([]ManifestBundle, 0, len(s.Bundles)),
	}
	for _, b := range s.Bundles {
		archive := b.Archive
		if rel, err := filepath.Rel(s.OutputDir, b.Archive); err == nil && !strings.HasPrefix(rel, "..") {
			archive = filepath.ToSlash(rel)
		}
		deps := b.Dependencies
		if deps == nil {
			deps = []string{}
		}
		m.Bundles = append(m.Bundles, ManifestBundle{
			Name:         b.Bundle,
			Archive:      archive,
			CRC:          b.CRC,
			Digest:       b.Digest,
			Dependencies: deps,
		})
	}
	slices.SortFunc(m.Bundles, func(a, b ManifestBundle) int { return strings.Compare(a.Name, b.Name) })
	return m
}

// Encode writes the manifest as indented JSON.
func (m Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return zerr.Wrap(err, "failed to encode build manifest")
	}
	return nil
}

// WriteManifest writes the manifest of s to the output directory, replacing any
// previous one in a single rename.
func WriteManifest(s Summary) (string, error) {
	path := filepath.Join(s.OutputDir, domain.BuildManifestFileName)
	if err := os.MkdirAll(s.OutputDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", s.OutputDir)
	}

	tmp, err := os.CreateTemp(s.OutputDir, domain.BuildManifestFileName+".*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write build manifest"), "path", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := NewManifest(s).Encode(tmp); err != nil {
		_ = tmp.Close()
		return "", zerr.With(err, "path", path)
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write build manifest"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write build manifest"), "path", path)
	}
	return path, nil
}
