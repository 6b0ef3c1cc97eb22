// Package writer serializes compiled write commands into resource files.
package writer

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ResourceWriter = (*Writer)(nil)

// FormatVersion is the version of the serialized file layout.
const FormatVersion = 1

// ScenePrefix prefixes the file name of every processed scene copied into a scene bundle.
const ScenePrefix = "BuildPlayer-"

// Writer writes one serialized file per command, plus the processed scenes and raw
// resources of scene bundles.
type Writer struct{}

// New creates a Writer.
func New() *Writer {
	return &Writer{}
}

// document is the serialized form of one bundle.
type document struct {
	FormatVersion int                        `json:"formatVersion"`
	Bundle        string                     `json:"bundle"`
	InternalName  string                     `json:"internalName"`
	Platform      domain.Platform            `json:"platform"`
	Dependencies  []string                   `json:"dependencies"`
	Externals     []string                   `json:"externals"`
	Assets        []preload                  `json:"assets"`
	Objects       []domain.SerializationInfo `json:"objects"`
	SceneBundle   bool                       `json:"sceneBundle"`
	UsageTags     domain.UsageTags           `json:"usageTags"`
}

type preload struct {
	Asset   domain.AssetID `json:"asset"`
	Address string         `json:"address"`
}

// Write serializes cmd into outDir and returns the written files in archive order.
func (w *Writer) Write(
	ctx context.Context,
	cmd *domain.WriteCommand,
	deps []*domain.WriteCommand,
	platform domain.Platform,
	outDir string,
) ([]domain.ResourceFile, error) {
	doc := document{
		FormatVersion: FormatVersion,
		Bundle:        cmd.Bundle,
		InternalName:  cmd.InternalName,
		Platform:      platform,
		Dependencies:  cmd.Dependencies,
		Externals:     lo.Map(deps, func(d *domain.WriteCommand, _ int) string { return d.InternalName }),
		Assets: lo.Map(cmd.Assets, func(a domain.AssetLoadInfo, _ int) preload {
			return preload{Asset: a.Asset, Address: a.Address}
		}),
		Objects:     cmd.Objects,
		SceneBundle: cmd.SceneBundle,
		UsageTags:   cmd.UsageTags,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to encode bundle"), "bundle", cmd.Bundle)
	}
	mainFile := filepath.Join(outDir, cmd.InternalName)
	if err := os.WriteFile(mainFile, data, domain.FilePerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to write bundle file"), "path", mainFile)
	}
	files := []domain.ResourceFile{{FileName: mainFile, Serialized: true}}

	for _, asset := range cmd.Assets {
		if !asset.IsScene() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dst := filepath.Join(outDir, ScenePrefix+string(asset.Asset))
		if err := copyFile(asset.ProcessedScene, dst); err != nil {
			return nil, err
		}
		files = append(files, domain.ResourceFile{FileName: dst, Serialized: true})
	}

	for _, res := range cmd.SceneResources {
		dst := filepath.Join(outDir, filepath.Base(res.FileName))
		if lo.ContainsBy(files, func(f domain.ResourceFile) bool { return f.FileName == dst }) {
			continue
		}
		if err := copyFile(res.FileName, dst); err != nil {
			return nil, err
		}
		files = append(files, domain.ResourceFile{FileName: dst, Serialized: res.Serialized})
	}

	return files, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // paths come from the scene preparer
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open resource"), "path", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // dst is inside the output directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create resource"), "path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy resource"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close resource"), "path", dst)
	}
	return nil
}
