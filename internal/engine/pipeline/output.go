package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"github.com/samber/lo"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/hashing"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/engine/compiler"
	"go.trai.ch/zerr"
)

// Cache format versions of the output stages.
const (
	WriteStageVersion   uint32 = 1
	ArchiveStageVersion uint32 = 1
)

// writeEntry is the cached result of writing one command. File names are relative to
// the command's output directory.
type writeEntry struct {
	Files []domain.ResourceFile `json:"files"`
}

// archiveEntry is the cached result of archiving one bundle.
type archiveEntry struct {
	CRC uint32 `json:"crc"`
}

// fileDigest identifies one input of an archive.
type fileDigest struct {
	Name       string
	Serialized bool
	Digest     string
}

func (p *Pipeline) write(
	ctx context.Context,
	graph *compiler.Graph,
	info *domain.DependencyInfo,
	opts Options,
	dir string,
	tracker ports.ProgressTracker,
) (map[string][]domain.ResourceFile, domain.Code, error) {
	written := make(map[string][]domain.ResourceFile)
	code := domain.CodeSuccessCached

	tracker.StartStep(StageWrite, len(info.BundleOrder))
	for cmd := range graph.Walk() {
		if !tracker.Update(cmd.Bundle) {
			return nil, domain.CodeCanceled, domain.CanceledError(StageWrite)
		}

		deps, err := graph.Closure(cmd.Bundle)
		if err != nil {
			return nil, domain.CodeError, err
		}
		outDir := filepath.Join(dir, cmd.InternalName)
		key, keyed := p.writeKey(ctx, cmd, deps, info, opts)

		var entry writeEntry
		if keyed && p.cache.LoadArtifacts(ctx, key, &entry, outDir) {
			written[cmd.Bundle] = lo.Map(entry.Files, func(f domain.ResourceFile, _ int) domain.ResourceFile {
				return domain.ResourceFile{FileName: filepath.Join(outDir, f.FileName), Serialized: f.Serialized}
			})
			continue
		}
		code = domain.CodeSuccess

		if err := os.MkdirAll(outDir, domain.DirPerm); err != nil {
			return nil, domain.CodeError, zerr.With(zerr.Wrap(err, domain.ErrResourceWriteFailed.Error()), "bundle", cmd.Bundle)
		}
		files, err := p.collab.Writer.Write(ctx, cmd, deps, opts.Platform, outDir)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrResourceWriteFailed.Error()), "bundle", cmd.Bundle)
			return nil, domain.CodeOf(err), err
		}
		written[cmd.Bundle] = files

		if keyed {
			p.saveWritten(ctx, key, cmd.Bundle, files, outDir)
		}
	}
	if !tracker.EndStep() {
		return nil, domain.CodeCanceled, domain.CanceledError(StageWrite)
	}
	return written, code, nil
}

// writeKey hashes the command, its dependency file names and the content of every asset
// the command serializes objects from, members included. Commands with an asset of
// unknown content are not cached. Objects of assets outside the asset index carry no
// content of their own and are keyed by identity alone.
func (p *Pipeline) writeKey(
	ctx context.Context,
	cmd *domain.WriteCommand,
	deps []*domain.WriteCommand,
	info *domain.DependencyInfo,
	opts Options,
) (hashing.Key, bool) {
	if !opts.UseCache {
		return hashing.Key{}, false
	}

	members := lo.FilterMap(cmd.Assets, func(a domain.AssetLoadInfo, _ int) (domain.AssetID, bool) {
		return a.Asset, !info.IsVirtual(a.Asset)
	})
	sources := lo.FilterMap(cmd.Objects, func(o domain.SerializationInfo, _ int) (domain.AssetID, bool) {
		return o.Object.Asset, !o.Object.Asset.IsZero() && !info.IsVirtual(o.Object.Asset)
	})

	hashes := make(map[domain.AssetID]string, len(members)+len(sources))
	for _, asset := range members {
		h, err := p.collab.Oracle.ContentHash(ctx, asset)
		if err != nil {
			p.logger.Warn(fmt.Sprintf("cannot hash asset %s, writing %s without cache", asset, cmd.Bundle))
			return hashing.Key{}, false
		}
		hashes[asset] = h
	}
	for _, asset := range lo.Uniq(sources) {
		if _, done := hashes[asset]; done {
			continue
		}
		h, err := p.collab.Oracle.ContentHash(ctx, asset)
		switch {
		case errors.Is(err, domain.ErrAssetNotFound):
			continue
		case err != nil:
			p.logger.Warn(fmt.Sprintf("cannot hash asset %s, writing %s without cache", asset, cmd.Bundle))
			return hashing.Key{}, false
		}
		hashes[asset] = h
	}

	depNames := lo.Map(deps, func(d *domain.WriteCommand, _ int) string { return d.InternalName })
	key, err := hashing.Sum(WriteStageVersion, cmd, depNames, hashes, opts.Platform)
	return key, err == nil
}

func (p *Pipeline) saveWritten(ctx context.Context, key hashing.Key, bundle string, files []domain.ResourceFile, outDir string) {
	entry := writeEntry{Files: make([]domain.ResourceFile, 0, len(files))}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(outDir, f.FileName)
		if err != nil || !filepath.IsLocal(rel) {
			p.logger.Warn(fmt.Sprintf("resource file %s of %s lies outside its output directory, not cached", f.FileName, bundle))
			return
		}
		entry.Files = append(entry.Files, domain.ResourceFile{FileName: rel, Serialized: f.Serialized})
		paths = append(paths, rel)
	}
	if !p.cache.SaveArtifacts(ctx, key, entry, outDir, paths) {
		p.logger.Warn("could not cache resource files of " + bundle)
	}
}

func (p *Pipeline) archive(
	ctx context.Context,
	graph *compiler.Graph,
	written map[string][]domain.ResourceFile,
	opts Options,
	res *Result,
	tracker ports.ProgressTracker,
) (domain.Code, error) {
	code := domain.CodeSuccessCached

	tracker.StartStep(StageArchive, len(written))
	for cmd := range graph.Walk() {
		if !tracker.Update(cmd.Bundle) {
			return domain.CodeCanceled, domain.CanceledError(StageArchive)
		}

		files := written[cmd.Bundle]
		outPath := filepath.Join(opts.OutputDir, filepath.FromSlash(cmd.Bundle))

		digests, err := digestFiles(files)
		if err != nil {
			return domain.CodeError, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "bundle", cmd.Bundle)
		}
		key, keyErr := hashing.Sum(ArchiveStageVersion, cmd.Bundle, digests, opts.Compression)
		keyed := opts.UseCache && keyErr == nil

		var entry archiveEntry
		if !keyed || !p.cache.LoadArtifacts(ctx, key, &entry, opts.OutputDir) {
			code = domain.CodeSuccess
			crc, err := p.collab.Archiver.Archive(ctx, files, opts.Compression, outPath)
			if err != nil {
				err = zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "bundle", cmd.Bundle)
				return domain.CodeOf(err), err
			}
			entry.CRC = crc
			if keyed && !p.cache.SaveArtifacts(ctx, key, entry, opts.OutputDir, []string{filepath.FromSlash(cmd.Bundle)}) {
				p.logger.Warn("could not cache archive of " + cmd.Bundle)
			}
		}

		archiveDigest, err := digestFile(outPath)
		if err != nil {
			return domain.CodeError, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "bundle", cmd.Bundle)
		}
		res.Bundles[cmd.Bundle] = domain.BundleResult{
			Bundle:       cmd.Bundle,
			Archive:      outPath,
			Files:        lo.Map(files, func(f domain.ResourceFile, _ int) string { return filepath.Base(f.FileName) }),
			CRC:          entry.CRC,
			Digest:       archiveDigest.String(),
			Dependencies: cmd.Dependencies,
		}
	}
	if !tracker.EndStep() {
		return domain.CodeCanceled, domain.CanceledError(StageArchive)
	}
	return code, nil
}

func digestFiles(files []domain.ResourceFile) ([]fileDigest, error) {
	out := make([]fileDigest, 0, len(files))
	for _, f := range files {
		d, err := digestFile(f.FileName)
		if err != nil {
			return nil, err
		}
		out = append(out, fileDigest{Name: filepath.Base(f.FileName), Serialized: f.Serialized, Digest: d.String()})
	}
	return out, nil
}

func digestFile(path string) (digest.Digest, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from the build's own output
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	return digest.FromReader(f)
}
