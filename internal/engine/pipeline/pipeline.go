// Package pipeline runs the bundle build: preflight, dependency graph, sprite stripping,
// deduplication, command compilation, resource writing and archiving, strictly in order.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/engine/compiler"
	"go.trai.ch/bale/internal/engine/dedup"
	"go.trai.ch/bale/internal/engine/depgraph"
	"go.trai.ch/bale/internal/engine/sprites"
	"go.trai.ch/zerr"
)

// Stage names as reported in results and telemetry.
const (
	StagePreflight = "preflight"
	StageWrite     = "resource writing"
	StageArchive   = "archiving"
)

// Options configures one build.
type Options struct {
	Bundles   []domain.BundleDefinition
	Platform  domain.Platform
	OutputDir string
	// TempRoot is the parent of the scoped build directory. It is removed on every exit path.
	TempRoot     string
	UseCache     bool
	Dedup        domain.DedupSettings
	StripSprites bool
	Compression  domain.Compression
	Parallelism  int
	// Progress receives per-item progress. Defaults to a Tracker over the pipeline's telemetry.
	Progress ports.ProgressTracker
}

// StageReport describes how one stage ended.
type StageReport struct {
	Name     string
	Status   domain.StageStatus
	Duration time.Duration
}

// Result is the outcome of a build.
type Result struct {
	Code    domain.Code
	Bundles map[string]domain.BundleResult
	Stages  []StageReport
}

// Collaborators are the external systems the pipeline drives.
type Collaborators struct {
	Extractor ports.ContentExtractor
	Scenes    ports.ScenePreparer
	Oracle    ports.AssetOracle
	Editor    ports.EditorState
	Writer    ports.ResourceWriter
	Archiver  ports.Archiver
}

// Pipeline sequences the build stages.
type Pipeline struct {
	collab    Collaborators
	cache     ports.BuildCache
	tracer    ports.Tracer
	telemetry ports.Telemetry
	logger    ports.Logger

	graph    *depgraph.Builder
	sprites  *sprites.Stripper
	dedup    *dedup.Deduplicator
	compiler *compiler.Compiler
}

// New creates a Pipeline. telemetry may be nil.
func New(
	collab Collaborators,
	cache ports.BuildCache,
	tracer ports.Tracer,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		collab:    collab,
		cache:     cache,
		tracer:    tracer,
		telemetry: telemetry,
		logger:    logger,
		graph:     depgraph.New(collab.Extractor, collab.Scenes, collab.Oracle, cache, logger),
		sprites:   sprites.New(collab.Oracle, cache, logger),
		dedup:     dedup.New(collab.Extractor, cache, logger),
		compiler:  compiler.New(cache, logger),
	}
}

// Run executes the build. The returned error is non-nil exactly when the result code is not OK.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{Code: domain.CodeSuccess, Bundles: make(map[string]domain.BundleResult)}

	var tracker ports.ProgressTracker = NewTracker(ctx, p.telemetry)
	if opts.Progress != nil {
		tracker = opts.Progress
	}
	tracker = &cancelAware{ctx: ctx, inner: tracker}

	p.tracer.EmitPlan(ctx, plan(opts))

	// 1. Preflight, before anything touches the filesystem.
	if err := p.stage(ctx, res, StagePreflight, func(ctx context.Context) (domain.Code, error) {
		return p.preflight(ctx)
	}); err != nil {
		return res, err
	}

	// 2. Scoped build directory, released on every exit path.
	dir, err := scopedDir(opts.TempRoot)
	if err != nil {
		res.Code = domain.CodeError
		return res, err
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			p.logger.Warn("could not remove build directory " + dir + ": " + rmErr.Error())
		}
	}()

	var info *domain.DependencyInfo
	if err := p.stage(ctx, res, depgraph.StageName, func(ctx context.Context) (domain.Code, error) {
		var code domain.Code
		var err error
		info, code, err = p.graph.Build(ctx, opts.Bundles, depgraph.Options{
			Platform:    opts.Platform,
			ScratchDir:  filepath.Join(dir, "scenes"),
			UseCache:    opts.UseCache,
			Parallelism: opts.Parallelism,
		}, tracker)
		if err != nil {
			return code, err
		}
		if err := info.Validate(); err != nil {
			return domain.CodeError, err
		}
		return code, nil
	}); err != nil {
		return res, err
	}

	if opts.StripSprites {
		if err := p.stage(ctx, res, sprites.StageName, func(ctx context.Context) (domain.Code, error) {
			var code domain.Code
			var err error
			info, code, err = p.sprites.Run(ctx, info, opts.UseCache, tracker)
			return code, err
		}); err != nil {
			return res, err
		}
	} else {
		res.skip(sprites.StageName)
	}

	if opts.Dedup.Enabled {
		if err := p.stage(ctx, res, dedup.StageName, func(ctx context.Context) (domain.Code, error) {
			var code domain.Code
			var err error
			info, code, err = p.dedup.Run(ctx, info, dedup.Options{
				Platform:   opts.Platform,
				Aggressive: opts.Dedup.Aggressive,
				UseCache:   opts.UseCache,
			}, tracker)
			if err != nil {
				return code, err
			}
			if err := info.Validate(); err != nil {
				return domain.CodeError, err
			}
			return code, nil
		}); err != nil {
			return res, err
		}
	} else {
		res.skip(dedup.StageName)
	}

	var graph *compiler.Graph
	if err := p.stage(ctx, res, compiler.StageName, func(ctx context.Context) (domain.Code, error) {
		cmds, code, err := p.compiler.Compile(ctx, info, opts.UseCache, tracker)
		if err != nil {
			return code, err
		}
		graph, err = compiler.NewGraph(cmds)
		if err != nil {
			return domain.CodeError, err
		}
		return code, nil
	}); err != nil {
		return res, err
	}

	var written map[string][]domain.ResourceFile
	if err := p.stage(ctx, res, StageWrite, func(ctx context.Context) (domain.Code, error) {
		var code domain.Code
		var err error
		written, code, err = p.write(ctx, graph, info, opts, filepath.Join(dir, "write"), tracker)
		return code, err
	}); err != nil {
		return res, err
	}

	if err := p.stage(ctx, res, StageArchive, func(ctx context.Context) (domain.Code, error) {
		return p.archive(ctx, graph, written, opts, res, tracker)
	}); err != nil {
		return res, err
	}

	res.Code = res.finalCode()
	return res, nil
}

// stage runs fn inside a span and records its report. A non-OK code ends the build.
func (p *Pipeline) stage(
	ctx context.Context,
	res *Result,
	name string,
	fn func(ctx context.Context) (domain.Code, error),
) error {
	ctx, span := p.tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	code, err := fn(ctx)
	if err != nil && code.IsOK() {
		code = domain.CodeOf(err)
	}
	res.Stages = append(res.Stages, StageReport{
		Name:     name,
		Status:   domain.StatusForCode(code),
		Duration: time.Since(start),
	})
	span.SetAttribute("bale.code", code.String())

	if !code.IsOK() {
		if err == nil {
			err = zerr.With(zerr.New("stage failed"), "stage", name)
		}
		span.RecordError(err)
		res.Code = code
		return err
	}
	return nil
}

func (p *Pipeline) preflight(ctx context.Context) (domain.Code, error) {
	if p.collab.Editor == nil {
		return domain.CodeSuccess, nil
	}
	dirty, err := p.collab.Editor.HasUnsavedChanges(ctx)
	if err != nil {
		return domain.CodeOf(err), zerr.Wrap(err, "preflight check failed")
	}
	if dirty {
		return domain.CodeUnsavedChanges, zerr.Wrap(domain.ErrUnsavedChanges, "save or discard open documents before building")
	}
	return domain.CodeSuccess, nil
}

// scopedDir creates a fresh build directory below root. The name is fixed so that
// paths handed to collaborators, and therefore cache keys, are stable between builds.
func scopedDir(root string) (string, error) {
	dir := filepath.Join(root, "build")
	if err := os.RemoveAll(dir); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTempDirFailed.Error()), "path", dir)
	}
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTempDirFailed.Error()), "path", dir)
	}
	return dir, nil
}

func plan(opts Options) []string {
	stages := []string{StagePreflight, depgraph.StageName}
	if opts.StripSprites {
		stages = append(stages, sprites.StageName)
	}
	if opts.Dedup.Enabled {
		stages = append(stages, dedup.StageName)
	}
	return append(stages, compiler.StageName, StageWrite, StageArchive)
}

func (r *Result) skip(name string) {
	r.Stages = append(r.Stages, StageReport{Name: name, Status: domain.StageStatusSkipped})
}

// finalCode is SuccessCached only when every executed stage after preflight reused the cache.
func (r *Result) finalCode() domain.Code {
	code := domain.CodeSuccessCached
	ran := false
	for _, s := range r.Stages {
		switch {
		case s.Name == StagePreflight, s.Status == domain.StageStatusSkipped:
			continue
		case s.Status == domain.StageStatusCached:
			ran = true
		default:
			ran = true
			code = domain.CodeSuccess
		}
	}
	if !ran {
		return domain.CodeSuccess
	}
	return code
}
