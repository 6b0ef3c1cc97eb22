// Package app implements the application layer for bale.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/bale/internal/adapters/report" //nolint:depguard // Wired in app layer
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// DefaultLockTimeout bounds how long a build waits for another build to release the cache.
const DefaultLockTimeout = 10 * time.Second

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	databases    ports.AssetDatabaseOpener
	caches       ports.CacheProvider
	writer       ports.ResourceWriter
	archiver     ports.Archiver
	tracer       ports.Tracer
	telemetry    ports.Telemetry
	logger       ports.Logger

	stdout      io.Writer
	lockTimeout time.Duration
	progress    ports.ProgressTracker
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	databases ports.AssetDatabaseOpener,
	caches ports.CacheProvider,
	writer ports.ResourceWriter,
	archiver ports.Archiver,
	tracer ports.Tracer,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		databases:    databases,
		caches:       caches,
		writer:       writer,
		archiver:     archiver,
		tracer:       tracer,
		telemetry:    telemetry,
		logger:       log,
		stdout:       os.Stdout,
		lockTimeout:  DefaultLockTimeout,
	}
}

// WithOutput sets where the build report is written.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithLockTimeout sets how long Build waits for the cache lock.
func (a *App) WithLockTimeout(d time.Duration) *App {
	a.lockTimeout = d
	return a
}

// WithProgress replaces the default progress tracker of the pipeline.
func (a *App) WithProgress(p ports.ProgressTracker) *App {
	a.progress = p
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// ConfigPath is the manifest file or project directory. Empty searches upwards.
	ConfigPath string
	NoCache    bool
	Aggressive bool
	NoDedup    bool
	// OutputDir overrides the manifest's output folder.
	OutputDir string
	// JSON writes the summary as JSON instead of the styled report.
	JSON bool
}

// Build loads the project and runs the bundle pipeline over it. The returned code is
// meaningful even when err is non-nil.
//
//nolint:cyclop // orchestration function
func (a *App) Build(ctx context.Context, opts BuildOptions) (domain.Code, error) {
	// 1. Load the project
	project, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return domain.CodeError, zerr.Wrap(err, "failed to load configuration")
	}
	if err := applyOverrides(project, opts); err != nil {
		return domain.CodeError, err
	}

	// 2. Open the asset database
	db, err := a.databases.Open(ctx, project)
	if err != nil {
		return domain.CodeOf(err), zerr.Wrap(err, "failed to open asset database")
	}

	// 3. Open and lock the build cache
	cache, release := a.openCache(ctx, project, opts.NoCache)
	defer release()

	defer a.shutdown(ctx)

	// 4. Run the pipeline
	p := pipeline.New(pipeline.Collaborators{
		Extractor: db,
		Scenes:    db,
		Oracle:    db,
		Editor:    db,
		Writer:    a.writer,
		Archiver:  a.archiver,
	}, cache, a.tracer, a.telemetry, a.logger)

	res, runErr := p.Run(ctx, pipeline.Options{
		Bundles:      project.Bundles,
		Platform:     project.Platform,
		OutputDir:    project.OutputDir,
		TempRoot:     filepath.Join(project.Root, domain.DefaultTempPath()),
		UseCache:     cache != disabled,
		Dedup:        project.Dedup,
		StripSprites: project.StripSprites,
		Compression:  project.Compression,
		Parallelism:  project.Parallelism,
		Progress:     a.progress,
	})

	// 5. Report
	summary := newSummary(project, res)
	if runErr == nil {
		if _, err := report.WriteManifest(summary); err != nil {
			summary.Code = domain.CodeError
			runErr = err
		}
	}
	if err := a.render(summary, opts.JSON); err != nil {
		a.logger.Warn("could not write build report: " + err.Error())
	}

	if runErr != nil {
		return summary.Code, errors.Join(domain.ErrBuildFailed, runErr)
	}
	return summary.Code, nil
}

func applyOverrides(project *domain.Project, opts BuildOptions) error {
	if opts.OutputDir != "" {
		out, err := filepath.Abs(opts.OutputDir)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve output directory"), "path", opts.OutputDir)
		}
		project.OutputDir = out
	}
	if opts.Aggressive {
		project.Dedup.Aggressive = true
	}
	if opts.NoDedup {
		project.Dedup.Enabled = false
	}
	return nil
}

// openCache returns the locked cache of project, or disabled when the build runs
// without one. release undoes the lock.
func (a *App) openCache(
	ctx context.Context,
	project *domain.Project,
	noCache bool,
) (cache ports.BuildCache, release func()) {
	release = func() {}
	if noCache || !project.Cache.Enabled {
		return disabled, release
	}

	store, err := a.caches.Open(ctx, project.Cache)
	if err != nil {
		a.logger.Warn("building without cache: " + err.Error())
		return disabled, release
	}

	lockCtx, cancel := context.WithTimeout(ctx, a.lockTimeout)
	defer cancel()
	if err := store.Lock(lockCtx); err != nil {
		a.logger.Warn("building without cache: " + err.Error())
		return disabled, release
	}

	return store, func() {
		if err := store.Unlock(); err != nil {
			a.logger.Warn("could not release cache lock: " + err.Error())
		}
	}
}

// shutdown flushes telemetry once the build is over.
func (a *App) shutdown(ctx context.Context) {
	if s, ok := a.tracer.(interface{ Shutdown(context.Context) error }); ok {
		if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("could not flush traces: " + err.Error())
		}
	}
	if a.telemetry != nil {
		if err := a.telemetry.Close(); err != nil {
			a.logger.Warn("could not close progress recording: " + err.Error())
		}
	}
}

func newSummary(project *domain.Project, res *pipeline.Result) report.Summary {
	s := report.Summary{
		Code:      domain.CodeError,
		Platform:  project.Platform,
		OutputDir: project.OutputDir,
	}
	if res == nil {
		return s
	}
	s.Code = res.Code
	for _, st := range res.Stages {
		s.Stages = append(s.Stages, report.Stage{Name: st.Name, Status: st.Status, Duration: st.Duration})
	}
	for _, b := range res.Bundles {
		s.Bundles = append(s.Bundles, b)
	}
	return s
}

func (a *App) render(s report.Summary, asJSON bool) error {
	if asJSON {
		return report.EncodeSummary(a.stdout, s)
	}
	return report.New(a.stdout).Render(s)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
	Cache      bool
	Output     bool
	// All also removes the scratch space of interrupted builds.
	All bool
}

// Clean removes the build cache and build output based on the provided options.
func (a *App) Clean(ctx context.Context, options CleanOptions) error {
	project, err := a.configLoader.Load(options.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error

	// Helper to remove a directory and log the action
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Cache || options.All {
		a.logger.Info("purging build cache...")
		if err := a.purge(ctx, project.Cache); err != nil {
			errs = errors.Join(errs, err)
		} else {
			a.logger.Info("purged build cache")
		}
	}

	if options.Output || options.All {
		remove(project.OutputDir, "build output")
	}

	if options.All {
		remove(filepath.Join(project.Root, domain.DefaultTempPath()), "build scratch space")
	}

	return errs
}

func (a *App) purge(ctx context.Context, settings domain.CacheSettings) error {
	// Only the local tiers are purged; remote objects are shared between machines.
	settings.Remote = domain.RemoteCacheSettings{}
	store, err := a.caches.Open(ctx, settings)
	if err != nil {
		return zerr.Wrap(err, "failed to open build cache")
	}

	lockCtx, cancel := context.WithTimeout(ctx, a.lockTimeout)
	defer cancel()
	if err := store.Lock(lockCtx); err != nil {
		return err
	}
	defer func() {
		if err := store.Unlock(); err != nil {
			a.logger.Warn("could not release cache lock: " + err.Error())
		}
	}()

	if err := store.Purge(); err != nil {
		return zerr.Wrap(err, "failed to purge build cache")
	}
	return nil
}
