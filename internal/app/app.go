// Package app implements the application layer for quick.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/quick/internal/adapters/fs" //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/quick/internal/engine/builder"
	"go.trai.ch/quick/internal/engine/fingerprint"
	"go.trai.ch/quick/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Reporter is how a run reports its progress.
type Reporter struct {
	Telemetry ports.Telemetry
	Progress  ports.Progress
}

// BuildOptions configures one build.
type BuildOptions struct {
	// Dir is the workspace directory. Empty means the working directory.
	Dir string
	// Graph names a YAML graph file used instead of querying the workspace.
	Graph string
	// Root selects the package to build as name@version. Empty means the graph's root.
	Root string
	// Host builds the root for the build machine.
	Host bool
	// Jobs overrides the configured compiler jobs when positive.
	Jobs int
	// Parallelism overrides the configured wave parallelism when positive.
	Parallelism int
	// Online skips the offline first attempt of every compile.
	Online bool
	// NoFinal stops after the dependencies of the root are cached.
	NoFinal bool
	// Quiet disables the progress bar and vertex recording.
	Quiet bool
}

// BuildResult summarizes a build.
type BuildResult struct {
	Root        domain.ClosureEntry
	Fingerprint domain.Fingerprint
	Report      scheduler.Report
}

// App represents the main application logic.
type App struct {
	workspace ports.GraphSource
	files     ports.GraphSource
	repo      ports.CacheRepository
	builder   *builder.Builder
	verifier  *fs.Verifier
	resolver  *fs.Resolver
	logger    ports.Logger
	settings  domain.Settings

	interactive Reporter
	quiet       Reporter
}

// New creates a new App instance.
func New(
	workspace ports.GraphSource,
	files ports.GraphSource,
	repo ports.CacheRepository,
	b *builder.Builder,
	verifier *fs.Verifier,
	logger ports.Logger,
	settings domain.Settings,
	interactive Reporter,
	quiet Reporter,
) *App {
	return &App{
		workspace:   workspace,
		files:       files,
		repo:        repo,
		builder:     b,
		verifier:    verifier,
		logger:      logger,
		settings:    settings,
		interactive: interactive,
		quiet:       quiet,
	}
}

// WithResolver makes builds without an explicit directory start from the nearest
// directory holding a lockfile.
func (a *App) WithResolver(r *fs.Resolver) *App {
	a.resolver = r
	return a
}

// Build caches every dependency of the root package and, unless opts.NoFinal is set,
// compiles the workspace against them.
func (a *App) Build(ctx context.Context, opts BuildOptions) (BuildResult, error) {
	dir, err := a.workspaceDir(opts.Dir)
	if err != nil {
		return BuildResult{}, err
	}

	// 1. Load the graph
	graph, err := a.loadGraph(ctx, dir, opts.Graph)
	if err != nil {
		return BuildResult{}, zerr.Wrap(err, "failed to load package graph")
	}

	// 2. Determine the root
	rootID, err := selectRoot(graph, opts.Root)
	if err != nil {
		return BuildResult{}, err
	}
	root := domain.ClosureEntry{ID: rootID, Class: domain.Target}
	if opts.Host {
		root.Class = domain.Host
	}

	plan := fingerprint.NewPlan(graph)
	fp, err := plan.Fingerprint(root)
	if err != nil {
		return BuildResult{}, errors.Join(domain.ErrBuildFailed, err)
	}

	// 3. Run the scheduler
	b := a.builder.WithOptions(a.buildOptions(opts))
	reporter := a.interactive
	if opts.Quiet {
		reporter = a.quiet
	}
	defer func() {
		if err := reporter.Telemetry.Close(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to close telemetry: %v", err))
		}
	}()

	sched := scheduler.NewScheduler(a.repo, b, reporter.Telemetry, reporter.Progress)
	report, err := sched.Run(ctx, plan, root, a.parallelism(opts))
	result := BuildResult{Root: root, Fingerprint: fp, Report: report}
	if err != nil {
		return result, errors.Join(domain.ErrBuildFailed, err)
	}
	a.logger.Info(fmt.Sprintf("%s: %d built, %d from cache", root, len(report.Built), len(report.Cached)))

	if opts.NoFinal {
		return result, nil
	}

	// 4. Install dependency outputs and compile in place
	if err := a.verifier.EnsureAbsent(filepath.Join(dir, domain.OutputDirName)); err != nil {
		return result, err
	}
	if _, err := b.Install(ctx, plan, root, dir); err != nil {
		return result, zerr.Wrap(err, "failed to install dependency outputs")
	}
	if err := b.CompileWorkspace(ctx, root, dir); err != nil {
		return result, err
	}
	return result, nil
}

// Search returns the fingerprints of cached archives that contain path.
func (a *App) Search(ctx context.Context, path string) ([]domain.Fingerprint, error) {
	return a.repo.Search(ctx, path)
}

// Stats returns the recorded phase durations of a cached build.
func (a *App) Stats(_ context.Context, fp domain.Fingerprint) (domain.BuildStats, error) {
	return a.repo.Stats(fp)
}

// List returns the fingerprints of every cached build.
func (a *App) List(_ context.Context) ([]domain.Fingerprint, error) {
	return a.repo.List()
}

func (a *App) workspaceDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if a.resolver == nil {
		return ".", nil
	}
	lockfile, err := a.resolver.FindUp(".", domain.LockfileName)
	if err != nil {
		return "", err
	}
	if lockfile == "" {
		return ".", nil
	}
	return filepath.Dir(lockfile), nil
}

func (a *App) loadGraph(ctx context.Context, dir, graphFile string) (*domain.Graph, error) {
	if graphFile != "" {
		return a.files.Load(ctx, graphFile)
	}
	return a.workspace.Load(ctx, dir)
}

func selectRoot(graph *domain.Graph, spec string) (domain.PackageID, error) {
	if spec == "" {
		root, ok := graph.Root()
		if !ok {
			return domain.PackageID{}, zerr.With(domain.ErrNoRootPackage, "hint", "pass --root name@version")
		}
		return root, nil
	}

	want, err := domain.ParsePackageSpec(spec)
	if err != nil {
		return domain.PackageID{}, err
	}
	root, ok := graph.Find(want)
	if !ok {
		return domain.PackageID{}, zerr.With(domain.ErrMissingPackage, "package", spec)
	}
	return root, nil
}

func (a *App) buildOptions(opts BuildOptions) builder.Options {
	o := a.builder.Options()
	if opts.Jobs > 0 {
		o.Jobs = opts.Jobs
	}
	if opts.Online {
		o.Offline = false
	}
	return o
}

func (a *App) parallelism(opts BuildOptions) int {
	if opts.Parallelism > 0 {
		return opts.Parallelism
	}
	return a.settings.Parallelism
}
