// Package builder compiles one closure entry in a scratch directory against the cached
// archives of its dependencies and commits the output to the cache.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageBuilder = (*Builder)(nil)

// Options are the per-run compile settings of a Builder.
type Options struct {
	// ScratchRoot is the parent of scratch directories. Empty means os.TempDir.
	ScratchRoot string
	// Offline makes the first compile attempt run without network access.
	Offline bool
	// Jobs is passed to the compiler. Zero leaves the compiler default.
	Jobs int
}

// Builder builds packages into the cache repository.
type Builder struct {
	repo     ports.CacheRepository
	codec    ports.ArchiveCodec
	compiler ports.Compiler
	logger   ports.Logger
	opts     Options
}

// New creates a Builder.
func New(
	repo ports.CacheRepository,
	codec ports.ArchiveCodec,
	compiler ports.Compiler,
	logger ports.Logger,
	opts Options,
) *Builder {
	return &Builder{
		repo:     repo,
		codec:    codec,
		compiler: compiler,
		logger:   logger,
		opts:     opts,
	}
}

// Options returns the compile settings of b.
func (b *Builder) Options() Options {
	return b.opts
}

// WithOptions returns a copy of b using opts.
func (b *Builder) WithOptions(opts Options) *Builder {
	c := *b
	c.opts = opts
	return &c
}

// Build compiles entry and commits its output tree under the entry's fingerprint.
// Files provided by dependency archives are excluded from the new archive.
func (b *Builder) Build(ctx context.Context, plan ports.Planner, entry domain.ClosureEntry) error {
	rec := domain.NewStatsRecorder()

	closure, err := plan.Closure(entry)
	if err != nil {
		return err
	}
	fp, err := plan.Fingerprint(entry)
	if err != nil {
		return err
	}

	scratch, err := b.setup(plan.Graph(), closure)
	if err != nil {
		return zerr.With(err, "package", entry.String())
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			b.logger.Warn(fmt.Sprintf("failed to remove scratch directory %s: %v", scratch, err))
		}
	}()
	rec.SetupDone()

	provided, owners, err := b.unpack(ctx, plan, closure, scratch)
	if err != nil {
		return err
	}
	rec.UnpackDone()

	if err := b.compile(ctx, entry, scratch, domain.ScratchPackageName); err != nil {
		return err
	}
	rec.CompileDone()

	if err := b.pack(ctx, fp, scratch, provided, owners); err != nil {
		return zerr.With(err, "fingerprint", fp.String())
	}
	rec.PackDone()

	if err := b.repo.Commit(fp, rec.Stats()); err != nil {
		b.discard(fp)
		return err
	}
	return nil
}

// Install unpacks the archive of every dependency of entry into dest, so a compile in dest
// finds their outputs up to date. It returns the union of the unpacked timestamps.
func (b *Builder) Install(ctx context.Context, plan ports.Planner, entry domain.ClosureEntry, dest string) (domain.TimestampMap, error) {
	closure, err := plan.Closure(entry)
	if err != nil {
		return nil, err
	}
	provided, _, err := b.unpack(ctx, plan, closure, dest)
	return provided, err
}

func (b *Builder) setup(g *domain.Graph, closure *domain.Closure) (string, error) {
	scratch, err := os.MkdirTemp(b.opts.ScratchRoot, domain.ScratchDirPattern)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrScratchSetupFailed.Error()), "path", b.opts.ScratchRoot)
	}

	files := map[string]string{
		domain.ManifestFileName: Manifest(g, closure),
		libFile:                 "",
	}
	if NeedsBuildScript(closure) {
		files[buildScriptFile] = buildScript
	}
	for name, content := range files {
		path := filepath.Join(scratch, filepath.FromSlash(name))
		if err := writeFile(path, content); err != nil {
			_ = os.RemoveAll(scratch)
			return "", zerr.With(zerr.Wrap(err, domain.ErrScratchSetupFailed.Error()), "path", path)
		}
	}
	return scratch, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), domain.FilePerm)
}

// unpack extracts the archive of every dependency in closure into dest. Later archives win
// when two provide the same path; owners records which archive each path came from.
func (b *Builder) unpack(
	ctx context.Context,
	plan ports.Planner,
	closure *domain.Closure,
	dest string,
) (domain.TimestampMap, map[string]domain.Fingerprint, error) {
	provided := make(domain.TimestampMap)
	owners := make(map[string]domain.Fingerprint)

	for dep := range closure.Deps() {
		fp, err := plan.Fingerprint(dep)
		if err != nil {
			return nil, nil, err
		}
		stamps, err := b.unpackOne(ctx, fp, dest)
		if err != nil {
			return nil, nil, zerr.With(err, "dependency", dep.String())
		}
		provided.Merge(stamps)
		for path := range stamps {
			owners[path] = fp
		}
	}
	return provided, owners, nil
}

func (b *Builder) unpackOne(ctx context.Context, fp domain.Fingerprint, dest string) (domain.TimestampMap, error) {
	r, err := b.repo.Read(fp)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	stamps, err := b.codec.Unpack(ctx, r, dest)
	if err != nil {
		return nil, zerr.With(err, "fingerprint", fp.String())
	}
	return stamps, nil
}

// CompileWorkspace compiles the workspace in dir in place, after Install has provided the
// outputs of entry's dependencies.
func (b *Builder) CompileWorkspace(ctx context.Context, entry domain.ClosureEntry, dir string) error {
	return b.compile(ctx, entry, dir, "")
}

// compile runs the compiler in dir. A failed offline attempt is retried once online.
func (b *Builder) compile(ctx context.Context, entry domain.ClosureEntry, dir, clean string) error {
	opts := ports.CompileOptions{
		Offline:      b.opts.Offline,
		Jobs:         b.opts.Jobs,
		CleanPackage: clean,
	}

	err := b.compiler.Compile(ctx, dir, opts)
	if err == nil || !opts.Offline || ctx.Err() != nil {
		return err
	}

	b.logger.Warn(fmt.Sprintf("offline build of %s failed, retrying online", entry))
	opts.Offline = false
	return b.compiler.Compile(ctx, dir, opts)
}

func (b *Builder) pack(
	ctx context.Context,
	fp domain.Fingerprint,
	scratch string,
	provided domain.TimestampMap,
	owners map[string]domain.Fingerprint,
) error {
	w, err := b.repo.BeginWrite(fp)
	if err != nil {
		return err
	}

	err = b.codec.Pack(ctx, w, scratch, domain.OutputDirName, ports.PackOptions{
		Exclude:  provided,
		Baseline: b.baseline(owners),
	})
	if closeErr := w.Close(); err == nil && closeErr != nil {
		err = zerr.Wrap(closeErr, domain.ErrCacheWriteFailed.Error())
	}
	if err != nil {
		b.discard(fp)
		return err
	}
	return nil
}

// baseline returns the cached content of a path from the archive that provided it.
func (b *Builder) baseline(owners map[string]domain.Fingerprint) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		fp, ok := owners[path]
		if !ok {
			return nil, zerr.With(domain.ErrEntryNotFound, "path", path)
		}
		r, err := b.repo.Read(fp)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return b.codec.ReadEntry(r, path)
	}
}

func (b *Builder) discard(fp domain.Fingerprint) {
	if err := b.repo.Discard(fp); err != nil {
		b.logger.Warn(fmt.Sprintf("failed to discard partial archive %s: %v", fp, err))
	}
}
