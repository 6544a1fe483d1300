package builder_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/adapters/archive"
	"go.trai.ch/quick/internal/adapters/cas"
	"go.trai.ch/quick/internal/adapters/fs"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/quick/internal/core/ports/mocks"
	"go.trai.ch/quick/internal/engine/builder"
	"go.trai.ch/quick/internal/engine/fingerprint"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func id(spec string) domain.PackageID {
	p, err := domain.ParsePackageSpec(spec)
	if err != nil {
		panic(err)
	}
	return p
}

func target(spec string) domain.ClosureEntry {
	return domain.ClosureEntry{ID: id(spec), Class: domain.Target}
}

// chainGraph: app depends on mid, mid depends on leaf.
func chainGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	require.NoError(t, g.AddPackage(&domain.Package{
		ID:   id("app@0.1.0"),
		Deps: []domain.Dependency{{ID: id("mid@1.0.0"), Kind: domain.DependencyNormal}},
	}))
	require.NoError(t, g.AddPackage(&domain.Package{
		ID:   id("mid@1.0.0"),
		Deps: []domain.Dependency{{ID: id("leaf@1.0.0"), Kind: domain.DependencyNormal}},
	}))
	require.NoError(t, g.AddPackage(&domain.Package{ID: id("leaf@1.0.0")}))
	return g
}

// fakeCompiler records its options and writes fixed outputs into the build directory.
type fakeCompiler struct {
	mu      sync.Mutex
	calls   []ports.CompileOptions
	outputs map[string]string
	touch   []string
	err     error
}

func (c *fakeCompiler) Compile(_ context.Context, dir string, opts ports.CompileOptions) error {
	c.mu.Lock()
	c.calls = append(c.calls, opts)
	c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	if _, err := os.Stat(filepath.Join(dir, domain.ManifestFileName)); err != nil {
		return err
	}
	for rel, content := range c.outputs {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
			return err
		}
	}
	for _, rel := range c.touch {
		later := time.Now().Add(time.Hour)
		if err := os.Chtimes(filepath.Join(dir, filepath.FromSlash(rel)), later, later); err != nil {
			return err
		}
	}
	return nil
}

type env struct {
	repo    *cas.Repository
	codec   *archive.Codec
	cache   string
	scratch string
	plan    *fingerprint.Plan
}

func newEnv(t *testing.T) env {
	t.Helper()
	codec := archive.New(fs.NewWalker(), fs.NewHasher(), domain.CompressionNone)
	cache := filepath.Join(t.TempDir(), "cache")
	repo, err := cas.New(cache, codec)
	require.NoError(t, err)
	return env{
		repo:    repo,
		codec:   codec,
		cache:   cache,
		scratch: t.TempDir(),
		plan:    fingerprint.NewPlan(chainGraph(t)),
	}
}

func (e env) builder(t *testing.T, compiler ports.Compiler, offline bool) *builder.Builder {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return builder.New(e.repo, e.codec, compiler, logger, builder.Options{
		ScratchRoot: e.scratch,
		Offline:     offline,
		Jobs:        1,
	})
}

func (e env) fingerprint(t *testing.T, entry domain.ClosureEntry) domain.Fingerprint {
	t.Helper()
	fp, err := e.plan.Fingerprint(entry)
	require.NoError(t, err)
	return fp
}

func (e env) entries(t *testing.T, fp domain.Fingerprint) []string {
	t.Helper()
	r, err := e.repo.Read(fp)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	names, err := e.codec.ListEntries(r)
	require.NoError(t, err)
	return names
}

func (e env) buildLeaf(t *testing.T) {
	t.Helper()
	compiler := &fakeCompiler{outputs: map[string]string{"target/debug/libleaf.rlib": "leaf"}}
	require.NoError(t, e.builder(t, compiler, true).Build(t.Context(), e.plan, target("leaf@1.0.0")))
}

func TestBuilder_Build_CommitsOutput(t *testing.T) {
	e := newEnv(t)
	compiler := &fakeCompiler{outputs: map[string]string{"target/debug/libleaf.rlib": "leaf"}}

	err := e.builder(t, compiler, true).Build(t.Context(), e.plan, target("leaf@1.0.0"))
	require.NoError(t, err)

	fp := e.fingerprint(t, target("leaf@1.0.0"))
	assert.True(t, e.repo.Has(fp))
	assert.Contains(t, e.entries(t, fp), "target/debug/libleaf.rlib")

	_, err = e.repo.Stats(fp)
	require.NoError(t, err)

	require.Len(t, compiler.calls, 1)
	assert.Equal(t, ports.CompileOptions{
		Offline:      true,
		Jobs:         1,
		CleanPackage: domain.ScratchPackageName,
	}, compiler.calls[0])

	scratch, err := os.ReadDir(e.scratch)
	require.NoError(t, err)
	assert.Empty(t, scratch, "scratch directory must be removed")
}

func TestBuilder_Build_ExcludesDependencyOutput(t *testing.T) {
	e := newEnv(t)
	e.buildLeaf(t)

	compiler := &fakeCompiler{outputs: map[string]string{"target/debug/libmid.rlib": "mid"}}
	err := e.builder(t, compiler, true).Build(t.Context(), e.plan, target("mid@1.0.0"))
	require.NoError(t, err)

	names := e.entries(t, e.fingerprint(t, target("mid@1.0.0")))
	assert.Contains(t, names, "target/debug/libmid.rlib")
	assert.NotContains(t, names, "target/debug/libleaf.rlib")
}

func TestBuilder_Build_WritesManifest(t *testing.T) {
	e := newEnv(t)
	e.buildLeaf(t)

	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dir string, _ ports.CompileOptions) error {
			manifest, err := os.ReadFile(filepath.Join(dir, domain.ManifestFileName))
			require.NoError(t, err)
			assert.Contains(t, string(manifest), "# mid 1.0.0\n")
			assert.Contains(t, string(manifest), `leaf_1_0_0 = { package = "leaf", version = "=1.0.0"`)
			assert.FileExists(t, filepath.Join(dir, "src", "lib.rs"))
			assert.NoFileExists(t, filepath.Join(dir, "build.rs"))
			assert.FileExists(t, filepath.Join(dir, "target", "debug", "libleaf.rlib"))
			return os.MkdirAll(filepath.Join(dir, domain.OutputDirName), domain.DirPerm)
		})

	require.NoError(t, e.builder(t, compiler, false).Build(t.Context(), e.plan, target("mid@1.0.0")))
}

func TestBuilder_Build_RetriesOnline(t *testing.T) {
	e := newEnv(t)
	ctrl := gomock.NewController(t)

	compiler := mocks.NewMockCompiler(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		compiler.EXPECT().
			Compile(gomock.Any(), gomock.Any(), gomock.Cond(func(o ports.CompileOptions) bool { return o.Offline })).
			Return(domain.ErrCompilerFailure),
		logger.EXPECT().Warn("offline build of leaf@1.0.0 (target) failed, retrying online"),
		compiler.EXPECT().
			Compile(gomock.Any(), gomock.Any(), gomock.Cond(func(o ports.CompileOptions) bool { return !o.Offline })).
			DoAndReturn(func(_ context.Context, dir string, _ ports.CompileOptions) error {
				return os.MkdirAll(filepath.Join(dir, domain.OutputDirName), domain.DirPerm)
			}),
	)

	b := builder.New(e.repo, e.codec, compiler, logger, builder.Options{ScratchRoot: e.scratch, Offline: true})
	require.NoError(t, b.Build(t.Context(), e.plan, target("leaf@1.0.0")))
	assert.True(t, e.repo.Has(e.fingerprint(t, target("leaf@1.0.0"))))
}

func TestBuilder_Build_OnlineFailureIsNotRetried(t *testing.T) {
	e := newEnv(t)
	compiler := &fakeCompiler{err: zerr.With(domain.ErrCompilerFailure, "exit_code", 101)}

	err := e.builder(t, compiler, false).Build(t.Context(), e.plan, target("leaf@1.0.0"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCompilerFailure.Error())
	assert.Len(t, compiler.calls, 1)

	assert.False(t, e.repo.Has(e.fingerprint(t, target("leaf@1.0.0"))))
	cache, err := os.ReadDir(e.cache)
	require.NoError(t, err)
	assert.Empty(t, cache)
}

func TestBuilder_Build_CancelledIsNotRetried(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	compiler := &fakeCompiler{err: context.Canceled}

	err := e.builder(t, compiler, true).Build(ctx, e.plan, target("leaf@1.0.0"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, compiler.calls, 1)
}

func TestBuilder_Build_MissingDependencyArchive(t *testing.T) {
	e := newEnv(t)
	compiler := &fakeCompiler{}

	err := e.builder(t, compiler, true).Build(t.Context(), e.plan, target("mid@1.0.0"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCacheEntryNotFound.Error())
	assert.Empty(t, compiler.calls)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "leaf@1.0.0 (target)", zErr.Metadata()["dependency"])
}

func TestBuilder_Build_DeterminismAnomaly(t *testing.T) {
	e := newEnv(t)
	e.buildLeaf(t)

	compiler := &fakeCompiler{
		outputs: map[string]string{"target/debug/libleaf.rlib": "leaf rebuilt\n"},
		touch:   []string{"target/debug/libleaf.rlib"},
	}
	err := e.builder(t, compiler, true).Build(t.Context(), e.plan, target("mid@1.0.0"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDeterminismAnomaly.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	report, ok := zErr.Metadata()["report"].(string)
	require.True(t, ok)
	assert.Contains(t, report, "target/debug/libleaf.rlib")
	assert.Contains(t, report, "+leaf rebuilt")

	mid := e.fingerprint(t, target("mid@1.0.0"))
	assert.False(t, e.repo.Has(mid))
	assert.NoFileExists(t, filepath.Join(e.cache, mid.ArchiveName()+domain.TempSuffix))
}

func TestBuilder_Install(t *testing.T) {
	e := newEnv(t)
	e.buildLeaf(t)
	compiler := &fakeCompiler{outputs: map[string]string{"target/debug/libmid.rlib": "mid"}}
	b := e.builder(t, compiler, true)
	require.NoError(t, b.Build(t.Context(), e.plan, target("mid@1.0.0")))

	dest := t.TempDir()
	stamps, err := b.Install(t.Context(), e.plan, target("app@0.1.0"), dest)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "target", "debug", "libleaf.rlib"))
	assert.FileExists(t, filepath.Join(dest, "target", "debug", "libmid.rlib"))
	assert.Contains(t, stamps, "target/debug/libleaf.rlib")
	assert.Contains(t, stamps, "target/debug/libmid.rlib")

	info, err := os.Stat(filepath.Join(dest, "target", "debug", "libmid.rlib"))
	require.NoError(t, err)
	assert.True(t, stamps["target/debug/libmid.rlib"].Equal(info.ModTime()))
}

func TestBuilder_WithOptions(t *testing.T) {
	e := newEnv(t)
	b := e.builder(t, &fakeCompiler{}, true)

	online := b.WithOptions(builder.Options{ScratchRoot: e.scratch, Jobs: 4})
	assert.Equal(t, builder.Options{ScratchRoot: e.scratch, Jobs: 4}, online.Options())
	assert.True(t, b.Options().Offline, "original builder must keep its options")
}

func TestBuilder_Build_ScratchSetupFailure(t *testing.T) {
	e := newEnv(t)
	logger := mocks.NewMockLogger(gomock.NewController(t))
	b := builder.New(e.repo, e.codec, &fakeCompiler{}, logger, builder.Options{
		ScratchRoot: filepath.Join(e.scratch, "missing", "dir"),
	})

	err := b.Build(t.Context(), e.plan, target("leaf@1.0.0"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrScratchSetupFailed.Error())
}

func TestBuilder_CompileWorkspace(t *testing.T) {
	e := newEnv(t)
	compiler := &fakeCompiler{}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ManifestFileName), []byte("[package]\n"), domain.FilePerm))

	require.NoError(t, e.builder(t, compiler, true).CompileWorkspace(t.Context(), target("app@0.1.0"), dir))

	require.Len(t, compiler.calls, 1)
	assert.Equal(t, ports.CompileOptions{Offline: true, Jobs: 1}, compiler.calls[0], "the workspace package is not cleaned")
}
