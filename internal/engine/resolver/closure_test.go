package resolver_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/engine/resolver"
	"go.trai.ch/zerr"
)

type edge struct {
	to   string
	kind domain.DependencyKind
}

// buildGraph constructs a graph from a map of package name to edges.
// Names listed in procMacros are marked as host code generators.
func buildGraph(t *testing.T, deps map[string][]edge, procMacros ...string) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	names := make(map[string]bool)
	for name, edges := range deps {
		names[name] = true
		for _, e := range edges {
			names[e.to] = true
		}
	}
	for name := range names {
		p := &domain.Package{ID: id(name), ProcMacro: contains(procMacros, name)}
		for _, e := range deps[name] {
			p.Deps = append(p.Deps, domain.Dependency{ID: id(e.to), Kind: e.kind})
		}
		require.NoError(t, g.AddPackage(p))
	}
	return g
}

func id(name string) domain.PackageID {
	return domain.NewPackageID(name, "0.1.0", "")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func classes(c *domain.Closure) map[string]domain.BuildClassification {
	out := make(map[string]domain.BuildClassification)
	for _, e := range c.Entries() {
		out[e.ID.Name.String()] = e.Class
	}
	return out
}

func normal(to string) edge { return edge{to: to, kind: domain.DependencyNormal} }
func build(to string) edge  { return edge{to: to, kind: domain.DependencyBuild} }
func dev(to string) edge    { return edge{to: to, kind: domain.DependencyDev} }

func TestClosure_ExampleScenario(t *testing.T) {
	g := buildGraph(t, map[string][]edge{
		"root": {normal("mid"), build("gen")},
		"mid":  {normal("leaf")},
	}, "gen")

	c, err := resolver.Closure(g, id("root"), domain.Target)
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.BuildClassification{
		"root": domain.Target,
		"mid":  domain.Target,
		"leaf": domain.Target,
		"gen":  domain.Host,
	}, classes(c))
	assert.Equal(t, domain.ClosureEntry{ID: id("root"), Class: domain.Target}, c.Root())
}

func TestClosure_ProcMacroForcesHostBelowIt(t *testing.T) {
	g := buildGraph(t, map[string][]edge{
		"app":    {normal("derive")},
		"derive": {normal("syn")},
		"syn":    {normal("quote")},
	}, "derive")

	c, err := resolver.Closure(g, id("app"), domain.Target)
	require.NoError(t, err)

	got := classes(c)
	assert.Equal(t, domain.Target, got["app"])
	assert.Equal(t, domain.Host, got["derive"])
	assert.Equal(t, domain.Host, got["syn"])
	assert.Equal(t, domain.Host, got["quote"])
}

func TestClosure_BuildEdgeForcesHostTransitively(t *testing.T) {
	g := buildGraph(t, map[string][]edge{
		"libz-sys":  {normal("libc"), build("cc"), build("pkg-config")},
		"cc":        {normal("jobserver")},
		"jobserver": {normal("libc")},
	})

	c, err := resolver.Closure(g, id("libz-sys"), domain.Target)
	require.NoError(t, err)

	got := classes(c)
	assert.Equal(t, domain.Host, got["cc"])
	assert.Equal(t, domain.Host, got["pkg-config"])
	assert.Equal(t, domain.Host, got["jobserver"])
	// libc is reached both directly and through cc; once Host it stays Host.
	assert.Equal(t, domain.Host, got["libc"])
}

func TestClosure_HostRootKeepsEverythingHost(t *testing.T) {
	g := buildGraph(t, map[string][]edge{
		"tool": {normal("a")},
		"a":    {normal("b")},
	})

	c, err := resolver.Closure(g, id("tool"), domain.Host)
	require.NoError(t, err)

	for name, class := range classes(c) {
		assert.Equal(t, domain.Host, class, name)
	}
}

func TestClosure_DevEdges(t *testing.T) {
	t.Run("root dev edges are ignored", func(t *testing.T) {
		g := buildGraph(t, map[string][]edge{
			"root": {normal("lib"), dev("test-helper")},
		})

		c, err := resolver.Closure(g, id("root"), domain.Target)
		require.NoError(t, err)
		assert.NotContains(t, classes(c), "test-helper")
	})

	t.Run("dev edges below the root fail fast", func(t *testing.T) {
		g := buildGraph(t, map[string][]edge{
			"root": {normal("lib")},
			"lib":  {dev("criterion")},
		})

		_, err := resolver.Closure(g, id("root"), domain.Target)
		require.Error(t, err)

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T", err)
		assert.Equal(t, "lib@0.1.0", zErr.Metadata()["package"])
		assert.ErrorContains(t, err, domain.ErrDevDependencyUnsupported.Error())
	})
}

func TestClosure_DevEdgesOfLocalPackages(t *testing.T) {
	local := func(name string) domain.PackageID {
		return domain.NewPackageID(name, "0.1.0", domain.PathSourcePrefix+"/ws/"+name)
	}
	app, util := local("app"), local("util")
	registry := domain.NewPackageID("itoa", "1.0.9", "registry+https://github.com/rust-lang/crates.io-index")

	newGraph := func(t *testing.T, itoaDevs ...domain.Dependency) *domain.Graph {
		t.Helper()
		g := domain.NewGraph()
		require.NoError(t, g.AddPackage(&domain.Package{ID: app, Deps: []domain.Dependency{
			{ID: util, Kind: domain.DependencyNormal},
		}}))
		require.NoError(t, g.AddPackage(&domain.Package{ID: util, Deps: []domain.Dependency{
			{ID: registry, Kind: domain.DependencyNormal},
			{ID: id("test-helper"), Kind: domain.DependencyDev},
		}}))
		require.NoError(t, g.AddPackage(&domain.Package{ID: registry, Deps: itoaDevs}))
		require.NoError(t, g.AddPackage(&domain.Package{ID: id("test-helper")}))
		return g
	}

	t.Run("workspace member below the root", func(t *testing.T) {
		c, err := resolver.Closure(newGraph(t), app, domain.Target)
		require.NoError(t, err)

		got := classes(c)
		assert.Contains(t, got, "util")
		assert.Contains(t, got, "itoa")
		assert.NotContains(t, got, "test-helper")
	})

	t.Run("registry package below the root", func(t *testing.T) {
		g := newGraph(t, domain.Dependency{ID: id("test-helper"), Kind: domain.DependencyDev})

		_, err := resolver.Closure(g, app, domain.Target)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrGraphInconsistency)
		assert.ErrorContains(t, err, domain.ErrDevDependencyUnsupported.Error())
	})
}

func TestClosure_ProcMacroRootBuildsDependenciesForHost(t *testing.T) {
	g := buildGraph(t, map[string][]edge{
		"derive": {normal("syn"), build("autocfg")},
		"syn":    {normal("quote")},
	}, "derive")

	c, err := resolver.Closure(g, id("derive"), domain.Target)
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.BuildClassification{
		"derive":  domain.Target,
		"syn":     domain.Host,
		"quote":   domain.Host,
		"autocfg": domain.Host,
	}, classes(c))
}

func TestClosure_RejectsCycles(t *testing.T) {
	g := buildGraph(t, map[string][]edge{
		"root": {normal("a")},
		"a":    {build("b")},
		"b":    {normal("a")},
	})

	_, err := resolver.Closure(g, id("root"), domain.Target)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCycleDetected.Error())
	assert.ErrorIs(t, err, domain.ErrGraphInconsistency)
}

func TestClosure_UnknownRoot(t *testing.T) {
	g := buildGraph(t, map[string][]edge{"root": nil})

	_, err := resolver.Closure(g, id("ghost"), domain.Target)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMissingPackage.Error())
}

func TestRecursiveBuildTimeDeps(t *testing.T) {
	g := buildGraph(t, map[string][]edge{
		"root": {normal("mid"), build("gen")},
		"mid":  {normal("leaf")},
		"gen":  {normal("proc-macro2")},
	})

	deps, err := resolver.RecursiveBuildTimeDeps(g, id("root"))
	require.NoError(t, err)

	names := make([]string, 0, len(deps))
	for _, d := range deps {
		names = append(names, d.Name.String())
	}
	assert.Equal(t, []string{"gen", "proc-macro2"}, names)
}

// TestClosure_RandomDAGs checks on random acyclic graphs that the closure contains the root
// once, is closed under followed edges, and never has a Target child below a Host parent.
func TestClosure_RandomDAGs(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := range 50 {
		const n = 12
		g := domain.NewGraph()
		ids := make([]domain.PackageID, n)
		for i := range n {
			ids[i] = domain.NewPackageID(string(rune('a'+i)), "1.0.0", "")
		}
		for i := range n {
			p := &domain.Package{ID: ids[i], ProcMacro: rng.IntN(6) == 0}
			// Edges only point to higher indices, which keeps the graph acyclic.
			for j := i + 1; j < n; j++ {
				if rng.IntN(4) != 0 {
					continue
				}
				kind := domain.DependencyNormal
				if rng.IntN(3) == 0 {
					kind = domain.DependencyBuild
				}
				p.Deps = append(p.Deps, domain.Dependency{ID: ids[j], Kind: kind})
			}
			require.NoError(t, g.AddPackage(p))
		}

		c, err := resolver.Closure(g, ids[0], domain.Target)
		require.NoError(t, err, "round %d", round)

		rootCount := 0
		for _, e := range c.Entries() {
			if e.ID == ids[0] {
				rootCount++
			}
			pkg, _ := g.Package(e.ID)
			for _, d := range pkg.Deps {
				childClass, ok := c.Class(d.ID)
				require.True(t, ok, "round %d: %s missing below %s", round, d.ID, e.ID)
				if e.Class == domain.Host {
					assert.Equal(t, domain.Host, childClass, "round %d: %s below host %s", round, d.ID, e.ID)
				}
				if resolver.Classify(e.Class, d.Kind, g.IsProcMacro(d.ID)) == domain.Host {
					assert.Equal(t, domain.Host, childClass, "round %d: %s reached through a host edge", round, d.ID)
				}
			}
		}
		assert.Equal(t, 1, rootCount)
	}
}
