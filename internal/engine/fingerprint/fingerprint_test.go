package fingerprint_test

import (
	"regexp"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/engine/fingerprint"
)

type node struct {
	id        string
	features  []string
	procMacro bool
	deps      []domain.Dependency
}

func id(spec string) domain.PackageID {
	p, err := domain.ParsePackageSpec(spec)
	if err != nil {
		panic(err)
	}
	return p
}

func normal(spec string) domain.Dependency {
	return domain.Dependency{ID: id(spec), Kind: domain.DependencyNormal}
}

func build(spec string) domain.Dependency {
	return domain.Dependency{ID: id(spec), Kind: domain.DependencyBuild}
}

func newGraph(t *testing.T, nodes ...node) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, n := range nodes {
		require.NoError(t, g.AddPackage(&domain.Package{
			ID:        id(n.id),
			Features:  n.features,
			ProcMacro: n.procMacro,
			Deps:      n.deps,
		}))
	}
	return g
}

func serdeGraph(t *testing.T) *domain.Graph {
	t.Helper()
	return newGraph(t,
		node{id: "app@0.1.0", deps: []domain.Dependency{normal("serde@1.0.0"), build("cc@1.0.0")}},
		node{id: "serde@1.0.0", features: []string{"std", "derive"}, deps: []domain.Dependency{normal("serde_derive@1.0.0")}},
		node{id: "serde_derive@1.0.0", procMacro: true, deps: []domain.Dependency{normal("syn@2.0.0")}},
		node{id: "syn@2.0.0", features: []string{"full", "clone-impls", "full"}},
		node{id: "cc@1.0.0"},
	)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		root       string
		goldenName string
	}{
		{name: "root with build and proc-macro deps", root: "app@0.1.0", goldenName: "describe_app"},
		{name: "library pulling a proc-macro", root: "serde@1.0.0", goldenName: "describe_serde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := fingerprint.NewPlan(serdeGraph(t))

			d, err := plan.Descriptor(domain.ClosureEntry{ID: id(tt.root), Class: domain.Target})
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(d))
		})
	}
}

func TestCompute_Format(t *testing.T) {
	fp := fingerprint.Compute(id("app@0.1.0"), domain.Descriptor("# app 0.1.0\n"))

	assert.Regexp(t, regexp.MustCompile(`^app-0\.1\.0-[0-9a-f]{64}$`), fp.String())
	assert.Equal(t, fp.String()+".tar", fp.ArchiveName())
	assert.Equal(t, fp.String()+".stats.json", fp.StatsName())
}

func TestFingerprint_IndependentOfInsertionOrder(t *testing.T) {
	forward := serdeGraph(t)
	reversed := newGraph(t,
		node{id: "cc@1.0.0"},
		node{id: "syn@2.0.0", features: []string{"clone-impls", "full"}},
		node{id: "serde_derive@1.0.0", procMacro: true, deps: []domain.Dependency{normal("syn@2.0.0")}},
		node{id: "serde@1.0.0", features: []string{"derive", "std"}, deps: []domain.Dependency{normal("serde_derive@1.0.0")}},
		node{id: "app@0.1.0", deps: []domain.Dependency{build("cc@1.0.0"), normal("serde@1.0.0")}},
	)
	root := domain.ClosureEntry{ID: id("app@0.1.0"), Class: domain.Target}

	a, err := fingerprint.NewPlan(forward).Fingerprint(root)
	require.NoError(t, err)
	b, err := fingerprint.NewPlan(reversed).Fingerprint(root)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestFingerprint_SensitiveToConfiguration(t *testing.T) {
	base := serdeGraph(t)
	root := domain.ClosureEntry{ID: id("app@0.1.0"), Class: domain.Target}
	want, err := fingerprint.NewPlan(base).Fingerprint(root)
	require.NoError(t, err)

	t.Run("feature change in a dependency", func(t *testing.T) {
		g := newGraph(t,
			node{id: "app@0.1.0", deps: []domain.Dependency{normal("serde@1.0.0"), build("cc@1.0.0")}},
			node{id: "serde@1.0.0", features: []string{"std"}, deps: []domain.Dependency{normal("serde_derive@1.0.0")}},
			node{id: "serde_derive@1.0.0", procMacro: true, deps: []domain.Dependency{normal("syn@2.0.0")}},
			node{id: "syn@2.0.0", features: []string{"full", "clone-impls"}},
			node{id: "cc@1.0.0"},
		)
		got, err := fingerprint.NewPlan(g).Fingerprint(root)
		require.NoError(t, err)
		assert.NotEqual(t, want, got)
	})

	t.Run("classification of the root", func(t *testing.T) {
		got, err := fingerprint.NewPlan(base).Fingerprint(domain.ClosureEntry{ID: root.ID, Class: domain.Host})
		require.NoError(t, err)
		assert.NotEqual(t, want, got)
	})
}

func TestPlan_Memoises(t *testing.T) {
	plan := fingerprint.NewPlan(serdeGraph(t))
	root := domain.ClosureEntry{ID: id("app@0.1.0"), Class: domain.Target}

	first, err := plan.Closure(root)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.Fingerprint, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := plan.Closure(root)
			assert.NoError(t, err)
			assert.Same(t, first, c)
			results[i], err = plan.Fingerprint(root)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, fp := range results {
		assert.Equal(t, results[0], fp)
	}
}

func TestPlan_PropagatesResolverErrors(t *testing.T) {
	plan := fingerprint.NewPlan(serdeGraph(t))

	_, err := plan.Fingerprint(domain.ClosureEntry{ID: id("missing@1.0.0"), Class: domain.Target})

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMissingPackage.Error())
}
