// Package domain contains the core domain models of the package graph, closures,
// fingerprints and cached build artifacts.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is an externally resolved package graph: one node per package with its activated
// features and feature-filtered dependency edges.
type Graph struct {
	packages map[PackageID]*Package
	order    []PackageID
	root     PackageID
	hasRoot  bool
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		packages: make(map[PackageID]*Package),
	}
}

// AddPackage adds a package to the graph.
// It returns an error if a package with the same id already exists.
func (g *Graph) AddPackage(p *Package) error {
	if _, exists := g.packages[p.ID]; exists {
		return zerr.With(ErrPackageAlreadyExists, "package", p.ID.String())
	}
	g.packages[p.ID] = p
	g.order = append(g.order, p.ID)
	return nil
}

// SetRoot records the package the build was requested for.
func (g *Graph) SetRoot(id PackageID) {
	g.root = id
	g.hasRoot = true
}

// Root returns the root package id, if one was recorded.
func (g *Graph) Root() (PackageID, bool) {
	return g.root, g.hasRoot
}

// Package returns the package with the given id.
func (g *Graph) Package(id PackageID) (*Package, bool) {
	p, ok := g.packages[id]
	return p, ok
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int {
	return len(g.packages)
}

// Packages yields packages in insertion order.
func (g *Graph) Packages() iter.Seq[*Package] {
	return func(yield func(*Package) bool) {
		for _, id := range g.order {
			if !yield(g.packages[id]) {
				return
			}
		}
	}
}

// Find returns the package matching spec by name and version.
// The source is only compared when spec carries one.
func (g *Graph) Find(spec PackageID) (PackageID, bool) {
	for _, id := range g.order {
		if id.Matches(spec) {
			return id, true
		}
	}
	return PackageID{}, false
}

// Edges returns the ids reached from id through edges of the given kind, in declaration order.
func (g *Graph) Edges(id PackageID, kind DependencyKind) ([]PackageID, error) {
	p, ok := g.packages[id]
	if !ok {
		return nil, zerr.With(ErrMissingPackage, "package", id.String())
	}
	var out []PackageID
	for _, dep := range p.Deps {
		if dep.Kind != kind {
			continue
		}
		if _, exists := g.packages[dep.ID]; !exists {
			return nil, zerr.With(zerr.With(ErrMissingPackage, "package", dep.ID.String()), "parent", id.String())
		}
		out = append(out, dep.ID)
	}
	return out, nil
}

// HasFeature reports whether the package's activated features include name.
func (g *Graph) HasFeature(id PackageID, name string) bool {
	p, ok := g.packages[id]
	return ok && p.HasFeature(name)
}

// Features returns the sorted activated features of a package.
func (g *Graph) Features(id PackageID) []string {
	p, ok := g.packages[id]
	if !ok {
		return nil
	}
	features := slices.Clone(p.Features)
	slices.Sort(features)
	return slices.Compact(features)
}

// IsProcMacro reports whether the package is a host code generator.
func (g *Graph) IsProcMacro(id PackageID) bool {
	p, ok := g.packages[id]
	return ok && p.ProcMacro
}

// DetectCycle walks normal and build edges reachable from start with DFS colouring and
// returns ErrCycleDetected with the offending path if one is found.
func (g *Graph) DetectCycle(start PackageID) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[PackageID]int)
	var path []PackageID

	var visit func(u PackageID) error
	visit = func(u PackageID) error {
		state[u] = visiting
		path = append(path, u)

		p, exists := g.packages[u]
		if !exists {
			return zerr.With(ErrMissingPackage, "package", u.String())
		}

		for _, dep := range p.Deps {
			if dep.Kind == DependencyDev {
				continue
			}
			switch state[dep.ID] {
			case visiting:
				return cycleError(path, dep.ID)
			case unvisited:
				if err := visit(dep.ID); err != nil {
					return err
				}
			}
		}

		state[u] = done
		path = path[:len(path)-1]
		return nil
	}

	return visit(start)
}

func cycleError(path []PackageID, back PackageID) error {
	start := slices.Index(path, back)
	parts := make([]string, 0, len(path)-start+1)
	for _, id := range path[start:] {
		parts = append(parts, id.String())
	}
	parts = append(parts, back.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}
