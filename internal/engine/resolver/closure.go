// Package resolver computes dependency closures over a resolved package graph.
package resolver

import (
	"slices"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/zerr"
)

// followedKinds are the edge kinds that contribute to a build.
var followedKinds = [...]domain.DependencyKind{domain.DependencyNormal, domain.DependencyBuild}

// Closure returns every package needed to build root, each with its classification.
//
// The walk is breadth-first. Normal edges keep the parent's classification unless the child
// is a proc-macro, build edges force Host, and everything beneath a Host entry is Host.
// A proc-macro root runs on the build machine, so its dependencies are Host even when the
// root itself is requested as Target.
// A package first reached as Target and later through a Host path is upgraded and its
// descendants are walked again, so the classification is monotone.
func Closure(g *domain.Graph, root domain.PackageID, initial domain.BuildClassification) (*domain.Closure, error) {
	if _, ok := g.Package(root); !ok {
		return nil, zerr.With(domain.ErrMissingPackage, "package", root.String())
	}
	if err := g.DetectCycle(root); err != nil {
		return nil, err
	}

	rootEntry := domain.ClosureEntry{ID: root, Class: initial}
	closure := domain.NewClosure(rootEntry)
	frontier := []domain.ClosureEntry{rootEntry}

	for len(frontier) > 0 {
		layer := make(map[domain.PackageID]domain.BuildClassification)

		for _, entry := range frontier {
			if err := checkDevEdges(g, entry, root); err != nil {
				return nil, err
			}
			for _, kind := range followedKinds {
				children, err := g.Edges(entry.ID, kind)
				if err != nil {
					return nil, err
				}
				for _, child := range children {
					class := Classify(parentClass(g, entry, root), kind, g.IsProcMacro(child))
					if prev, seen := layer[child]; !seen || prev == domain.Target {
						layer[child] = class
					}
				}
			}
		}

		frontier = frontier[:0]
		for id, class := range layer {
			e := domain.ClosureEntry{ID: id, Class: class}
			if closure.Add(e) {
				frontier = append(frontier, e)
			}
		}
		slices.SortFunc(frontier, domain.ClosureEntry.Compare)
	}

	return closure, nil
}

// Classify returns the classification of a child reached from a parent through an edge.
func Classify(parent domain.BuildClassification, kind domain.DependencyKind, childIsProcMacro bool) domain.BuildClassification {
	if parent == domain.Host || kind == domain.DependencyBuild || childIsProcMacro {
		return domain.Host
	}
	return domain.Target
}

// RecursiveBuildTimeDeps returns the packages of id's closure that are built for the host.
// The package itself is excluded.
func RecursiveBuildTimeDeps(g *domain.Graph, id domain.PackageID) ([]domain.PackageID, error) {
	closure, err := Closure(g, id, domain.Target)
	if err != nil {
		return nil, err
	}
	var out []domain.PackageID
	for _, e := range closure.ByClass(domain.Host) {
		if e.ID != id {
			out = append(out, e.ID)
		}
	}
	return out, nil
}

// parentClass is the classification children of entry inherit.
func parentClass(g *domain.Graph, entry domain.ClosureEntry, root domain.PackageID) domain.BuildClassification {
	if entry.ID == root && g.IsProcMacro(root) {
		return domain.Host
	}
	return entry.Class
}

// checkDevEdges rejects development edges below the root. The root's own dev-dependencies
// never take part in building it and are ignored. Local packages such as workspace members
// always carry their dev edges in the resolved graph, so theirs are ignored as well.
func checkDevEdges(g *domain.Graph, entry domain.ClosureEntry, root domain.PackageID) error {
	if entry.ID == root || entry.ID.IsLocal() {
		return nil
	}
	devs, err := g.Edges(entry.ID, domain.DependencyDev)
	if err != nil {
		return err
	}
	if len(devs) == 0 {
		return nil
	}
	err = zerr.With(domain.ErrDevDependencyUnsupported, "package", entry.ID.String())
	return zerr.With(err, "dev_dependency", devs[0].String())
}
