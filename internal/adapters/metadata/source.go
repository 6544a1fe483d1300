// Package metadata builds the package graph from `cargo metadata` output.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphSource = (*Source)(nil)

// Runner executes the resolver and returns its standard output.
type Runner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

// Source implements ports.GraphSource on top of `cargo metadata`.
type Source struct {
	cargo   string
	offline bool
	run     Runner
}

// NewSource creates a Source invoking the given cargo executable.
func NewSource(cargo string, offline bool) *Source {
	return NewSourceWithRunner(cargo, offline, execRunner)
}

// NewSourceWithRunner creates a Source with a custom runner.
func NewSourceWithRunner(cargo string, offline bool, run Runner) *Source {
	return &Source{cargo: cargo, offline: offline, run: run}
}

// Args returns the arguments passed to cargo.
func (s *Source) Args() []string {
	args := []string{"metadata", "--format-version", "1"}
	if s.offline {
		args = append(args, "--offline")
	}
	return args
}

// Load resolves the workspace in dir.
func (s *Source) Load(ctx context.Context, dir string) (*domain.Graph, error) {
	out, err := s.run(ctx, dir, s.cargo, s.Args()...)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrMetadataFailed.Error()), "dir", dir)
	}
	return Parse(out)
}

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // configured compiler
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, zerr.With(zerr.Wrap(err, "cargo metadata failed"), "stderr", msg)
		}
		return nil, err
	}
	return out, nil
}

type metadataJSON struct {
	Packages         []packageJSON `json:"packages"`
	WorkspaceMembers []string      `json:"workspace_members"`
	Resolve          *resolveJSON  `json:"resolve"`
}

type packageJSON struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Version string       `json:"version"`
	Source  *string      `json:"source"`
	Targets []targetJSON `json:"targets"`

	ManifestPath string `json:"manifest_path"`
}

type targetJSON struct {
	Kind []string `json:"kind"`
}

type resolveJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Root  *string    `json:"root"`
}

type nodeJSON struct {
	ID       string        `json:"id"`
	Features []string      `json:"features"`
	Deps     []nodeDepJSON `json:"deps"`
}

type nodeDepJSON struct {
	Pkg      string        `json:"pkg"`
	DepKinds []depKindJSON `json:"dep_kinds"`
}

type depKindJSON struct {
	Kind *string `json:"kind"`
}

// Parse converts `cargo metadata --format-version 1` output into a graph.
// The root is resolve.root, or the only workspace member when the root is null.
func Parse(data []byte) (*domain.Graph, error) {
	var meta metadataJSON
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, zerr.Wrap(err, domain.ErrMetadataFailed.Error())
	}
	if meta.Resolve == nil {
		return nil, zerr.With(domain.ErrMetadataFailed, "reason", "missing resolve section")
	}

	ids := make(map[string]domain.PackageID, len(meta.Packages))
	procMacro := make(map[string]bool, len(meta.Packages))
	for _, p := range meta.Packages {
		ids[p.ID] = domain.NewPackageID(p.Name, p.Version, packageSource(p))
		procMacro[p.ID] = isProcMacro(p.Targets)
	}

	graph := domain.NewGraph()
	for _, node := range meta.Resolve.Nodes {
		id, ok := ids[node.ID]
		if !ok {
			return nil, zerr.With(domain.ErrMissingPackage, "package", node.ID)
		}
		pkg := &domain.Package{
			ID:        id,
			Features:  node.Features,
			ProcMacro: procMacro[node.ID],
		}
		for _, dep := range node.Deps {
			depID, ok := ids[dep.Pkg]
			if !ok {
				return nil, zerr.With(zerr.With(domain.ErrMissingPackage, "package", id.String()), "missing_dependency", dep.Pkg)
			}
			for _, kind := range edgeKinds(dep.DepKinds) {
				if slices.Contains(pkg.Deps, domain.Dependency{ID: depID, Kind: kind}) {
					continue
				}
				pkg.Deps = append(pkg.Deps, domain.Dependency{ID: depID, Kind: kind})
			}
		}
		if err := graph.AddPackage(pkg); err != nil {
			return nil, err
		}
	}

	root, err := rootID(&meta)
	if err != nil {
		return nil, err
	}
	if root != "" {
		graph.SetRoot(ids[root])
	}
	return graph, nil
}

// packageSource returns the registry or git source, or a path+file:// source naming the
// package directory for local packages.
func packageSource(p packageJSON) string {
	switch {
	case p.Source != nil:
		return *p.Source
	case p.ManifestPath != "":
		return domain.PathSourcePrefix + filepath.ToSlash(filepath.Dir(p.ManifestPath))
	default:
		return ""
	}
}

func rootID(meta *metadataJSON) (string, error) {
	if meta.Resolve.Root != nil {
		return *meta.Resolve.Root, nil
	}
	if len(meta.WorkspaceMembers) == 1 {
		return meta.WorkspaceMembers[0], nil
	}
	if len(meta.WorkspaceMembers) == 0 {
		return "", zerr.With(domain.ErrNoRootPackage, "reason", "no workspace members")
	}
	// Virtual workspace: the caller has to name the root.
	return "", nil
}

// edgeKinds maps dep_kinds to edge kinds. A missing list means a normal dependency.
func edgeKinds(kinds []depKindJSON) []domain.DependencyKind {
	if len(kinds) == 0 {
		return []domain.DependencyKind{domain.DependencyNormal}
	}
	out := make([]domain.DependencyKind, 0, len(kinds))
	for _, k := range kinds {
		switch {
		case k.Kind == nil:
			out = append(out, domain.DependencyNormal)
		case *k.Kind == "build":
			out = append(out, domain.DependencyBuild)
		case *k.Kind == "dev":
			out = append(out, domain.DependencyDev)
		default:
			out = append(out, domain.DependencyNormal)
		}
	}
	return out
}

func isProcMacro(targets []targetJSON) bool {
	for _, t := range targets {
		if slices.Contains(t.Kind, "proc-macro") {
			return true
		}
	}
	return false
}
