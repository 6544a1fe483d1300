package config

import (
	"context"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphSource = (*GraphLoader)(nil)

// GraphLoader reads a resolved package graph from a YAML Graphfile.
type GraphLoader struct {
	FS FileSystem
}

// NewGraphLoader creates a GraphLoader reading the real file system.
func NewGraphLoader() *GraphLoader {
	return &GraphLoader{FS: NewOSFS()}
}

// Load reads the Graphfile at path.
func (l *GraphLoader) Load(ctx context.Context, path string) (*domain.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Graphfile
	if err := unmarshalYAML(data, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	graph, err := file.toGraph()
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return graph, nil
}

func (f *Graphfile) toGraph() (*domain.Graph, error) {
	ids := make(map[string]domain.PackageID, len(f.Packages))
	for _, dto := range f.Packages {
		spec, err := domain.ParsePackageSpec(dto.ID)
		if err != nil {
			return nil, err
		}
		ids[dto.ID] = domain.NewPackageID(spec.Name.String(), spec.Version.String(), dto.Source)
	}

	graph := domain.NewGraph()
	for _, dto := range f.Packages {
		pkg := &domain.Package{
			ID:        ids[dto.ID],
			Features:  dto.Features,
			ProcMacro: dto.ProcMacro,
		}
		for _, dep := range dto.Deps {
			depID, ok := ids[dep.ID]
			if !ok {
				return nil, zerr.With(zerr.With(domain.ErrMissingPackage, "package", dto.ID), "missing_dependency", dep.ID)
			}
			kind, ok := domain.ParseDependencyKind(dep.Kind)
			if !ok {
				return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "package", dto.ID), "kind", dep.Kind)
			}
			pkg.Deps = append(pkg.Deps, domain.Dependency{ID: depID, Kind: kind})
		}
		if err := graph.AddPackage(pkg); err != nil {
			return nil, err
		}
	}

	if f.Root != "" {
		spec, err := domain.ParsePackageSpec(f.Root)
		if err != nil {
			return nil, err
		}
		root, ok := graph.Find(spec)
		if !ok {
			return nil, zerr.With(domain.ErrNoRootPackage, "root", f.Root)
		}
		graph.SetRoot(root)
	}
	return graph, nil
}
