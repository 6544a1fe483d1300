package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// PathSourcePrefix marks packages that live in a local directory, such as workspace members.
const PathSourcePrefix = "path+file://"

// PackageID identifies one package within a resolved graph.
type PackageID struct {
	// Name is the package name (e.g., "serde").
	Name InternedString

	// Version is the exact resolved version (e.g., "1.0.188").
	Version InternedString

	// Source identifies where the package comes from (registry URL, git URL or path).
	// It is empty for packages loaded from fixtures that do not care about provenance.
	Source InternedString
}

// NewPackageID builds a PackageID from plain strings.
func NewPackageID(name, version, source string) PackageID {
	return PackageID{
		Name:    NewInternedString(name),
		Version: NewInternedString(version),
		Source:  NewInternedString(source),
	}
}

// ParsePackageSpec parses a "name@version" spec into a PackageID without a source.
func ParsePackageSpec(spec string) (PackageID, error) {
	name, version, ok := strings.Cut(spec, "@")
	if !ok || name == "" || version == "" {
		return PackageID{}, zerr.With(ErrInvalidPackageSpec, "spec", spec)
	}
	return NewPackageID(name, version, ""), nil
}

// String renders the id as name@version.
func (id PackageID) String() string {
	return id.Name.String() + "@" + id.Version.String()
}

// IsLocal reports whether the package is sourced from a local path.
func (id PackageID) IsLocal() bool {
	return strings.HasPrefix(id.Source.String(), PathSourcePrefix)
}

// Compare orders ids by name, then version, then source.
func (id PackageID) Compare(other PackageID) int {
	if c := id.Name.Compare(other.Name); c != 0 {
		return c
	}
	if c := id.Version.Compare(other.Version); c != 0 {
		return c
	}
	return id.Source.Compare(other.Source)
}

// Matches reports whether id has the same name and version as spec, ignoring the source
// when spec does not carry one.
func (id PackageID) Matches(spec PackageID) bool {
	if id.Name != spec.Name || id.Version != spec.Version {
		return false
	}
	return spec.Source.String() == "" || id.Source == spec.Source
}

// Package is a node of the resolved graph: a package with its activated features and its
// outgoing, feature-filtered dependency edges.
type Package struct {
	ID PackageID

	// Features are the features the resolver activated for this package.
	Features []string

	// ProcMacro marks a host code generator: it always runs on the build machine.
	ProcMacro bool

	// Deps lists the outgoing edges in declaration order.
	Deps []Dependency
}

// HasFeature reports whether name is among the activated features.
func (p *Package) HasFeature(name string) bool {
	for _, f := range p.Features {
		if f == name {
			return true
		}
	}
	return false
}
