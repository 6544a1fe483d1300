package domain

import "strings"

// DependencyKind is the kind of a dependency edge.
type DependencyKind int

const (
	// DependencyNormal is a regular library dependency.
	DependencyNormal DependencyKind = iota
	// DependencyBuild is a dependency of the package's build script.
	DependencyBuild
	// DependencyDev is a dependency only used by tests, examples and benchmarks.
	DependencyDev
)

// String returns the lowercase name of the kind.
func (k DependencyKind) String() string {
	switch k {
	case DependencyBuild:
		return "build"
	case DependencyDev:
		return "dev"
	default:
		return "normal"
	}
}

// ParseDependencyKind maps "", "normal", "build" and "dev" to a kind.
func ParseDependencyKind(s string) (DependencyKind, bool) {
	switch strings.ToLower(s) {
	case "", "normal":
		return DependencyNormal, true
	case "build":
		return DependencyBuild, true
	case "dev", "development":
		return DependencyDev, true
	default:
		return DependencyNormal, false
	}
}

// Dependency is an outgoing edge of a Package.
type Dependency struct {
	ID   PackageID
	Kind DependencyKind
}
