package ports

import (
	"context"

	"go.trai.ch/quick/internal/core/domain"
)

// Planner answers closure and fingerprint queries for one resolved graph.
type Planner interface {
	// Graph returns the graph being planned.
	Graph() *domain.Graph

	// Closure returns the dependency closure of entry, including entry itself.
	Closure(entry domain.ClosureEntry) (*domain.Closure, error)

	// Descriptor returns the canonical descriptor of entry's closure.
	Descriptor(entry domain.ClosureEntry) (domain.Descriptor, error)

	// Fingerprint returns the cache key of entry.
	Fingerprint(entry domain.ClosureEntry) (domain.Fingerprint, error)
}

// PackageBuilder builds one closure entry and commits it to the cache.
//
//go:generate mockgen -source=planner.go -destination=mocks/mock_planner.go -package=mocks
type PackageBuilder interface {
	// Build compiles entry against the cached archives of its dependencies.
	Build(ctx context.Context, plan Planner, entry domain.ClosureEntry) error
}
