package ports

import (
	"context"

	"go.trai.ch/quick/internal/core/domain"
)

// GraphSource produces the externally resolved package graph.
//
//go:generate mockgen -source=graph_source.go -destination=mocks/mock_graph_source.go -package=mocks
type GraphSource interface {
	// Load resolves the graph found at path and records its root package when it has one.
	// Path is a workspace directory or a graph file, depending on the implementation.
	Load(ctx context.Context, path string) (*domain.Graph, error)
}
