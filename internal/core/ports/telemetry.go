package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records units of work of a run.
type Telemetry interface {
	// Record starts recording a new vertex.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes the recording session.
	Close() error
}

// Vertex is one recorded unit of work, such as building a package.
type Vertex interface {
	// Stdout returns a writer for the unit's standard output.
	Stdout() io.Writer

	// Stderr returns a writer for the unit's error output.
	Stderr() io.Writer

	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)

	// Cached marks the vertex as satisfied from the cache.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a context carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
