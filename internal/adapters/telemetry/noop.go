// Package telemetry provides telemetry adapters that do not record anything.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/quick/internal/core/ports"
)

var _ ports.Telemetry = (*NoOp)(nil)

// NoOp is a ports.Telemetry that discards everything.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a vertex that discards its output.
func (*NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (*NoOp) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Stderr() io.Writer { return io.Discard }
func (noopVertex) Complete(error)    {}
func (noopVertex) Cached()           {}
