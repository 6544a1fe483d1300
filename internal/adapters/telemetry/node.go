package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
)

// NoOpNodeID is the unique identifier for the no-op telemetry Graft node.
const NoOpNodeID graft.ID = "adapter.telemetry.noop"

func init() {
	graft.Register(graft.Node[*NoOp]{
		ID:        NoOpNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*NoOp, error) {
			return NewNoOp(), nil
		},
	})
}
