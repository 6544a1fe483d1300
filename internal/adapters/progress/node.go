package progress

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/core/ports"
)

// NodeID is the unique identifier for the progress Graft node.
const NodeID graft.ID = "adapter.progress"

func init() {
	graft.Register(graft.Node[ports.Progress]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Progress, error) {
			return NewBar(os.Stderr), nil
		},
	})
}
