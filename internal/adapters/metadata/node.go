package metadata

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/adapters/config"
	"go.trai.ch/quick/internal/core/domain"
)

// NodeID is the unique identifier for the metadata source Graft node.
const NodeID graft.ID = "adapter.metadata"

func init() {
	graft.Register(graft.Node[*Source]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (*Source, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(settings.Cargo, settings.Offline), nil
		},
	})
}
