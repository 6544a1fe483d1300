package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/adapters/config"
	"go.trai.ch/quick/internal/adapters/logger"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
)

// NodeID is the unique identifier for the compiler Graft node.
const NodeID graft.ID = "adapter.compiler"

func init() {
	graft.Register(graft.Node[ports.Compiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Compiler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewCompiler(log, settings.Cargo, settings.CompileTimeout), nil
		},
	})
}
