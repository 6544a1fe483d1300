package builder

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/adapters/archive" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quick/internal/adapters/cas"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quick/internal/adapters/config"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quick/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quick/internal/adapters/shell"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
)

// NodeID is the unique identifier for the builder Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			archive.NodeID,
			shell.NodeID,
			logger.NodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			repo, err := graft.Dep[ports.CacheRepository](ctx)
			if err != nil {
				return nil, err
			}

			codec, err := graft.Dep[ports.ArchiveCodec](ctx)
			if err != nil {
				return nil, err
			}

			compiler, err := graft.Dep[ports.Compiler](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return New(repo, codec, compiler, log, Options{
				ScratchRoot: settings.ScratchRoot,
				Offline:     settings.Offline,
				Jobs:        settings.Jobs,
			}), nil
		},
	})
}
