package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/adapters/config"
	"go.trai.ch/quick/internal/adapters/fs"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
)

const NodeID graft.ID = "adapter.archive"

func init() {
	graft.Register(graft.Node[ports.ArchiveCodec]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, fs.HasherNodeID, config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.ArchiveCodec, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return New(walker, hasher, settings.Compression), nil
		},
	})
}
