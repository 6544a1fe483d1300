package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/adapters/archive"
	"go.trai.ch/quick/internal/adapters/config"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
)

const NodeID graft.ID = "adapter.cache_repository"

func init() {
	graft.Register(graft.Node[ports.CacheRepository]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, archive.NodeID},
		Run: func(ctx context.Context) (ports.CacheRepository, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			codec, err := graft.Dep[ports.ArchiveCodec](ctx)
			if err != nil {
				return nil, err
			}
			repo, err := New(settings.CacheDir, codec)
			if err != nil {
				return nil, err
			}
			return repo, nil
		},
	})
}
