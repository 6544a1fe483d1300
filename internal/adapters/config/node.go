package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/adapters/logger"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// LoaderNodeID provides the ports.SettingsLoader.
	LoaderNodeID graft.ID = "adapter.config_loader"
	// SettingsNodeID provides the domain.Settings of the current working directory.
	SettingsNodeID graft.ID = "adapter.settings"
	// GraphLoaderNodeID provides the YAML graph loader.
	GraphLoaderNodeID graft.ID = "adapter.graph_loader"
)

func init() {
	graft.Register(graft.Node[ports.SettingsLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SettingsLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[domain.Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LoaderNodeID},
		Run: func(ctx context.Context) (domain.Settings, error) {
			loader, err := graft.Dep[ports.SettingsLoader](ctx)
			if err != nil {
				return domain.Settings{}, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return domain.Settings{}, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
			}
			return loader.Load(cwd)
		},
	})

	graft.Register(graft.Node[*GraphLoader]{
		ID:        GraphLoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*GraphLoader, error) {
			return NewGraphLoader(), nil
		},
	})
}
