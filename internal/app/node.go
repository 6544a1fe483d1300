package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/adapters/metadata"           //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/adapters/progress"           //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/quick/internal/engine/builder"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			metadata.NodeID,
			config.GraphLoaderNodeID,
			cas.NodeID,
			builder.NodeID,
			fs.VerifierNodeID,
			fs.ResolverNodeID,
			logger.NodeID,
			config.SettingsNodeID,
			progrock.NodeID,
			progress.NodeID,
			telemetry.NoOpNodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.SettingsNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	workspace, err := graft.Dep[*metadata.Source](ctx)
	if err != nil {
		return nil, err
	}

	files, err := graft.Dep[*config.GraphLoader](ctx)
	if err != nil {
		return nil, err
	}

	repo, err := graft.Dep[ports.CacheRepository](ctx)
	if err != nil {
		return nil, err
	}

	b, err := graft.Dep[*builder.Builder](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[*fs.Verifier](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[*fs.Resolver](ctx)
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

	recorder, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	bar, err := graft.Dep[ports.Progress](ctx)
	if err != nil {
		return nil, err
	}

	noop, err := graft.Dep[*telemetry.NoOp](ctx)
	if err != nil {
		return nil, err
	}

	return New(
		workspace,
		files,
		repo,
		b,
		verifier,
		log,
		settings,
		Reporter{Telemetry: recorder, Progress: bar},
		Reporter{Telemetry: noop, Progress: progress.Silent{}},
	).WithResolver(resolver), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
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

	c := &Components{App: app, Logger: log}
	c.UseJSON(settings.JSONLogs)
	return c, nil
}
