package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sweep/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sweep/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/sweep/internal/adapters/storage" //nolint:depguard // Wired in app layer
	"go.trai.ch/sweep/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/sweep/internal/engine/scheduler"
	"go.trai.ch/sweep/internal/engine/taskctx"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.SettingsNodeID,
			scheduler.NodeID,
			scheduler.BatchNodeID,
			taskctx.NodeID,
			storage.FileStoreNodeID,
			metrics.PrometheusNodeID,
			logger.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ExperimentLoader](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	svc, err := graft.Dep[*scheduler.ExecutionService](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*scheduler.BatchEngine](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[ports.ContextFactory](ctx)
	if err != nil {
		return nil, err
	}

	fs, err := graft.Dep[*storage.FileStore](ctx)
	if err != nil {
		return nil, err
	}

	prom, err := graft.Dep[*metrics.Prometheus](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.FileWatcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, svc, engine, factory, fs, prom, log).
		WithMetricsPath(settings.MetricsPath).
		WithWatcher(w), nil
}
