package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/adapters/prompt"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/sweep/internal/engine/lifecycle"
)

// NodeID is the unique identifier for the execution service Graft node.
const NodeID graft.ID = "engine.scheduler"

// BatchNodeID is the unique identifier for the batch engine Graft node.
const BatchNodeID graft.ID = "engine.batch"

func init() {
	graft.Register(graft.Node[*ExecutionService]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			lifecycle.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
			shell.NodeID,
		},
		Run: func(ctx context.Context) (*ExecutionService, error) {
			manager, err := graft.Dep[*lifecycle.Manager](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			svc := NewExecutionService(manager, tracer, m)
			svc.Register(domain.KindShell, executor)
			return svc, nil
		},
	})

	graft.Register(graft.Node[*BatchEngine]{
		ID:        BatchNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			NodeID,
			lifecycle.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
			logger.NodeID,
			prompt.NodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*BatchEngine, error) {
			svc, err := graft.Dep[*ExecutionService](ctx)
			if err != nil {
				return nil, err
			}

			manager, err := graft.Dep[*lifecycle.Manager](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			confirmer, err := graft.Dep[ports.Confirmer](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			engine := NewBatchEngine(svc, manager, tracer, m, log,
				WithConfirmer(confirmer),
				WithDefaultPolicy(settings.Policy()),
				WithWorkers(settings.Workers),
			)
			svc.Register(domain.KindBatch, engine)
			return engine, nil
		},
	})
}
