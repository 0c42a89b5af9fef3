package lifecycle

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/adapters/report" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/core/ports"
)

// NodeID is the unique identifier for the life-cycle manager Graft node.
const NodeID graft.ID = "engine.lifecycle"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			report.NodeID,
		},
		Run: func(ctx context.Context) (*Manager, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			reports, err := graft.Dep[[]ports.Report](ctx)
			if err != nil {
				return nil, err
			}

			return NewManager(log, reports...), nil
		},
	})
}
