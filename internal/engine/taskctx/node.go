package taskctx

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/adapters/fetch"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/adapters/storage" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sweep/internal/core/ports"
)

// NodeID is the unique identifier for the context factory Graft node.
const NodeID graft.ID = "engine.context_factory"

func init() {
	graft.Register(graft.Node[ports.ContextFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			storage.NodeID,
			fetch.NodeID,
		},
		Run: func(ctx context.Context) (ports.ContextFactory, error) {
			store, err := graft.Dep[ports.StorageService](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(store, fetcher), nil
		},
	})
}
