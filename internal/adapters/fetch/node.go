package fetch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/core/ports"
)

// NodeID is the unique identifier for the fetcher Graft node.
const NodeID graft.ID = "adapter.fetch"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.Fetcher, error) {
			return New(), nil
		},
	})
}
