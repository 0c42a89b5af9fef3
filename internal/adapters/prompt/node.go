package prompt

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/core/ports"
)

// NodeID is the unique identifier for the confirmer Graft node.
const NodeID graft.ID = "adapter.prompt"

func init() {
	graft.Register(graft.Node[ports.Confirmer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.Confirmer, error) {
			return New(), nil
		},
	})
}
