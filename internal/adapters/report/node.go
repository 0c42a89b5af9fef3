package report

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/core/ports"
)

// NodeID is the unique identifier for the reports Graft node.
const NodeID graft.ID = "adapter.report"

func init() {
	graft.Register(graft.Node[[]ports.Report]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) ([]ports.Report, error) {
			return All(), nil
		},
	})
}
