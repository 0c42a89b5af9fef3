package metrics

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/core/ports"
)

// PrometheusNodeID is the unique identifier for the Prometheus recorder Graft node.
const PrometheusNodeID graft.ID = "adapter.metrics.prometheus"

// NodeID is the unique identifier for the metrics port Graft node.
const NodeID graft.ID = "adapter.metrics"

func init() {
	graft.Register(graft.Node[*Prometheus]{
		ID:        PrometheusNodeID,
		Cacheable: true,
		Run: func(context.Context) (*Prometheus, error) {
			return NewPrometheus(), nil
		},
	})

	graft.Register(graft.Node[ports.Metrics]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{PrometheusNodeID},
		Run: func(ctx context.Context) (ports.Metrics, error) {
			p, err := graft.Dep[*Prometheus](ctx)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	})
}
