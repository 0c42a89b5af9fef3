package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/core/ports"
)

// NodeID is the unique identifier for the experiment loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

// SettingsNodeID is the unique identifier for the runtime settings Graft node.
const SettingsNodeID graft.ID = "adapter.settings"

func init() {
	graft.Register(graft.Node[ports.ExperimentLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.ExperimentLoader, error) {
			l, err := NewLoader()
			if err != nil {
				return nil, err
			}
			return l, nil
		},
	})

	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(context.Context) (*Settings, error) {
			return LoadSettings()
		},
	})
}
