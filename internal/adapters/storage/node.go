package storage

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/internal/adapters/config"
	"go.trai.ch/sweep/internal/core/ports"
)

const (
	// FileStoreNodeID is the unique identifier for the file store Graft node.
	FileStoreNodeID graft.ID = "adapter.file_store"
	// NodeID is the unique identifier for the storage service Graft node.
	NodeID graft.ID = "adapter.storage"
)

func init() {
	graft.Register(graft.Node[*FileStore]{
		ID:        FileStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (*FileStore, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewFileStore(settings.Root)
		},
	})

	graft.Register(graft.Node[ports.StorageService]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FileStoreNodeID},
		Run: func(ctx context.Context) (ports.StorageService, error) {
			fs, err := graft.Dep[*FileStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewCachingStore(fs), nil
		},
	})
}
