package ports

import (
	"context"
	"io"

	"go.trai.ch/sweep/internal/core/domain"
)

// TaskContext is the handle of one execution.
//
//go:generate go run go.uber.org/mock/mockgen -source=context.go -destination=mocks/mock_context.go -package=mocks
type TaskContext interface {
	// ID returns the unique id of the execution.
	ID() string
	// Metadata returns the mutable metadata of the execution.
	Metadata() *domain.ContextMetadata
	// Task returns the task being executed.
	Task() *domain.Task
	// Factory returns the factory that created the context.
	Factory() ContextFactory
	// Storage returns the storage backing the context.
	Storage() StorageService
	// State returns the current life-cycle state.
	State() domain.State
	// SetState records a life-cycle state.
	SetState(state domain.State)
	// ResolvedDiscriminators merges the task discriminators with those of its imports.
	ResolvedDiscriminators() (domain.Discriminators, error)
	// Retrieve opens a key, following imports when the key is not local.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)
	// Store writes a key in the context.
	Store(ctx context.Context, key string, r io.Reader) error
	// Locate returns the filesystem location of a key for the given access mode.
	// Write access to an imported key materializes a local copy first.
	Locate(ctx context.Context, key string, mode domain.AccessMode) (string, error)
}

// ContextFactory creates and tracks execution contexts.
type ContextFactory interface {
	// CreateContext allocates a context for task and resolves its imports.
	CreateContext(ctx context.Context, task *domain.Task) (TaskContext, error)
	// GetContext returns a live context, or one reconstructed from storage.
	// It returns nil when the id is unknown.
	GetContext(id string) (TaskContext, error)
	// Resolve resolves an import URI to a storage key.
	Resolve(ctx context.Context, uri string) (domain.StorageKey, error)
	// Release forgets a live context.
	Release(id string)
	// Scoped returns a factory restricting type lookups to scope and cfg.
	Scoped(scope []string, cfg domain.Configuration) ContextFactory
	// Scope returns the ids visible to type lookups, or nil when unrestricted.
	Scope() []string
	// Storage returns the storage backing the factory.
	Storage() StorageService
}
