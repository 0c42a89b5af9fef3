// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/sweep/internal/core/domain"
)

// StorageService persists the objects of every execution context under a
// storage root. Only contexts with a commit marker are visible to lookups.
//
//go:generate go run go.uber.org/mock/mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks
type StorageService interface {
	// ContextIDs lists every context directory, complete or not.
	ContextIDs() ([]string, error)

	// ContainsContext reports whether the context has a commit marker.
	ContainsContext(id string) bool

	// ContainsKey reports whether the final artifact of a key exists.
	ContainsKey(id, key string) bool

	// GetContext returns the metadata of a completed context.
	GetContext(id string) (*domain.ContextMetadata, error)

	// GetContexts returns the completed contexts of a type whose discriminators
	// strictly satisfy the constraints, most recently completed first.
	GetContexts(taskType string, constraints []domain.Constraint) ([]*domain.ContextMetadata, error)

	// GetLatestContext returns the first result of GetContexts or ErrContextNotFound.
	GetLatestContext(taskType string, constraints []domain.Constraint) (*domain.ContextMetadata, error)

	// Discriminators returns the resolved discriminators recorded for a context.
	Discriminators(id string) (domain.Discriminators, error)

	// RetrieveBinary opens a stored object for reading.
	RetrieveBinary(ctx context.Context, id, key string) (io.ReadCloser, error)

	// StoreBinary atomically writes an object.
	StoreBinary(ctx context.Context, id, key string, r io.Reader) error

	// Copy materializes a source key under a target key according to the access mode.
	Copy(ctx context.Context, targetID, targetKey string, source domain.StorageKey, mode domain.AccessMode) error

	// Locate returns the filesystem location of a key.
	Locate(id, key string) (string, error)

	// DeleteKey removes one key of a context.
	DeleteKey(id, key string) error

	// DeleteContext removes a context and everything stored under it.
	DeleteContext(id string) error
}
