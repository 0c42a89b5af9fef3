package ports

import (
	"context"

	"go.trai.ch/sweep/internal/core/domain"
)

// Executor runs the domain logic of a task kind inside a prepared context.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs task, reading and writing through tc.
	Execute(ctx context.Context, tc TaskContext, task *domain.Task) error
}

// Report is run after a successful execution, before the commit marker is written.
type Report interface {
	// Name identifies the report in task declarations.
	Name() string
	// Execute renders the report into tc.
	Execute(ctx context.Context, tc TaskContext, task *domain.Task) error
}

// Confirmer decides whether a compatible prior execution should be run again.
type Confirmer interface {
	// ConfirmRerun returns true to execute again and false to reuse existing.
	ConfirmRerun(ctx context.Context, task *domain.Task, existing *domain.ContextMetadata) (bool, error)
}
