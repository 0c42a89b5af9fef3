// Package scheduler runs tasks through their life cycle and schedules the
// subtasks of batches.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/sweep/internal/engine/lifecycle"
	"go.trai.ch/zerr"
)

// Runner executes one task and returns the id of its context.
type Runner interface {
	Run(ctx context.Context, task *domain.Task, factory ports.ContextFactory) (string, error)
}

// ExecutionService dispatches tasks to the executor registered for their kind.
type ExecutionService struct {
	manager   *lifecycle.Manager
	tracer    ports.Tracer
	metrics   ports.Metrics
	executors map[string]ports.Executor
}

// NewExecutionService creates a service without executors.
func NewExecutionService(manager *lifecycle.Manager, tracer ports.Tracer, metrics ports.Metrics) *ExecutionService {
	return &ExecutionService{
		manager:   manager,
		tracer:    tracer,
		metrics:   metrics,
		executors: make(map[string]ports.Executor),
	}
}

// Register binds an executor to a task kind.
func (s *ExecutionService) Register(kind string, exec ports.Executor) {
	s.executors[kind] = exec
}

// Run creates a context for task in factory and drives it through its life
// cycle. A failed execution leaves nothing in storage. The context is always
// destroyed.
func (s *ExecutionService) Run(ctx context.Context, task *domain.Task, factory ports.ContextFactory) (id string, err error) {
	exec, ok := s.executors[task.Kind]
	if !ok {
		return "", domain.Tag(domain.ErrUnknownKind, "kind", task.Kind, "type", task.Type)
	}

	ctx, span := s.tracer.Start(ctx, task.Type, ports.WithAttribute("task.kind", task.Kind))
	defer func() {
		if err != nil && !errors.Is(err, domain.ErrUnresolvedImport) {
			span.RecordError(err)
		}
		span.End()
	}()

	tc, err := factory.CreateContext(ctx, task)
	if err != nil {
		return "", err
	}
	span.SetAttribute("context.id", tc.ID())

	defer func() {
		if destroyErr := s.manager.Destroy(ctx, tc, task); destroyErr != nil {
			err = errors.Join(err, destroyErr)
			id = ""
		}
	}()

	start := time.Now()
	if err := s.execute(ctx, tc, task, exec); err != nil {
		s.manager.Fail(ctx, tc, err)
		return "", err
	}
	s.metrics.ObserveExecution(task.Type, time.Since(start))
	return tc.ID(), nil
}

func (s *ExecutionService) execute(ctx context.Context, tc ports.TaskContext, task *domain.Task, exec ports.Executor) error {
	if err := s.manager.Configure(ctx, tc, task, task.Configuration()); err != nil {
		return err
	}
	if err := s.manager.Initialize(ctx, tc, task); err != nil {
		return err
	}
	if err := s.manager.Begin(ctx, tc); err != nil {
		return err
	}
	if err := exec.Execute(ctx, tc, task); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrTaskFailed.Error()), "type", task.Type), "id", tc.ID())
	}
	return s.manager.Complete(ctx, tc, task)
}
