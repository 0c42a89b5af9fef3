package scheduler

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/sweep/internal/engine/lifecycle"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

type policyKey struct{}

func withPolicy(ctx context.Context, p domain.ExecutionPolicy) context.Context {
	return context.WithValue(ctx, policyKey{}, p)
}

func policyFrom(ctx context.Context) domain.ExecutionPolicy {
	p, _ := ctx.Value(policyKey{}).(domain.ExecutionPolicy)
	return p
}

// BatchEngine is the executor of batch tasks. It runs the subtasks of a batch
// for every configuration of its parameter space.
type BatchEngine struct {
	runner    Runner
	manager   *lifecycle.Manager
	confirmer ports.Confirmer
	tracer    ports.Tracer
	metrics   ports.Metrics
	log       ports.Logger

	policy  domain.ExecutionPolicy
	workers int
}

// BatchOption configures a BatchEngine.
type BatchOption func(*BatchEngine)

// WithConfirmer sets the confirmer consulted by the ask-existing policy.
func WithConfirmer(c ports.Confirmer) BatchOption {
	return func(e *BatchEngine) { e.confirmer = c }
}

// WithDefaultPolicy sets the policy used when neither a batch nor its parents choose one.
func WithDefaultPolicy(p domain.ExecutionPolicy) BatchOption {
	return func(e *BatchEngine) { e.policy = p }
}

// WithWorkers sets the pool size used when a batch does not choose one.
// One worker selects the serial engine.
func WithWorkers(n int) BatchOption {
	return func(e *BatchEngine) { e.workers = n }
}

// NewBatchEngine creates a batch engine running subtasks through runner.
func NewBatchEngine(
	runner Runner,
	manager *lifecycle.Manager,
	tracer ports.Tracer,
	metrics ports.Metrics,
	log ports.Logger,
	opts ...BatchOption,
) *BatchEngine {
	e := &BatchEngine{
		runner:  runner,
		manager: manager,
		tracer:  tracer,
		metrics: metrics,
		log:     log,
		policy:  domain.PolicyUseExisting,
		workers: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPolicy changes the default policy.
func (e *BatchEngine) SetPolicy(p domain.ExecutionPolicy) {
	if p != domain.PolicyInherit {
		e.policy = p
	}
}

// SetWorkers changes the default pool size.
func (e *BatchEngine) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// Execute runs every subtask of task for every configuration, one
// configuration at a time, and records the produced ids on task.
func (e *BatchEngine) Execute(ctx context.Context, tc ports.TaskContext, task *domain.Task) error {
	policy := task.Policy.Or(policyFrom(ctx)).Or(e.policy)
	ctx = withPolicy(ctx, policy)

	workers := e.workers
	if task.Workers > 0 {
		workers = task.Workers
	}

	space := task.Space
	if space == nil {
		space = domain.NewParameterSpace()
	}
	if size, _ := space.Size(); size > 0 {
		e.tracer.EmitPlan(ctx, task.Type, size)
	}

	factory := tc.Factory()
	inherited := factory.Scope()
	b := &batch{
		engine:   e,
		task:     task,
		factory:  factory,
		policy:   policy,
		workers:  workers,
		scope:    newIDSet(inherited...),
		produced: newIDSet(),
	}

	parent := task.Configuration()
	for spaceCfg, err := range space.All() {
		if err != nil {
			return zerr.With(err, "batch", task.Type)
		}
		if err := b.runConfiguration(ctx, parent.Merge(spaceCfg)); err != nil {
			// A nested batch that could not start waits for its siblings
			// like any other subtask with a missing import.
			if inherited != nil && b.produced.Len() == 0 && errors.Is(err, domain.ErrUnfulfillablePrerequisite) {
				return zerr.Wrap(domain.ErrUnresolvedImport, err.Error())
			}
			return err
		}
	}

	task.SetSubtasks(b.produced.Items())
	return e.manager.Persist(ctx, tc, task)
}

// batch is the coordinator state of one batch execution.
// It is only touched by the goroutine running Execute.
type batch struct {
	engine  *BatchEngine
	task    *domain.Task
	factory ports.ContextFactory
	policy  domain.ExecutionPolicy
	workers int

	scope    *idSet
	produced *idSet
}

type outcome struct {
	task    *domain.Task
	id      string
	outcome ports.Outcome
	err     error
}

func (b *batch) runConfiguration(ctx context.Context, cfg domain.Configuration) error {
	ctx, span := b.engine.tracer.Start(ctx, b.task.Type+" configuration",
		ports.WithAttribute("batch.type", b.task.Type),
		ports.WithAttribute("configuration.fingerprint", fmt.Sprintf("%016x", cfg.Fingerprint())),
	)
	defer span.End()

	for _, sub := range b.task.Subtasks {
		sub.Configure(cfg)
	}

	pending := slices.Clone(b.task.Subtasks)
	var reasons []string
	var previous []*domain.Task
	for round := 1; len(pending) > 0; round++ {
		b.engine.metrics.RecordRound(b.task.Type, len(pending))

		var deferred []*domain.Task
		var err error
		if b.workers > 1 {
			deferred, err = b.concurrentRound(ctx, cfg, pending, round, &reasons)
		} else {
			deferred, err = b.serialRound(ctx, cfg, pending, round, &reasons)
		}
		if err != nil {
			span.RecordError(err)
			return err
		}

		if previous != nil && sameTasks(previous, deferred) {
			err := unfulfillable(b.task, deferred, reasons)
			span.RecordError(err)
			return err
		}
		previous = deferred
		pending = deferred
	}
	return nil
}

// serialRound handles pending subtasks one at a time, in order. Every attempt
// sees what the previous attempts of the round produced.
func (b *batch) serialRound(ctx context.Context, cfg domain.Configuration, pending []*domain.Task, round int, reasons *[]string) ([]*domain.Task, error) {
	var deferred []*domain.Task
	for _, sub := range pending {
		out := b.lookup(ctx, cfg, sub)
		if out.err == nil && out.id == "" {
			id, err := b.engine.runner.Run(ctx, sub, b.factory.Scoped(b.scope.Items(), cfg))
			out = outcome{task: sub, id: id, outcome: ports.OutcomeExecuted, err: err}
		}
		if b.settle(out, round, reasons) {
			deferred = append(deferred, sub)
			continue
		}
		if out.err != nil {
			return nil, out.err
		}
	}
	return deferred, nil
}

// concurrentRound resolves memoized subtasks on the coordinator, then runs
// the rest on a bounded pool. Workers only write their own result slot.
func (b *batch) concurrentRound(ctx context.Context, cfg domain.Configuration, pending []*domain.Task, round int, reasons *[]string) ([]*domain.Task, error) {
	var toRun, deferred []*domain.Task
	for _, sub := range pending {
		out := b.lookup(ctx, cfg, sub)
		switch {
		case errors.Is(out.err, domain.ErrUnresolvedImport):
			b.settle(out, round, reasons)
			deferred = append(deferred, sub)
			continue
		case out.err != nil:
			return nil, out.err
		case out.id != "":
			b.settle(out, round, reasons)
			continue
		}
		toRun = append(toRun, sub)
	}

	factory := b.factory.Scoped(b.scope.Items(), cfg)
	results := make([]outcome, len(toRun))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, sub := range toRun {
		g.Go(func() error {
			id, err := b.engine.runner.Run(ctx, sub, factory)
			results[i] = outcome{task: sub, id: id, outcome: ports.OutcomeExecuted, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, out := range results {
		if b.settle(out, round, reasons) {
			deferred = append(deferred, out.task)
			continue
		}
		if out.err != nil {
			failures = append(failures, out.err)
		}
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return deferred, nil
}

// settle records the outcome of one subtask and reports whether it was deferred.
func (b *batch) settle(out outcome, round int, reasons *[]string) bool {
	metrics := b.engine.metrics
	switch {
	case out.err == nil:
		b.scope.Add(out.id)
		b.produced.Add(out.id)
		metrics.RecordSubtask(out.task.Type, out.outcome)
		if out.outcome == ports.OutcomeReused {
			b.engine.log.Debug(fmt.Sprintf("reusing %s for %s", out.id, out.task.Type))
		}
		return false
	case errors.Is(out.err, domain.ErrUnresolvedImport):
		metrics.RecordSubtask(out.task.Type, ports.OutcomeDeferred)
		*reasons = append(*reasons, fmt.Sprintf("round %d: %s: %v", round, out.task.Type, out.err))
		b.engine.log.Debug(fmt.Sprintf("deferring %s: %v", out.task.Type, out.err))
		return true
	default:
		metrics.RecordSubtask(out.task.Type, ports.OutcomeFailed)
		return false
	}
}

// lookup finds a compatible prior execution of sub. It returns an empty id
// when sub has to be executed. Nested batches are never memoized.
//
// A candidate must be loosely compatible with cfg and must have bound its
// imports to the contexts a new execution would bind now. A candidate built
// on a since replaced upstream context is never reused.
func (b *batch) lookup(ctx context.Context, cfg domain.Configuration, sub *domain.Task) outcome {
	out := outcome{task: sub, outcome: ports.OutcomeReused}
	if sub.Kind == domain.KindBatch {
		return out
	}

	store := b.factory.Storage()
	candidates, err := store.GetContexts(sub.Type, sub.Discriminators().Constraints())
	if err != nil {
		out.err = err
		return out
	}

	compat := domain.ConfigurationConstraints(cfg)
	var bound map[string]string
	var latest *domain.ContextMetadata
	for _, meta := range candidates {
		d, err := store.Discriminators(meta.ID)
		if err != nil {
			out.err = err
			return out
		}
		if !d.Match(compat, false) {
			continue
		}
		if bound == nil {
			if bound, err = b.bindings(ctx, cfg, sub); err != nil {
				out.err = err
				return out
			}
		}
		if !maps.Equal(bound, meta.Imports) {
			b.engine.log.Debug(fmt.Sprintf("not reusing %s for %s: its imports are outdated", meta.ID, sub.Type))
			continue
		}
		if b.scope.Contains(meta.ID) {
			out.id = meta.ID
			return out
		}
		if latest == nil {
			latest = meta
		}
	}
	if latest == nil {
		return out
	}

	switch b.policy {
	case domain.PolicyRunAgain:
		return out
	case domain.PolicyAskExisting:
		if b.engine.confirmer == nil {
			out.id = latest.ID
			return out
		}
		rerun, err := b.engine.confirmer.ConfirmRerun(ctx, sub, latest)
		if err != nil {
			out.err = err
			return out
		}
		if !rerun {
			out.id = latest.ID
		}
		return out
	default:
		out.id = latest.ID
		return out
	}
}

// bindings resolves the imports of sub the way a new execution in cfg
// would record them.
func (b *batch) bindings(ctx context.Context, cfg domain.Configuration, sub *domain.Task) (map[string]string, error) {
	factory := b.factory.Scoped(b.scope.Items(), cfg)
	bound := make(map[string]string, len(sub.Imports))
	for _, name := range sub.ImportNames() {
		uri := sub.Imports[name]
		parsed, err := domain.ParseImportURI(uri)
		if err != nil {
			return nil, zerr.With(err, "import", name)
		}
		if parsed.Kind == domain.ImportExternal {
			bound[name] = uri
			continue
		}
		key, err := factory.Resolve(ctx, uri)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "import", name), "type", sub.Type)
		}
		bound[name] = domain.ByIDURI(key.ContextID, key.Key)
	}
	return bound, nil
}

func sameTasks(a, b []*domain.Task) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[*domain.Task]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

func unfulfillable(batch *domain.Task, stuck []*domain.Task, reasons []string) error {
	types := make([]string, 0, len(stuck))
	for _, t := range stuck {
		types = append(types, t.Type)
	}
	msg := fmt.Sprintf("subtasks %s of %s never resolved their imports:\n  %s",
		strings.Join(types, ", "), batch.Type, strings.Join(reasons, "\n  "))
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrUnfulfillablePrerequisite, msg), "batch", batch.Type), "reasons", reasons)
}
