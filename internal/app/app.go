// Package app implements the application layer for sweep.
package app

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/sweep/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Locker guards the storage root against concurrent runs.
type Locker interface {
	Lock() error
	Unlock() error
}

// Engine exposes the defaults of the batch engine that a run may override.
type Engine interface {
	SetPolicy(p domain.ExecutionPolicy)
	SetWorkers(n int)
}

// MetricsWriter persists the metrics collected during a run.
type MetricsWriter interface {
	WriteTextfile(path string) error
}

// App represents the main application logic.
type App struct {
	loader  ports.ExperimentLoader
	runner  scheduler.Runner
	engine  Engine
	factory ports.ContextFactory
	store   ports.StorageService
	locker  Locker
	metrics MetricsWriter
	logger  ports.Logger
	watcher ports.FileWatcher

	metricsPath string
}

// New creates a new App instance.
func New(
	loader ports.ExperimentLoader,
	runner scheduler.Runner,
	engine Engine,
	factory ports.ContextFactory,
	locker Locker,
	metrics MetricsWriter,
	log ports.Logger,
) *App {
	return &App{
		loader:  loader,
		runner:  runner,
		engine:  engine,
		factory: factory,
		store:   factory.Storage(),
		locker:  locker,
		metrics: metrics,
		logger:  log,
	}
}

// WithMetricsPath sets the textfile metrics are written to when a run does not choose one.
func (a *App) WithMetricsPath(path string) *App {
	a.metricsPath = path
	return a
}

// WithWatcher sets the watcher used by Watch.
func (a *App) WithWatcher(w ports.FileWatcher) *App {
	a.watcher = w
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Policy is the default for batches that do not choose one.
	Policy domain.ExecutionPolicy
	// Workers is the pool size for batches that do not choose one.
	Workers int
	// MetricsPath is the Prometheus textfile written after the run.
	MetricsPath string
}

// Run loads the experiment at path and executes its root task.
// It returns the id of the root context.
func (a *App) Run(ctx context.Context, path string, opts RunOptions) (string, error) {
	task, err := a.loader.Load(path)
	if err != nil {
		return "", zerr.Wrap(err, "failed to load experiment")
	}

	a.engine.SetPolicy(opts.Policy)
	a.engine.SetWorkers(opts.Workers)

	if err := a.locker.Lock(); err != nil {
		return "", err
	}
	defer func() {
		if err := a.locker.Unlock(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to release storage lock: %v", err))
		}
	}()

	id, runErr := a.runner.Run(ctx, task, a.factory)
	if runErr == nil {
		a.logger.Info(fmt.Sprintf("%s completed as %s", task.Type, id))
	}

	metricsPath := cmp.Or(opts.MetricsPath, a.metricsPath)
	if metricsPath != "" {
		if err := a.metrics.WriteTextfile(metricsPath); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to write metrics to %s: %v", metricsPath, err))
		}
	}

	if runErr != nil {
		return "", zerr.With(zerr.Wrap(runErr, "experiment failed"), "type", task.Type)
	}
	return id, nil
}

// Watch runs the experiment at path, then runs it again every time the file
// changes until ctx is done. Every outcome is passed to report.
func (a *App) Watch(ctx context.Context, path string, opts RunOptions, report func(id string, err error)) error {
	if a.watcher == nil {
		return zerr.New("watch mode is not available")
	}

	report(a.Run(ctx, path, opts))
	return a.watcher.Watch(ctx, path, func() {
		a.logger.Info(fmt.Sprintf("%s changed, running again", path))
		report(a.Run(ctx, path, opts))
	})
}

// ListOptions configuration for the List method.
type ListOptions struct {
	// Type restricts the listing to one task type.
	Type string
	// All includes contexts without a commit marker.
	All bool
}

// ContextSummary describes one stored context.
type ContextSummary struct {
	ID             string
	Type           string
	Complete       bool
	Metadata       *domain.ContextMetadata
	Discriminators domain.Discriminators
}

// List returns the stored contexts, most recently completed first.
// Incomplete contexts come last.
func (a *App) List(_ context.Context, opts ListOptions) ([]ContextSummary, error) {
	ids, err := a.store.ContextIDs()
	if err != nil {
		return nil, err
	}

	out := make([]ContextSummary, 0, len(ids))
	for _, id := range ids {
		if !a.store.ContainsContext(id) {
			if opts.All && opts.Type == "" {
				out = append(out, ContextSummary{ID: id})
			}
			continue
		}
		meta, err := a.store.GetContext(id)
		if err != nil {
			return nil, err
		}
		if opts.Type != "" && meta.Type != opts.Type {
			continue
		}
		d, err := a.store.Discriminators(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ContextSummary{ID: id, Type: meta.Type, Complete: true, Metadata: meta, Discriminators: d})
	}

	slices.SortStableFunc(out, func(x, y ContextSummary) int {
		if x.Complete != y.Complete {
			if x.Complete {
				return -1
			}
			return 1
		}
		if !x.Complete {
			return cmp.Compare(x.ID, y.ID)
		}
		if c := y.Metadata.End.Compare(x.Metadata.End); c != 0 {
			return c
		}
		return cmp.Compare(y.ID, x.ID)
	})
	return out, nil
}

// ContextDetails is everything recorded for a completed context.
type ContextDetails struct {
	Metadata       *domain.ContextMetadata
	Discriminators domain.Discriminators
	Attributes     map[string]string
	Subtasks       []string
}

// Show returns the details of the completed context id.
func (a *App) Show(ctx context.Context, id string) (*ContextDetails, error) {
	meta, err := a.store.GetContext(id)
	if err != nil {
		return nil, err
	}
	d, err := a.store.Discriminators(id)
	if err != nil {
		return nil, err
	}

	attrs := map[string]string{}
	rc, err := a.store.RetrieveBinary(ctx, id, domain.AttributesKey)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
	case err != nil:
		return nil, err
	default:
		defer func() { _ = rc.Close() }()
		if err := json.NewDecoder(rc).Decode(&attrs); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "id", id)
		}
	}

	return &ContextDetails{
		Metadata:       meta,
		Discriminators: d,
		Attributes:     attrs,
		Subtasks:       domain.ParseSubtasks(attrs),
	}, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All removes completed contexts too.
	All bool
}

// Clean removes contexts without a commit marker, or every context with All.
// It returns the removed ids.
func (a *App) Clean(_ context.Context, opts CleanOptions) ([]string, error) {
	if err := a.locker.Lock(); err != nil {
		return nil, err
	}
	defer func() {
		if err := a.locker.Unlock(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to release storage lock: %v", err))
		}
	}()

	ids, err := a.store.ContextIDs()
	if err != nil {
		return nil, err
	}

	var removed []string
	var errs error
	for _, id := range ids {
		if !opts.All && a.store.ContainsContext(id) {
			continue
		}
		if err := a.store.DeleteContext(id); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		a.logger.Debug(fmt.Sprintf("removed %s", id))
		removed = append(removed, id)
	}
	return removed, errs
}
