// Package lifecycle drives an execution context through its states.
package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Manager runs the life-cycle hooks of a task and persists its bookkeeping keys.
type Manager struct {
	log     ports.Logger
	reports map[string]ports.Report
	now     func() time.Time
}

// NewManager creates a manager that can run the given reports.
func NewManager(log ports.Logger, reports ...ports.Report) *Manager {
	m := &Manager{
		log:     log,
		reports: make(map[string]ports.Report, len(reports)),
		now:     time.Now,
	}
	for _, r := range reports {
		m.reports[r.Name()] = r
	}
	return m
}

// Configure binds cfg onto task.
func (m *Manager) Configure(_ context.Context, tc ports.TaskContext, task *domain.Task, cfg domain.Configuration) error {
	if err := check(tc, domain.StateConfigured); err != nil {
		return err
	}
	task.Configure(cfg)
	tc.SetState(domain.StateConfigured)
	return nil
}

// Initialize runs the setup hook once and persists attributes and resolved discriminators.
func (m *Manager) Initialize(ctx context.Context, tc ports.TaskContext, task *domain.Task) error {
	if err := check(tc, domain.StateInitialized); err != nil {
		return err
	}
	if err := task.Initialize(ctx); err != nil {
		return err
	}

	d, err := tc.ResolvedDiscriminators()
	if err != nil {
		return zerr.With(err, "id", tc.ID())
	}
	if err := storeJSON(ctx, tc, domain.DiscriminatorsKey, d); err != nil {
		return err
	}
	if err := m.Persist(ctx, tc, task); err != nil {
		return err
	}

	tc.SetState(domain.StateInitialized)
	return nil
}

// Begin records the start time.
func (m *Manager) Begin(_ context.Context, tc ports.TaskContext) error {
	if err := check(tc, domain.StateRunning); err != nil {
		return err
	}
	tc.Metadata().Start = m.now()
	tc.SetState(domain.StateRunning)
	return nil
}

// Complete records the end time, runs reports in name order and writes the
// commit marker last. A failed marker write leaves no marker behind.
func (m *Manager) Complete(ctx context.Context, tc ports.TaskContext, task *domain.Task) error {
	if err := check(tc, domain.StateCompleted); err != nil {
		return err
	}
	meta := tc.Metadata()
	meta.End = m.now()

	if err := m.Persist(ctx, tc, task); err != nil {
		return err
	}

	names := slices.Clone(task.Reports)
	slices.Sort(names)
	for _, name := range names {
		r, ok := m.reports[name]
		if !ok {
			return zerr.With(domain.Tag(domain.ErrUnknownReport, "report", name), "id", tc.ID())
		}
		if err := r.Execute(ctx, tc, task); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrReportFailed.Error()), "report", name), "id", tc.ID())
		}
	}

	if err := storeJSON(ctx, tc, domain.MetadataKey, meta); err != nil {
		if delErr := tc.Storage().DeleteKey(tc.ID(), domain.MetadataKey); delErr != nil {
			m.log.Warn(fmt.Sprintf("failed to remove partial commit marker of %s: %v", tc.ID(), delErr))
		}
		return err
	}

	tc.SetState(domain.StateCompleted)
	return nil
}

// Fail deletes everything stored for the context. Cleanup errors are logged only.
func (m *Manager) Fail(_ context.Context, tc ports.TaskContext, cause error) {
	if err := tc.Storage().DeleteContext(tc.ID()); err != nil {
		m.log.Warn(fmt.Sprintf("failed to clean up context %s: %v", tc.ID(), err))
	}
	m.log.Debug(fmt.Sprintf("context %s failed: %v", tc.ID(), cause))
	if tc.State().CanTransition(domain.StateFailed) {
		tc.SetState(domain.StateFailed)
	}
}

// Destroy runs the teardown hook and releases the context.
func (m *Manager) Destroy(ctx context.Context, tc ports.TaskContext, task *domain.Task) error {
	var errs []error
	if err := task.Destroy(ctx); err != nil {
		errs = append(errs, err)
	}
	if task.Initialized() {
		errs = append(errs, domain.Tag(domain.ErrLifecycleViolation, "type", task.Type, "id", tc.ID()))
	}
	tc.Factory().Release(tc.ID())
	tc.SetState(domain.StateDestroyed)
	return errors.Join(errs...)
}

// Persist stores the attributes of task.
func (m *Manager) Persist(ctx context.Context, tc ports.TaskContext, task *domain.Task) error {
	return storeJSON(ctx, tc, domain.AttributesKey, task.Attributes())
}

func check(tc ports.TaskContext, next domain.State) error {
	if _, err := tc.State().Transition(next); err != nil {
		return zerr.With(err, "id", tc.ID())
	}
	return nil
}

func storeJSON(ctx context.Context, tc ports.TaskContext, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "key", key)
	}
	return tc.Storage().StoreBinary(ctx, tc.ID(), key, bytes.NewReader(data))
}
