package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/metrics"
	"go.trai.ch/sweep/internal/adapters/storage"
	"go.trai.ch/sweep/internal/app"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/sweep/internal/core/ports/mocks"
	"go.trai.ch/sweep/internal/engine/taskctx"
	"go.uber.org/mock/gomock"
)

type fakeRunner struct {
	id    string
	err   error
	calls int
	task  *domain.Task
}

func (r *fakeRunner) Run(_ context.Context, task *domain.Task, _ ports.ContextFactory) (string, error) {
	r.calls++
	r.task = task
	return r.id, r.err
}

type fakeEngine struct {
	policy  domain.ExecutionPolicy
	workers int
}

func (e *fakeEngine) SetPolicy(p domain.ExecutionPolicy) { e.policy = p }
func (e *fakeEngine) SetWorkers(n int) { e.workers = n }

type fixture struct {
	store  *storage.FileStore
	loader *mocks.MockExperimentLoader
	runner *fakeRunner
	engine *fakeEngine
	prom   *metrics.Prometheus
	app    *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	f := &fixture{
		store:  s,
		loader: mocks.NewMockExperimentLoader(ctrl),
		runner: &fakeRunner{id: "exp-1"},
		engine: &fakeEngine{},
		prom:   metrics.NewPrometheus(),
	}
	f.app = app.New(f.loader, f.runner, f.engine, taskctx.NewFactory(s, nil), s, f.prom, log)
	return f
}

func seed(t *testing.T, s *storage.FileStore, id, taskType string, end time.Time, attrs map[string]string) {
	t.Helper()
	ctx := context.Background()
	write := func(key string, v any) {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, s.StoreBinary(ctx, id, key, bytes.NewReader(data)))
	}
	write(domain.DiscriminatorsKey, domain.Discriminators{taskType + "|size": "10"})
	if attrs != nil {
		write(domain.AttributesKey, attrs)
	}
	write(domain.MetadataKey, domain.ContextMetadata{ID: id, Type: taskType, Start: end.Add(-time.Second), End: end})
}

func TestApp_Run(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	task := &domain.Task{Type: "exp", Kind: domain.KindBatch}
	f.loader.EXPECT().Load("experiment.yaml").Return(task, nil)

	metricsPath := filepath.Join(t.TempDir(), "sweep.prom")
	id, err := f.app.Run(context.Background(), "experiment.yaml", app.RunOptions{
		Policy:      domain.PolicyRunAgain,
		Workers:     4,
		MetricsPath: metricsPath,
	})
	require.NoError(t, err)
	assert.Equal(t, "exp-1", id)
	assert.Same(t, task, f.runner.task)
	assert.Equal(t, domain.PolicyRunAgain, f.engine.policy)
	assert.Equal(t, 4, f.engine.workers)

	_, err = os.Stat(metricsPath)
	require.NoError(t, err)

	require.NoError(t, f.store.Lock(), "the lock is released after a run")
	require.NoError(t, f.store.Unlock())
}

func TestApp_Run_DefaultMetricsPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(&domain.Task{Type: "exp", Kind: domain.KindBatch}, nil)

	metricsPath := filepath.Join(t.TempDir(), "default.prom")
	f.app.WithMetricsPath(metricsPath)

	_, err := f.app.Run(context.Background(), "experiment.yaml", app.RunOptions{})
	require.NoError(t, err)
	_, err = os.Stat(metricsPath)
	require.NoError(t, err)
}

func TestApp_Run_LoadError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.loader.EXPECT().Load("broken.yaml").Return(nil, domain.ErrConfigParseFailed)

	_, err := f.app.Run(context.Background(), "broken.yaml", app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	assert.Zero(t, f.runner.calls)
}

func TestApp_Run_Locked(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(&domain.Task{Type: "exp", Kind: domain.KindBatch}, nil)

	other, err := storage.NewFileStore(f.store.Root())
	require.NoError(t, err)
	require.NoError(t, other.Lock())
	t.Cleanup(func() { _ = other.Unlock() })

	_, err = f.app.Run(context.Background(), "experiment.yaml", app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrStoreLockFailed)
	assert.Zero(t, f.runner.calls)
}

func TestApp_Run_Failure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(&domain.Task{Type: "exp", Kind: domain.KindBatch}, nil)
	f.runner.err = domain.ErrUnfulfillablePrerequisite

	metricsPath := filepath.Join(t.TempDir(), "sweep.prom")
	id, err := f.app.Run(context.Background(), "experiment.yaml", app.RunOptions{MetricsPath: metricsPath})
	require.ErrorIs(t, err, domain.ErrUnfulfillablePrerequisite)
	assert.ErrorContains(t, err, "experiment failed")
	assert.Empty(t, id)

	_, statErr := os.Stat(metricsPath)
	require.NoError(t, statErr, "metrics are written for failed runs too")
}

func TestApp_List(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	seed(t, f.store, "prep-1", "prep", now.Add(-time.Hour), nil)
	seed(t, f.store, "train-1", "train", now, nil)
	seed(t, f.store, "train-2", "train", now.Add(-time.Minute), nil)
	require.NoError(t, f.store.StoreBinary(ctx, "train-3", "partial.txt", strings.NewReader("x")))

	all, err := f.app.List(ctx, app.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"train-1", "train-2", "prep-1"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, domain.Discriminators{"train|size": "10"}, all[0].Discriminators)

	trains, err := f.app.List(ctx, app.ListOptions{Type: "train"})
	require.NoError(t, err)
	require.Len(t, trains, 2)

	withIncomplete, err := f.app.List(ctx, app.ListOptions{All: true})
	require.NoError(t, err)
	require.Len(t, withIncomplete, 4)
	last := withIncomplete[3]
	assert.Equal(t, "train-3", last.ID)
	assert.False(t, last.Complete)
	assert.Nil(t, last.Metadata)
}

func TestApp_Show(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	seed(t, f.store, "exp-1", "exp", time.Now(), map[string]string{
		"note":                   "baseline",
		domain.SubtasksAttribute: "prep-1,train-1",
	})

	details, err := f.app.Show(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, "exp", details.Metadata.Type)
	assert.Equal(t, "baseline", details.Attributes["note"])
	assert.Equal(t, []string{"prep-1", "train-1"}, details.Subtasks)
	assert.Equal(t, domain.Discriminators{"exp|size": "10"}, details.Discriminators)

	seed(t, f.store, "bare-1", "bare", time.Now(), nil)
	bare, err := f.app.Show(ctx, "bare-1")
	require.NoError(t, err)
	assert.Empty(t, bare.Attributes)

	_, err = f.app.Show(ctx, "missing-1")
	require.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestApp_Clean(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	seed(t, f.store, "prep-1", "prep", time.Now(), nil)
	require.NoError(t, f.store.StoreBinary(ctx, "train-9", "partial.txt", strings.NewReader("x")))

	removed, err := f.app.Clean(ctx, app.CleanOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"train-9"}, removed)
	assert.True(t, f.store.ContainsContext("prep-1"))

	removed, err = f.app.Clean(ctx, app.CleanOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"prep-1"}, removed)

	ids, err := f.store.ContextIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestApp_Watch(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	f := newFixture(t)

	w := mocks.NewMockFileWatcher(ctrl)
	w.EXPECT().Watch(gomock.Any(), "experiment.yaml", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, onChange func()) error {
			onChange()
			onChange()
			return nil
		})
	f.app.WithWatcher(w)

	f.loader.EXPECT().Load("experiment.yaml").Return(&domain.Task{Type: "exp", Kind: domain.KindBatch}, nil).Times(2)
	f.loader.EXPECT().Load("experiment.yaml").Return(nil, domain.ErrConfigParseFailed)

	var ids []string
	var errs []error
	err := f.app.Watch(context.Background(), "experiment.yaml", app.RunOptions{}, func(id string, err error) {
		ids = append(ids, id)
		errs = append(errs, err)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"exp-1", "exp-1", ""}, ids)
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.ErrorIs(t, errs[2], domain.ErrConfigParseFailed)
}

func TestApp_Watch_Unavailable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.app.Watch(context.Background(), "experiment.yaml", app.RunOptions{}, func(string, error) {})
	require.Error(t, err)
}
