package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/metrics"
	"go.trai.ch/sweep/internal/adapters/storage"
	"go.trai.ch/sweep/internal/app"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/sweep/internal/core/ports/mocks"
	"go.trai.ch/sweep/internal/engine/taskctx"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type stubRunner struct {
	err error
}

func (r stubRunner) Run(context.Context, *domain.Task, ports.ContextFactory) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "exp-1", nil
}

type stubEngine struct{}

func (stubEngine) SetPolicy(domain.ExecutionPolicy) {}
func (stubEngine) SetWorkers(int) {}

func newProvider(t *testing.T, loader ports.ExperimentLoader, log ports.Logger) ComponentProvider {
	t.Helper()
	return newProviderWith(t, loader, stubRunner{}, log)
}

func newProviderWith(t *testing.T, loader ports.ExperimentLoader, runner stubRunner, log ports.Logger) ComponentProvider {
	t.Helper()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	application := app.New(loader, runner, stubEngine{}, taskctx.NewFactory(s, nil), s, metrics.NewPrometheus(), log)
	return func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := newProvider(t, mocks.NewMockExperimentLoader(ctrl), mocks.NewMockLogger(ctrl))

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockExperimentLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load("exp.yaml").Return(nil, domain.ErrConfigReadFailed)
	log.EXPECT().Error(gomock.Any()).Times(1)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"run", "exp.yaml"}, new(bytes.Buffer), stderr, newProvider(t, loader, log))

	assert.Equal(t, 1, exitCode)
}

// TestRun_AppliesOptions verifies that options are applied to the app before execution.
func TestRun_AppliesOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockExperimentLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load("exp.yaml").Return(&domain.Task{Type: "exp", Kind: domain.KindBatch}, nil)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	metricsPath := filepath.Join(t.TempDir(), "sweep.prom")
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"run", "exp.yaml"}, new(bytes.Buffer), stderr, newProvider(t, loader, log),
		func(a *app.App) { a.WithMetricsPath(metricsPath) })

	assert.Equal(t, 0, exitCode)
	assert.FileExists(t, metricsPath)
}

// TestRun_UnfulfillableExitCode verifies that a deadlocked experiment has its own exit code.
func TestRun_UnfulfillableExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockExperimentLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load("exp.yaml").Return(&domain.Task{Type: "exp", Kind: domain.KindBatch}, nil)
	log.EXPECT().Error(gomock.Any()).Times(1)

	runner := stubRunner{err: zerr.Wrap(domain.ErrUnfulfillablePrerequisite, "imports form a cycle")}
	exitCode := run(context.Background(), []string{"run", "exp.yaml"}, new(bytes.Buffer), new(bytes.Buffer), newProviderWith(t, loader, runner, log))

	assert.Equal(t, exitUnfulfillable, exitCode)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	interrupted, cancel := context.WithCancelCause(context.Background())
	cancel(errInterrupted)

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"success", context.Background(), nil, exitOK},
		{"failure", context.Background(), errors.New("boom"), exitFailure},
		{"unfulfillable", context.Background(), zerr.Wrap(domain.ErrUnfulfillablePrerequisite, "cycle"), exitUnfulfillable},
		{"interrupted", interrupted, context.Canceled, exitInterrupted},
		{"interrupted after success", interrupted, nil, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCode(tt.ctx, tt.err))
		})
	}
}
