package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/core/domain"
)

func TestParseImportURI(t *testing.T) {
	t.Parallel()

	t.Run("by id", func(t *testing.T) {
		t.Parallel()
		u, err := domain.ParseImportURI("by-id://prep-2abc/data/train.csv")
		require.NoError(t, err)
		assert.Equal(t, domain.ImportByID, u.Kind)
		assert.Equal(t, "prep-2abc", u.Target)
		assert.Equal(t, "data/train.csv", u.Key)
	})

	t.Run("by type latest with constraints", func(t *testing.T) {
		t.Parallel()
		u, err := domain.ParseImportURI("by-type-latest://my_prep/data?size=10&prep%7Cseed=7")
		require.NoError(t, err)
		assert.Equal(t, domain.ImportByTypeLatest, u.Kind)
		assert.Equal(t, "my_prep", u.Target)
		assert.Equal(t, "data", u.Key)
		require.Len(t, u.Constraints, 2)

		d := domain.Discriminators{"my_prep|size": "10", "prep|seed": "7"}
		assert.True(t, d.Match(u.Constraints, true))
	})

	t.Run("external", func(t *testing.T) {
		t.Parallel()
		u, err := domain.ParseImportURI("https://example.com/data.csv")
		require.NoError(t, err)
		assert.Equal(t, domain.ImportExternal, u.Kind)
		assert.Equal(t, "https://example.com/data.csv", u.Raw)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"", "no-scheme", "by-id://only-id", "by-id:///key", "by-id://x/k?a=b"} {
			_, err := domain.ParseImportURI(raw)
			require.ErrorIs(t, err, domain.ErrInvalidImportURI, raw)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		u, err := domain.ParseImportURI(domain.ByIDURI("a-1", "out/model.bin"))
		require.NoError(t, err)
		assert.Equal(t, "a-1", u.Target)
		assert.Equal(t, "out/model.bin", u.Key)
	})
}

func TestTask_ConfigureAndDiscriminators(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		Type: "train",
		Kind: "noop",
		Params: []domain.Param{
			{Name: "rate", Discriminator: true},
			{Name: "epochs", Discriminator: true, Default: 5},
			{Name: "verbose", Default: false},
		},
	}
	require.NoError(t, task.Validate())

	task.Configure(domain.Configuration{"rate": 0.1, "unrelated": "x"})

	assert.Equal(t, domain.Discriminators{"train|rate": "0.1", "train|epochs": "5"}, task.Discriminators())
	assert.Equal(t, map[string]string{"verbose": "false"}, task.Attributes())
	assert.Equal(t, domain.Configuration{"rate": 0.1, "unrelated": "x"}, task.Configuration())

	task.SetSubtasks([]string{"a-1", "b-2"})
	assert.Equal(t, []string{"a-1", "b-2"}, domain.ParseSubtasks(task.Attributes()))

	task.Configure(domain.Configuration{"rate": 0.2, "epochs": 9})
	assert.Equal(t, domain.Discriminators{"train|rate": "0.2", "train|epochs": "9"}, task.Discriminators())
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		task domain.Task
		want error
	}{
		{"bad type", domain.Task{Type: "a b", Kind: "x"}, domain.ErrInvalidTaskType},
		{"duplicate param", domain.Task{Type: "a", Kind: "x", Params: []domain.Param{{Name: "p"}, {Name: "p"}}}, domain.ErrDuplicateParam},
		{"reserved import", domain.Task{Type: "a", Kind: "x", Imports: map[string]string{domain.MetadataKey: "by-id://x/y"}}, domain.ErrReservedKey},
		{"bad import", domain.Task{Type: "a", Kind: "x", Imports: map[string]string{"in": "by-id://"}}, domain.ErrInvalidImportURI},
		{"shell without command", domain.Task{Type: "a", Kind: domain.KindShell}, domain.ErrInvalidTask},
		{"undeclared writable", domain.Task{Type: "a", Kind: "x", Imports: map[string]string{"in": "by-id://x/y"}, Writable: []string{"out"}}, domain.ErrInvalidTask},
		{"nested failure", domain.Task{Type: "a", Kind: domain.KindBatch, Subtasks: []*domain.Task{{Type: "?", Kind: "x"}}}, domain.ErrInvalidTaskType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.task.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestTask_ImportMode(t *testing.T) {
	t.Parallel()

	task := domain.Task{
		Type:     "a",
		Kind:     "x",
		Imports:  map[string]string{"data": "by-id://x/data", "model": "by-id://x/model"},
		Writable: []string{"model"},
	}
	require.NoError(t, task.Validate())
	assert.Equal(t, domain.ReadOnly, task.ImportMode("data"))
	assert.Equal(t, domain.ReadWrite, task.ImportMode("model"))
}

func TestTask_Hooks(t *testing.T) {
	t.Parallel()

	var calls []string
	task := &domain.Task{
		Type: "a",
		Kind: "x",
		Hooks: domain.Hooks{
			Setup: func(context.Context, *domain.Task) error {
				calls = append(calls, "setup")
				return nil
			},
			Teardown: func(context.Context, *domain.Task) error {
				calls = append(calls, "teardown")
				return errors.New("teardown broke")
			},
		},
	}

	ctx := context.Background()
	require.NoError(t, task.Initialize(ctx))
	assert.True(t, task.Initialized())
	require.ErrorIs(t, task.Initialize(ctx), domain.ErrAlreadyInitialized)

	err := task.Destroy(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "teardown broke")
	assert.False(t, task.Initialized())
	assert.Equal(t, []string{"setup", "teardown"}, calls)
}

func TestState_Transition(t *testing.T) {
	t.Parallel()

	path := []domain.State{
		domain.StateConfigured,
		domain.StateInitialized,
		domain.StateRunning,
		domain.StateCompleted,
		domain.StateDestroyed,
	}
	s := domain.StateCreated
	for _, next := range path {
		var err error
		s, err = s.Transition(next)
		require.NoError(t, err)
	}

	_, err := domain.StateDestroyed.Transition(domain.StateDestroyed)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = domain.StateCreated.Transition(domain.StateRunning)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = domain.StateCompleted.Transition(domain.StateFailed)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	assert.True(t, domain.StateInitialized.CanTransition(domain.StateFailed))
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]domain.ExecutionPolicy{
		"":             domain.PolicyInherit,
		"use-existing": domain.PolicyUseExisting,
		"RUN_AGAIN":    domain.PolicyRunAgain,
		"ask-existing": domain.PolicyAskExisting,
	} {
		got, err := domain.ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParsePolicy("sometimes")
	require.ErrorIs(t, err, domain.ErrInvalidPolicy)

	assert.Equal(t, domain.PolicyRunAgain, domain.PolicyInherit.Or(domain.PolicyRunAgain))
	assert.Equal(t, domain.PolicyUseExisting, domain.PolicyUseExisting.Or(domain.PolicyRunAgain))
}
