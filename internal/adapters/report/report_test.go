package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/report"
	"go.trai.ch/sweep/internal/adapters/storage"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/engine/taskctx"
)

func seed(t *testing.T, s *storage.FileStore, id, taskType string, d domain.Discriminators) {
	t.Helper()
	ctx := context.Background()
	dd, err := json.Marshal(d)
	require.NoError(t, err)
	require.NoError(t, s.StoreBinary(ctx, id, domain.DiscriminatorsKey, bytes.NewReader(dd)))
	md, err := json.Marshal(domain.ContextMetadata{ID: id, Type: taskType, End: time.Now()})
	require.NoError(t, err)
	require.NoError(t, s.StoreBinary(ctx, id, domain.MetadataKey, bytes.NewReader(md)))
}

func readKey(t *testing.T, s *storage.FileStore, id, key string) string {
	t.Helper()
	rc, err := s.RetrieveBinary(context.Background(), id, key)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestAll(t *testing.T) {
	t.Parallel()
	var names []string
	for _, r := range report.All() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{report.SubtaskIndexName, report.DiscriminatorsName}, names)
}

func TestSubtaskIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	seed(t, s, "prep-1", "prep", domain.Discriminators{"prep|size": "10"})
	seed(t, s, "train-1", "train", domain.Discriminators{"prep|size": "10", "train|lr": "0.1"})

	batch := &domain.Task{Type: "sweep", Kind: domain.KindBatch}
	batch.SetSubtasks([]string{"prep-1", "train-1"})
	tc, err := taskctx.NewFactory(s, nil).CreateContext(ctx, batch)
	require.NoError(t, err)

	require.NoError(t, report.SubtaskIndex{}.Execute(ctx, tc, batch))

	var entries []report.SubtaskEntry
	require.NoError(t, json.Unmarshal([]byte(readKey(t, s, tc.ID(), report.SubtaskIndexKey)), &entries))
	assert.Equal(t, []report.SubtaskEntry{
		{ID: "prep-1", Type: "prep", Discriminators: domain.Discriminators{"prep|size": "10"}},
		{ID: "train-1", Type: "train", Discriminators: domain.Discriminators{"prep|size": "10", "train|lr": "0.1"}},
	}, entries)
}

func TestSubtaskIndex_MissingSubtask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	batch := &domain.Task{Type: "sweep", Kind: domain.KindBatch}
	batch.SetSubtasks([]string{"gone-1"})
	tc, err := taskctx.NewFactory(s, nil).CreateContext(ctx, batch)
	require.NoError(t, err)

	require.ErrorIs(t, report.SubtaskIndex{}.Execute(ctx, tc, batch), domain.ErrContextNotFound)
}

func TestDiscriminators(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	task := &domain.Task{
		Type:   "train",
		Kind:   domain.KindShell,
		Params: []domain.Param{{Name: "lr", Discriminator: true}, {Name: "epochs", Discriminator: true}},
	}
	task.Configure(domain.Configuration{"lr": 0.1, "epochs": 3})
	tc, err := taskctx.NewFactory(s, nil).CreateContext(ctx, task)
	require.NoError(t, err)

	require.NoError(t, report.Discriminators{}.Execute(ctx, tc, task))

	got := readKey(t, s, tc.ID(), report.DiscriminatorsKey)
	assert.Equal(t, "train|epochs = 3\ntrain|lr = 0.1\n", got)
	assert.Equal(t, 2, strings.Count(got, "\n"))
}
