package storage_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/storage"
	"go.trai.ch/sweep/internal/core/domain"
)

func newStore(t *testing.T, opts ...storage.Option) *storage.FileStore {
	t.Helper()
	s, err := storage.NewFileStore(t.TempDir(), opts...)
	require.NoError(t, err)
	return s
}

func storeString(t *testing.T, s interface {
	StoreBinary(ctx context.Context, id, key string, r io.Reader) error
}, id, key, content string,
) {
	t.Helper()
	require.NoError(t, s.StoreBinary(context.Background(), id, key, strings.NewReader(content)))
}

func retrieveString(t *testing.T, s *storage.FileStore, id, key string) string {
	t.Helper()
	rc, err := s.RetrieveBinary(context.Background(), id, key)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func commit(t *testing.T, s interface {
	StoreBinary(ctx context.Context, id, key string, r io.Reader) error
}, meta domain.ContextMetadata, d domain.Discriminators,
) {
	t.Helper()
	dd, err := json.Marshal(d)
	require.NoError(t, err)
	require.NoError(t, s.StoreBinary(context.Background(), meta.ID, domain.DiscriminatorsKey, bytes.NewReader(dd)))
	md, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, s.StoreBinary(context.Background(), meta.ID, domain.MetadataKey, bytes.NewReader(md)))
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	payload := strings.Repeat("sweep ", 1000)

	for _, key := range []string{"out/result.txt", "out/result.txt.gz", "out/result.txt.zst"} {
		t.Run(key, func(t *testing.T) {
			t.Parallel()
			s := newStore(t)

			storeString(t, s, "train-1", key, payload)
			assert.True(t, s.ContainsKey("train-1", key))
			assert.Equal(t, payload, retrieveString(t, s, "train-1", key))

			p, err := s.Locate("train-1", key)
			require.NoError(t, err)
			raw, err := os.ReadFile(p)
			require.NoError(t, err)
			if strings.HasSuffix(key, ".txt") {
				assert.Equal(t, payload, string(raw))
			} else {
				assert.Less(t, len(raw), len(payload), "stored bytes are compressed")
			}
		})
	}
}

func TestFileStore_WriteLeavesNoTemporaryArtifacts(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	storeString(t, s, "a-1", "data.bin", "x")
	entries, err := os.ReadDir(filepath.Join(s.Root(), "a-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.bin", entries[0].Name())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, assert.AnError }

func TestFileStore_FailedWriteRemovesTemporary(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	err := s.StoreBinary(context.Background(), "a-1", "data.bin", failingReader{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreWriteFailed.Error())

	entries, err := os.ReadDir(filepath.Join(s.Root(), "a-1"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, s.ContainsKey("a-1", "data.bin"))
}

func TestFileStore_InvalidKeys(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	for _, key := range []string{"", "/abs", "../escape", "a/../../b", "a//b", "x.tmp-1"} {
		_, err := s.Locate("a-1", key)
		require.ErrorIs(t, err, domain.ErrInvalidKey, key)
	}
	_, err := s.Locate("../up", "k")
	require.ErrorIs(t, err, domain.ErrInvalidKey)
}

func TestFileStore_CrashedWriteIsAbsent(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s := newStore(t, storage.WithReadRetry(3, 10*time.Millisecond))

		dir := filepath.Join(s.Root(), "a-1")
		require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "data.bin"+domain.TempMarker+"123"), []byte("partial"), domain.FilePerm))

		assert.False(t, s.ContainsKey("a-1", "data.bin"))
		_, err := s.RetrieveBinary(context.Background(), "a-1", "data.bin")
		require.ErrorIs(t, err, domain.ErrKeyNotFound)

		ids, err := s.ContextIDs()
		require.NoError(t, err)
		assert.Equal(t, []string{"a-1"}, ids)
		assert.False(t, s.ContainsContext("a-1"))
	})
}

func TestFileStore_ReadRetriesWhileWriteInFlight(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s := newStore(t, storage.WithReadRetry(5, 10*time.Millisecond))

		dir := filepath.Join(s.Root(), "a-1")
		require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
		tmp := filepath.Join(dir, "data.bin"+domain.TempMarker+"xyz")
		require.NoError(t, os.WriteFile(tmp, []byte("done"), domain.FilePerm))

		go func() {
			time.Sleep(15 * time.Millisecond)
			_ = os.Rename(tmp, filepath.Join(dir, "data.bin"))
		}()

		start := time.Now()
		rc, err := s.RetrieveBinary(context.Background(), "a-1", "data.bin")
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "done", string(data))
		assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	})
}

func TestFileStore_MissingKeyFailsImmediately(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s := newStore(t, storage.WithReadRetry(5, time.Second))
		start := time.Now()
		_, err := s.RetrieveBinary(context.Background(), "a-1", "nothing")
		require.ErrorIs(t, err, domain.ErrKeyNotFound)
		assert.Zero(t, time.Since(start))
	})
}

func TestFileStore_Contexts(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commit(t, s, domain.ContextMetadata{ID: "train-1", Type: "train", End: base}, domain.Discriminators{"train|rate": "0.1"})
	commit(t, s, domain.ContextMetadata{ID: "train-2", Type: "train", End: base.Add(time.Hour)}, domain.Discriminators{"train|rate": "0.2"})
	commit(t, s, domain.ContextMetadata{ID: "train-3", Type: "train", End: base.Add(2 * time.Hour)}, domain.Discriminators{"train|rate": "0.1"})
	commit(t, s, domain.ContextMetadata{ID: "prep-1", Type: "prep", End: base}, domain.Discriminators{})
	storeString(t, s, "train-4", domain.DiscriminatorsKey, `{"train|rate":"0.1"}`)

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()
		metas, err := s.GetContexts("train", nil)
		require.NoError(t, err)
		require.Len(t, metas, 3)
		assert.Equal(t, "train-3", metas[0].ID)
		assert.Equal(t, "train-2", metas[1].ID)
		assert.Equal(t, "train-1", metas[2].ID)
	})

	t.Run("strict constraints", func(t *testing.T) {
		t.Parallel()
		c, err := domain.NewConstraint("rate", `0\.1`)
		require.NoError(t, err)
		latest, err := s.GetLatestContext("train", []domain.Constraint{c})
		require.NoError(t, err)
		assert.Equal(t, "train-3", latest.ID)

		missing, err := domain.NewConstraint("epochs", ".*")
		require.NoError(t, err)
		_, err = s.GetLatestContext("train", []domain.Constraint{missing})
		require.ErrorIs(t, err, domain.ErrContextNotFound)
	})

	t.Run("owner qualified constraints", func(t *testing.T) {
		t.Parallel()
		cs, err := domain.ParseConstraints("train%7Crate=0.2")
		require.NoError(t, err)
		latest, err := s.GetLatestContext("train", cs)
		require.NoError(t, err)
		assert.Equal(t, "train-2", latest.ID)

		cs, err = domain.ParseConstraints("prep%7Crate=0.2")
		require.NoError(t, err)
		_, err = s.GetLatestContext("train", cs)
		require.ErrorIs(t, err, domain.ErrContextNotFound)
	})

	t.Run("incomplete contexts are invisible", func(t *testing.T) {
		t.Parallel()
		_, err := s.GetContext("train-4")
		require.ErrorIs(t, err, domain.ErrContextNotFound)
		assert.False(t, s.ContainsContext("train-4"))
	})
}

func TestFileStore_Delete(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	storeString(t, s, "a-1", "x/y.txt", "1")
	storeString(t, s, "a-1", "z.txt", "2")

	require.NoError(t, s.DeleteKey("a-1", "x"))
	assert.False(t, s.ContainsKey("a-1", "x/y.txt"))
	assert.True(t, s.ContainsKey("a-1", "z.txt"))

	require.NoError(t, s.DeleteContext("a-1"))
	ids, err := s.ContextIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_Lock(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	a, err := storage.NewFileStore(root)
	require.NoError(t, err)
	b, err := storage.NewFileStore(root)
	require.NoError(t, err)

	require.NoError(t, a.Lock())
	require.ErrorIs(t, b.Lock(), domain.ErrStoreLockFailed)
	require.NoError(t, a.Unlock())
	require.NoError(t, b.Lock())
	require.NoError(t, b.Unlock())
}
