package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/storage"
	"go.trai.ch/sweep/internal/core/domain"
)

func TestFileStore_Copy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*storage.FileStore, domain.StorageKey) {
		t.Helper()
		f := newStore(t)
		storeString(t, f, "src-1", "data/a.txt", "a")
		storeString(t, f, "src-1", "data/nested/b.txt", "b")
		return f, domain.StorageKey{ContextID: "src-1", Key: "data"}
	}

	t.Run("read only leaves the target untouched", func(t *testing.T) {
		t.Parallel()
		f, src := setup(t)
		require.NoError(t, f.Copy(ctx, "dst-1", "data", src, domain.ReadOnly))
		_, err := os.Stat(filepath.Join(f.Root(), "dst-1"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("read write folder copies once", func(t *testing.T) {
		t.Parallel()
		f, src := setup(t)
		require.NoError(t, f.Copy(ctx, "dst-1", "data", src, domain.ReadWrite))
		assert.Equal(t, "b", retrieveString(t, f, "dst-1", "data/nested/b.txt"))

		storeString(t, f, "dst-1", "data/a.txt", "changed")
		assert.Equal(t, "a", retrieveString(t, f, "src-1", "data/a.txt"))

		// A second materialization keeps local changes.
		require.NoError(t, f.Copy(ctx, "dst-1", "data", src, domain.ReadWrite))
		assert.Equal(t, "changed", retrieveString(t, f, "dst-1", "data/a.txt"))
	})

	t.Run("add only folder links files", func(t *testing.T) {
		t.Parallel()
		f, src := setup(t)
		require.NoError(t, f.Copy(ctx, "dst-1", "data", src, domain.AddOnly))
		assert.Equal(t, "a", retrieveString(t, f, "dst-1", "data/a.txt"))

		storeString(t, f, "dst-1", "data/new.txt", "n")
		assert.False(t, f.ContainsKey("src-1", "data/new.txt"))
	})

	t.Run("stream copy", func(t *testing.T) {
		t.Parallel()
		f, _ := setup(t)
		src := domain.StorageKey{ContextID: "src-1", Key: "data/a.txt"}
		require.NoError(t, f.Copy(ctx, "dst-1", "in.txt", src, domain.ReadWrite))
		assert.Equal(t, "a", retrieveString(t, f, "dst-1", "in.txt"))
	})

	t.Run("stream copy changes codec", func(t *testing.T) {
		t.Parallel()
		f, _ := setup(t)
		src := domain.StorageKey{ContextID: "src-1", Key: "data/a.txt"}
		require.NoError(t, f.Copy(ctx, "dst-1", "in.txt.zst", src, domain.ReadWrite))
		assert.Equal(t, "a", retrieveString(t, f, "dst-1", "in.txt.zst"))
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()
		f, _ := setup(t)
		err := f.Copy(ctx, "dst-1", "x", domain.StorageKey{ContextID: "src-1", Key: "nope"}, domain.ReadWrite)
		require.ErrorIs(t, err, domain.ErrKeyNotFound)
	})
}
