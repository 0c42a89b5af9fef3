package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/watcher"
	"go.trai.ch/sweep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_Watch(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	path := filepath.Join(dir, "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: exp\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	w := watcher.NewWatcher(20*time.Millisecond, log)
	go func() {
		done <- w.Watch(ctx, path, func() { changed <- struct{}{} })
	}()

	// Unrelated files in the same directory are ignored.
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(path, []byte("type: exp2\n"), 0o600))
		select {
		case <-changed:
			cancel()
			require.NoError(t, <-done)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestWatcher_Watch_MissingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w := watcher.NewWatcher(time.Millisecond, log)
	err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "experiment.yaml"), func() {})
	require.Error(t, err)
}
