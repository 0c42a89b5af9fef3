// Package watcher reports changes to experiment files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultDebounceWindow is how long the experiment file must stay quiet before it is reloaded.
	DefaultDebounceWindow = 200 * time.Millisecond

	// maxWaitWindows caps a burst at this many windows.
	maxWaitWindows = 10
)

var _ ports.FileWatcher = (*Watcher)(nil)

// Watcher implements ports.FileWatcher using fsnotify.
type Watcher struct {
	window time.Duration
	log    ports.Logger
}

// NewWatcher creates a watcher coalescing events within window.
func NewWatcher(window time.Duration, log ports.Logger) *Watcher {
	return &Watcher{window: window, log: log}
}

// Watch calls onChange after every burst of changes to path until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
// onChange runs on the calling goroutine, one call at a time.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve watched path"), "path", path)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fsWatcher.Close() }()

	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", filepath.Dir(abs))
	}

	burst := NewBurst(w.window, maxWaitWindows*w.window)
	defer burst.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				burst.Touch()
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(fmt.Sprintf("watcher: file system error: %v", err))

		case edits := <-burst.C():
			w.log.Debug(fmt.Sprintf("watcher: %s changed (%d edits)", filepath.Base(abs), edits))
			onChange()
		}
	}
}
