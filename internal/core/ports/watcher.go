package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// FileWatcher reports changes to a file.
type FileWatcher interface {
	// Watch blocks until ctx is done, calling onChange after each burst of
	// changes to path.
	Watch(ctx context.Context, path string, onChange func()) error
}
