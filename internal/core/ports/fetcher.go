package ports

import "context"

// Fetcher materializes external imports.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch copies the resource at uri to the filesystem path dst.
	Fetch(ctx context.Context, uri, dst string) error
}
