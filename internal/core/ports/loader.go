package ports

import "go.trai.ch/sweep/internal/core/domain"

// ExperimentLoader loads the root task of an experiment.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type ExperimentLoader interface {
	// Load reads the experiment at path.
	Load(path string) (*domain.Task, error)
}
