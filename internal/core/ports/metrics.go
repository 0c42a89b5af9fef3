package ports

import "time"

// Outcome classifies how a scheduled subtask was handled.
type Outcome string

const (
	// OutcomeExecuted means the subtask ran and completed.
	OutcomeExecuted Outcome = "executed"
	// OutcomeReused means a compatible prior execution was reused.
	OutcomeReused Outcome = "reused"
	// OutcomeDeferred means an import was not resolvable yet.
	OutcomeDeferred Outcome = "deferred"
	// OutcomeFailed means the subtask failed.
	OutcomeFailed Outcome = "failed"
)

// Metrics records scheduler activity.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// RecordSubtask counts one scheduling decision for a task type.
	RecordSubtask(taskType string, outcome Outcome)
	// ObserveExecution records the wall-clock duration of one execution.
	ObserveExecution(taskType string, elapsed time.Duration)
	// RecordRound counts one scheduling round of a batch.
	RecordRound(batchType string, pending int)
}
