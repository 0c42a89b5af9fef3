package metrics

import (
	"time"

	"go.trai.ch/sweep/internal/core/ports"
)

// NoOp discards every measurement.
type NoOp struct{}

// NewNoOp creates a NoOp recorder.
func NewNoOp() NoOp { return NoOp{} }

// RecordSubtask does nothing.
func (NoOp) RecordSubtask(string, ports.Outcome) {}

// ObserveExecution does nothing.
func (NoOp) ObserveExecution(string, time.Duration) {}

// RecordRound does nothing.
func (NoOp) RecordRound(string, int) {}
