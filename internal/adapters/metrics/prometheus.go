// Package metrics records scheduler activity with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "sweep"

// Prometheus implements ports.Metrics on a private registry.
type Prometheus struct {
	registry  *prometheus.Registry
	subtasks  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	rounds    *prometheus.CounterVec
	pending   *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		subtasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "subtasks_total",
				Help:      "Scheduling decisions per task type and outcome",
			},
			[]string{"task_type", "outcome"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "execution_duration_seconds",
				Help:      "Wall-clock duration of successful executions",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"task_type"},
		),
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "rounds_total",
				Help:      "Scheduling rounds per batch type",
			},
			[]string{"batch_type"},
		),
		pending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "pending_subtasks",
				Help:      "Subtasks pending at the start of the last round",
			},
			[]string{"batch_type"},
		),
	}
	p.registry.MustRegister(p.subtasks, p.durations, p.rounds, p.pending)
	return p
}

// Registry exposes the registry for gathering.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// RecordSubtask counts one scheduling decision.
func (p *Prometheus) RecordSubtask(taskType string, outcome ports.Outcome) {
	p.subtasks.WithLabelValues(taskType, string(outcome)).Inc()
}

// ObserveExecution records the duration of one execution.
func (p *Prometheus) ObserveExecution(taskType string, elapsed time.Duration) {
	p.durations.WithLabelValues(taskType).Observe(elapsed.Seconds())
}

// RecordRound counts a round and the subtasks pending in it.
func (p *Prometheus) RecordRound(batchType string, pending int) {
	p.rounds.WithLabelValues(batchType).Inc()
	p.pending.WithLabelValues(batchType).Set(float64(pending))
}

// WriteTextfile writes the current values in the text exposition format.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics"), "path", path)
	}
	return nil
}

var _ ports.Metrics = (*Prometheus)(nil)
