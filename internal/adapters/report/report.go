// Package report provides the built-in reports run before an execution commits.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Names of the built-in reports.
const (
	SubtaskIndexName   = "subtask-index"
	DiscriminatorsName = "discriminators"
)

// Keys written by the built-in reports.
const (
	SubtaskIndexKey   = "subtasks.json"
	DiscriminatorsKey = "discriminators.txt"
)

// All returns every built-in report.
func All() []ports.Report {
	return []ports.Report{SubtaskIndex{}, Discriminators{}}
}

// SubtaskEntry describes one context produced by a batch.
type SubtaskEntry struct {
	ID             string                `json:"id"`
	Type           string                `json:"type"`
	Discriminators domain.Discriminators `json:"discriminators"`
}

// SubtaskIndex lists the contexts produced by a batch in production order.
type SubtaskIndex struct{}

// Name implements ports.Report.
func (SubtaskIndex) Name() string { return SubtaskIndexName }

// Execute writes subtasks.json.
func (SubtaskIndex) Execute(ctx context.Context, tc ports.TaskContext, task *domain.Task) error {
	store := tc.Storage()
	ids := domain.ParseSubtasks(task.Attributes())

	entries := make([]SubtaskEntry, 0, len(ids))
	for _, id := range ids {
		meta, err := store.GetContext(id)
		if err != nil {
			return zerr.With(err, "subtask", id)
		}
		d, err := store.Discriminators(id)
		if err != nil {
			return zerr.With(err, "subtask", id)
		}
		entries = append(entries, SubtaskEntry{ID: id, Type: meta.Type, Discriminators: d})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	return tc.Store(ctx, SubtaskIndexKey, bytes.NewReader(data))
}

// Discriminators renders the resolved discriminators one per line.
type Discriminators struct{}

// Name implements ports.Report.
func (Discriminators) Name() string { return DiscriminatorsName }

// Execute writes discriminators.txt.
func (Discriminators) Execute(ctx context.Context, tc ports.TaskContext, _ *domain.Task) error {
	d, err := tc.ResolvedDiscriminators()
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, k := range d.Keys() {
		fmt.Fprintf(&b, "%s = %s\n", k, d[k])
	}
	return tc.Store(ctx, DiscriminatorsKey, strings.NewReader(b.String()))
}
