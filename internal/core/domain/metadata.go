package domain

import (
	"maps"
	"time"
)

// ContextMetadata is the persisted record of one execution.
// It is immutable once written under MetadataKey.
type ContextMetadata struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Start   time.Time         `json:"start,omitzero"`
	End     time.Time         `json:"end,omitzero"`
	Imports map[string]string `json:"imports,omitempty"`
}

// Clone returns a deep copy of the metadata.
func (m *ContextMetadata) Clone() *ContextMetadata {
	if m == nil {
		return nil
	}
	out := *m
	out.Imports = maps.Clone(m.Imports)
	return &out
}

// NewerThan orders metadata most recently completed first, then by descending id.
func (m *ContextMetadata) NewerThan(other *ContextMetadata) bool {
	if !m.End.Equal(other.End) {
		return m.End.After(other.End)
	}
	return m.ID > other.ID
}
