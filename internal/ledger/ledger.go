// Package ledger records every pipeline step in an append-only log keyed by
// thread id, alongside a mutable per-thread context map that handlers merge
// into as a run progresses.
package ledger

import (
	"encoding/json"
	"maps"
	"time"
)

// Entry is one immutable ledger row.
type Entry struct {
	ID        int64
	Timestamp time.Time
	AgentName string
	ThreadID  string
	Source    *string
	Details   map[string]any
}

// Fields returns the entry as a flat map: the column values with the stored
// details merged over them.
func (e Entry) Fields() map[string]any {
	fields := map[string]any{
		"id":              e.ID,
		"timestamp":       e.Timestamp.Format(time.RFC3339Nano),
		"agent_name":      e.AgentName,
		"thread_id":       e.ThreadID,
		"source_filename": nil,
	}
	if e.Source != nil {
		fields["source_filename"] = *e.Source
	}
	maps.Copy(fields, e.Details)
	return fields
}

// Status returns the entry's status detail, or "" when absent.
func (e Entry) Status() string {
	s, _ := e.Details["status"].(string)
	return s
}

// MarshalJSON encodes the flattened Fields view.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields())
}

// AppendCommand describes a new ledger entry.
// Details keys that duplicate columns (thread_id, source, source_filename)
// are dropped before storage.
type AppendCommand struct {
	AgentName string
	ThreadID  string
	Source    string
	Details   map[string]any
}

// ContextRecord is the accumulated context for one thread.
type ContextRecord struct {
	ThreadID    string         `json:"thread_id"`
	LastUpdated time.Time      `json:"last_updated"`
	Data        map[string]any `json:"data"`
}
