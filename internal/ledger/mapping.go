package ledger

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/courier/pkg/database"
	"github.com/JaimeStill/courier/pkg/query"
	"github.com/JaimeStill/courier/pkg/repository"
)

const entryColumns = "id, timestamp, agent_name, thread_id, source_filename, log_details"

func projection(d database.Driver) *query.ProjectionMap {
	schema := "public"
	if d == database.DriverSQLite {
		schema = ""
	}

	return query.
		NewProjectionMap(schema, "agent_logs", "l").
		Project("id", "ID").
		Project("timestamp", "Timestamp").
		Project("agent_name", "AgentName").
		Project("thread_id", "ThreadID").
		Project("source_filename", "Source").
		Project("log_details", "Details")
}

func dialect(d database.Driver) query.Dialect {
	if d == database.DriverSQLite {
		return query.SQLite
	}
	return query.Postgres
}

var defaultSort = []query.SortField{
	{Field: "Timestamp", Descending: true},
	{Field: "ID", Descending: true},
}

// Filters contains optional filtering criteria for ledger queries.
// Nil fields are ignored. AgentName and ThreadID use exact matching;
// Source uses case-insensitive contains matching.
type Filters struct {
	AgentName *string `json:"agent_name,omitempty"`
	ThreadID  *string `json:"thread_id,omitempty"`
	Source    *string `json:"source,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("AgentName", f.AgentName).
		WhereEquals("ThreadID", f.ThreadID).
		WhereContains("Source", f.Source)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if a := values.Get("agent_name"); a != "" {
		f.AgentName = &a
	}

	if t := values.Get("thread_id"); t != "" {
		f.ThreadID = &t
	}

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	return f
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var (
		e       Entry
		ts      timestamp
		details []byte
	)

	if err := s.Scan(&e.ID, &ts, &e.AgentName, &e.ThreadID, &e.Source, &details); err != nil {
		return e, err
	}

	e.Timestamp = ts.Time
	m, err := decodeMap(details)
	if err != nil {
		return e, fmt.Errorf("decode log details %d: %w", e.ID, err)
	}
	e.Details = m
	return e, nil
}

func scanContext(s repository.Scanner) (ContextRecord, error) {
	var (
		c    ContextRecord
		ts   timestamp
		data []byte
	)

	if err := s.Scan(&c.ThreadID, &ts, &data); err != nil {
		return c, err
	}

	c.LastUpdated = ts.Time
	m, err := decodeMap(data)
	if err != nil {
		return c, fmt.Errorf("decode context %s: %w", c.ThreadID, err)
	}
	c.Data = m
	return c, nil
}

func decodeMap(data []byte) (map[string]any, error) {
	m := make(map[string]any)
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// timestamp scans time columns from drivers that return either time.Time
// or their text form.
type timestamp struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
