package structured

import (
	"encoding/json"
	"math"
	"strings"
	"sync"

	"github.com/JaimeStill/courier/internal/routing"
)

// Kind is the expected type of a list item field.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
)

// Field names one typed field of a list item.
type Field struct {
	Name string
	Kind Kind
}

// Schema describes the expected shape of a structured document.
// When ListField is set and holds a list, each item must be an object
// carrying every Item field with the declared kind.
type Schema struct {
	Required  []string
	ListField string
	Item      []Field
}

// Registry maps lowercased intents to schemas. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// DefaultRegistry creates a Registry holding the invoice and rfq schemas.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(routing.IntentInvoice, Schema{
		Required:  []string{"invoice_id", "customer_name", "total_amount", "issue_date", "items"},
		ListField: "items",
		Item: []Field{
			{Name: "name", Kind: KindString},
			{Name: "quantity", Kind: KindInteger},
			{Name: "unit_price", Kind: KindNumber},
		},
	})

	r.Register(routing.IntentRFQ, Schema{
		Required:  []string{"rfq_id", "company_name", "request_details", "submission_deadline"},
		ListField: "request_details",
		Item: []Field{
			{Name: "item_description", Kind: KindString},
			{Name: "quantity_needed", Kind: KindInteger},
		},
	})

	return r
}

// Register adds or replaces the schema for intent.
func (r *Registry) Register(intent routing.Intent, s Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[key(intent)] = s
}

// Lookup returns the schema for intent, matched case-insensitively.
func (r *Registry) Lookup(intent routing.Intent) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[key(intent)]
	return s, ok
}

func key(intent routing.Intent) string {
	return strings.ToLower(strings.TrimSpace(string(intent)))
}

// Matches reports whether v holds a value of kind k. Integers satisfy
// KindNumber; numbers with a fractional part do not satisfy KindInteger.
func (k Kind) Matches(v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInteger:
		switch n := v.(type) {
		case json.Number:
			f, err := n.Float64()
			return err == nil && whole(f)
		case int, int64:
			return true
		case float64:
			return whole(n)
		}
	case KindNumber:
		switch n := v.(type) {
		case json.Number:
			_, err := n.Float64()
			return err == nil
		case int, int64, float64:
			return true
		}
	}
	return false
}

func whole(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// TypeName names the JSON type of v.
func TypeName(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return string(KindInteger)
		}
		return string(KindNumber)
	case int, int64:
		return string(KindInteger)
	case float64:
		return string(KindNumber)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}
