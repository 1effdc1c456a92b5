package routing

// Content is the normalized body of a routing payload. It is one of
// EmailFields, StructuredTree, or PlainText.
type Content interface {
	content()
}

// EmailFields holds the parsed parts of an email message.
type EmailFields struct {
	Sender     string   `json:"sender"`
	Subject    string   `json:"subject"`
	Recipients []string `json:"recipients,omitempty"`
	Body       string   `json:"body"`
}

// StructuredTree holds a decoded JSON document. Numbers are json.Number.
// Value is nil when the document could not be decoded.
type StructuredTree struct {
	Value any
}

// Object returns the tree as a JSON object, or false when the root is not one.
func (t StructuredTree) Object() (map[string]any, bool) {
	m, ok := t.Value.(map[string]any)
	return m, ok
}

// PlainText holds extracted or raw text. Degraded marks text from a failed
// or partial extraction, as opposed to a document with no text.
type PlainText struct {
	Text     string
	Degraded bool
}

func (EmailFields) content()    {}
func (StructuredTree) content() {}
func (PlainText) content()      {}

// RawInputName is the source name assigned to inputs supplied as raw content.
const RawInputName = "raw_input"

// Payload carries a classified input from the classifier to its handler.
type Payload struct {
	ThreadID string
	Source   string
	Format   Format
	Intent   Intent
	Content  Content
	Raw      []byte
}
