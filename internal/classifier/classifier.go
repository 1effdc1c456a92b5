// Package classifier detects the format and intent of an input, records the
// classification in the ledger, and selects the handler that should process it.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/courier/internal/extract"
	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/oracle"
	"github.com/JaimeStill/courier/internal/prompts"
	"github.com/JaimeStill/courier/internal/routing"
	"github.com/JaimeStill/courier/pkg/formatting"
)

const (
	// MaxStructuredRunes bounds the compact JSON rendering offered to the oracle.
	MaxStructuredRunes = 2000
	// MaxOracleRunes bounds any text offered to the oracle.
	MaxOracleRunes = 4000
)

// Result is the outcome of classifying one input.
// Handler is empty when the input is recorded but not routed, and Payload
// is nil when the input could not be read.
type Result struct {
	ThreadID string
	Handler  string
	Payload  *routing.Payload
}

// Classifier turns inputs into routed payloads.
type Classifier struct {
	ledger  ledger.System
	oracle  oracle.Oracle
	extract *extract.Extractor
	logger  *slog.Logger
}

// New creates a Classifier.
func New(l ledger.System, o oracle.Oracle, x *extract.Extractor, logger *slog.Logger) *Classifier {
	return &Classifier{
		ledger:  l,
		oracle:  o,
		extract: x,
		logger:  logger.With("system", "classifier"),
	}
}

// OracleText renders content as the text the oracle classifies.
func OracleText(c routing.Content) string {
	var text string

	switch v := c.(type) {
	case routing.PlainText:
		text = v.Text
	case routing.EmailFields:
		text = v.Body
	case routing.StructuredTree:
		if v.Value != nil {
			if data, err := json.Marshal(v.Value); err == nil {
				text = formatting.Truncate(string(data), MaxStructuredRunes)
			}
		}
	}

	return formatting.Truncate(text, MaxOracleRunes)
}

// ClassifyIntent asks the oracle for the intent of text taken from source.
// Blank text is IntentNoContent and never reaches the oracle. Oracle
// failures are logged and treated as an unmatched answer.
func (c *Classifier) ClassifyIntent(ctx context.Context, text, source string) routing.Intent {
	if strings.TrimSpace(text) == "" {
		return routing.IntentNoContent
	}

	answer, err := c.oracle.Complete(ctx, prompts.Intent(source, text))
	if err != nil {
		c.logger.Warn("intent classification failed", "source", source, "error", err)
		return routing.IntentOther
	}

	return routing.MatchIntent(answer)
}

// Process classifies input and selects its handler. When isPath is true,
// input names a file; otherwise input is the content itself and is named
// routing.RawInputName.
//
// An unreadable file is recorded as an Error entry and yields a Result with
// no handler and no payload. The returned error is reserved for ledger
// failures.
func (c *Classifier) Process(ctx context.Context, input string, isPath bool) (*Result, error) {
	res := &Result{ThreadID: c.ledger.NewThreadID()}

	source := routing.RawInputName
	data := []byte(input)

	if isPath {
		source = filepath.Base(input)

		b, err := os.ReadFile(input)
		if err != nil {
			return res, c.recordUnreadable(ctx, res.ThreadID, source, err)
		}
		data = b
	}

	format := routing.DetectFormat(source, data)
	content := c.extract.Content(format, source, data)
	intent := c.ClassifyIntent(ctx, OracleText(content), source)

	details := map[string]any{
		"status":            routing.StatusClassified,
		"classified_format": format,
		"classified_intent": intent,
	}
	if text, ok := content.(routing.PlainText); ok && text.Degraded {
		details["extraction_degraded"] = true
	}

	if _, err := c.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: routing.ClassifierAgent,
		ThreadID:  res.ThreadID,
		Source:    source,
		Details:   details,
	}); err != nil {
		return res, fmt.Errorf("record classification: %w", err)
	}

	update := map[string]any{
		"source_filename":   source,
		"classified_format": format,
		"classified_intent": intent,
	}
	if fields, ok := content.(routing.EmailFields); ok && fields.Sender != "" {
		update["initial_sender"] = fields.Sender
	}

	if _, err := c.ledger.UpdateContext(ctx, res.ThreadID, update); err != nil {
		return res, fmt.Errorf("record classification context: %w", err)
	}

	res.Handler = routing.Route(format, intent)

	if res.Handler == routing.EmailAgent && format == routing.FormatPDF {
		if _, ok := content.(routing.PlainText); !ok {
			t := c.extract.PDF(source, data)
			content = routing.PlainText{Text: t.Value, Degraded: t.Degraded}
		}
	}

	res.Payload = &routing.Payload{
		ThreadID: res.ThreadID,
		Source:   source,
		Format:   format,
		Intent:   intent,
		Content:  content,
		Raw:      data,
	}

	c.logger.Info(
		"input classified",
		"thread_id", res.ThreadID,
		"source", source,
		"format", format,
		"intent", intent,
		"handler", res.Handler,
	)

	if res.Handler == "" {
		if _, err := c.ledger.Append(ctx, ledger.AppendCommand{
			AgentName: routing.ClassifierAgent,
			ThreadID:  res.ThreadID,
			Source:    source,
			Details: map[string]any{
				"status":            routing.StatusClassificationOnly,
				"classified_format": format,
				"classified_intent": intent,
				"reason":            fmt.Sprintf("no handler for format %s with intent %s", format, intent),
			},
		}); err != nil {
			return res, fmt.Errorf("record classification only: %w", err)
		}
	}

	return res, nil
}

func (c *Classifier) recordUnreadable(ctx context.Context, threadID, source string, readErr error) error {
	msg := "File not found"
	if !errors.Is(readErr, fs.ErrNotExist) {
		msg = readErr.Error()
	}

	c.logger.Warn("input unreadable", "thread_id", threadID, "source", source, "error", readErr)

	if _, err := c.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: routing.ClassifierAgent,
		ThreadID:  threadID,
		Source:    source,
		Details: map[string]any{
			"status":            routing.StatusError,
			"error":             msg,
			"classified_format": routing.FormatUnknown,
			"classified_intent": routing.IntentUnknown,
		},
	}); err != nil {
		return fmt.Errorf("record unreadable input: %w", err)
	}
	return nil
}
