// Package email turns email-shaped payloads into CRM records. The oracle
// assigns urgency, a short summary, and the entities mentioned.
package email

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strings"

	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/oracle"
	"github.com/JaimeStill/courier/internal/routing"
	"github.com/JaimeStill/courier/pkg/formatting"
)

// Defaults applied when a field cannot be recovered.
const (
	DefaultSender        = "Unknown Sender"
	DefaultSubject       = "No Subject"
	DefaultContextSender = "Unknown Sender (from context)"
	TextSubject          = "N/A"

	// PreviewRunes bounds the body preview stored in the CRM record.
	PreviewRunes = 200
)

// Urgency levels accepted from the oracle.
const (
	UrgencyLow    = "Low"
	UrgencyMedium = "Medium"
	UrgencyHigh   = "High"
)

var addressPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// Handler processes payloads routed to routing.EmailAgent.
type Handler struct {
	ledger ledger.System
	oracle oracle.Oracle
	logger *slog.Logger
}

// New creates an email Handler.
func New(l ledger.System, o oracle.Oracle, logger *slog.Logger) *Handler {
	return &Handler{
		ledger: l,
		oracle: o,
		logger: logger.With("handler", routing.EmailAgent),
	}
}

// Name returns the handler name recorded in the ledger.
func (h *Handler) Name() string { return routing.EmailAgent }

// Handle builds and records the CRM record for p. Unusable payloads are
// recorded as Error entries; only ledger failures return an error.
func (h *Handler) Handle(ctx context.Context, p *routing.Payload) (routing.Outcome, error) {
	var sender, subject, body string

	switch c := p.Content.(type) {
	case routing.EmailFields:
		sender = cmp.Or(c.Sender, DefaultSender)
		subject = cmp.Or(c.Subject, DefaultSubject)
		body = c.Body
	case routing.PlainText:
		cx, err := h.ledger.Context(ctx, p.ThreadID)
		if err != nil {
			return routing.Outcome{}, fmt.Errorf("read context: %w", err)
		}
		s, _ := cx["initial_sender"].(string)
		sender = cmp.Or(s, DefaultContextSender)
		subject = TextSubject
		body = c.Text
	default:
		return h.fail(ctx, p, "Invalid email content type", map[string]any{
			"details": fmt.Sprintf("expected email fields or plain text, got %T", p.Content),
		})
	}

	sender = NormalizeSender(sender)

	if strings.TrimSpace(body) == "" {
		return h.fail(ctx, p, "Email body is empty", map[string]any{
			"extracted_sender":  sender,
			"extracted_subject": subject,
		})
	}

	reply := h.extract(ctx, p, sender, subject, body)

	record := map[string]any{
		"extracted_sender":   sender,
		"extracted_subject":  subject,
		"intent":             p.Intent,
		"urgency":            reply.urgency,
		"crm_summary":        reply.summary,
		"extracted_entities": reply.entities,
		"full_body_preview":  formatting.Preview(body, PreviewRunes),
	}
	if reply.status == routing.StatusProcessedWithLLMError {
		record["llm_raw_response"] = reply.raw
	}

	if _, err := h.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: routing.EmailAgent,
		ThreadID:  p.ThreadID,
		Source:    p.Source,
		Details: map[string]any{
			"status":             reply.status,
			"crm_formatted_data": record,
		},
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record email result: %w", err)
	}

	if _, err := h.ledger.UpdateContext(ctx, p.ThreadID, map[string]any{
		"email_status":  reply.status,
		"email_sender":  sender,
		"email_topic":   subject,
		"email_urgency": reply.urgency,
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record email context: %w", err)
	}

	h.logger.Info(
		"email processed",
		"thread_id", p.ThreadID,
		"status", reply.status,
		"urgency", reply.urgency,
	)

	return routing.Outcome{Handler: routing.EmailAgent, Status: reply.status, Record: record}, nil
}

// NormalizeSender returns the first email address in field, or field itself
// when it holds none. A blank field is "Unknown".
func NormalizeSender(field string) string {
	if strings.TrimSpace(field) == "" {
		return "Unknown"
	}
	if m := addressPattern.FindString(field); m != "" {
		return m
	}
	return field
}

// NormalizeUrgency maps an oracle urgency onto Low, Medium, or High.
// Anything unrecognized is Medium.
func NormalizeUrgency(v any) string {
	s, _ := v.(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow
	case "high":
		return UrgencyHigh
	}
	return UrgencyMedium
}

func (h *Handler) fail(ctx context.Context, p *routing.Payload, msg string, extra map[string]any) (routing.Outcome, error) {
	h.logger.Warn("email not processed", "thread_id", p.ThreadID, "error", msg)

	details := map[string]any{
		"status": routing.StatusError,
		"error":  msg,
	}
	maps.Copy(details, extra)

	if _, err := h.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: routing.EmailAgent,
		ThreadID:  p.ThreadID,
		Source:    p.Source,
		Details:   details,
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record email error: %w", err)
	}

	if _, err := h.ledger.UpdateContext(ctx, p.ThreadID, map[string]any{
		"email_status": routing.StatusError,
		"email_error":  msg,
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record email error context: %w", err)
	}

	return routing.Outcome{Handler: routing.EmailAgent, Status: routing.StatusError}, nil
}
