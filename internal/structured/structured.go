// Package structured validates JSON documents against per-intent schemas and
// records the projected fields along with any anomalies found.
package structured

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/routing"
)

// Handler processes payloads routed to routing.StructuredAgent.
type Handler struct {
	ledger   ledger.System
	registry *Registry
	logger   *slog.Logger
}

// New creates a structured-data Handler backed by registry.
func New(l ledger.System, registry *Registry, logger *slog.Logger) *Handler {
	return &Handler{
		ledger:   l,
		registry: registry,
		logger:   logger.With("handler", routing.StructuredAgent),
	}
}

// Name returns the handler name recorded in the ledger.
func (h *Handler) Name() string { return routing.StructuredAgent }

// Handle validates the payload's JSON object against the schema for its
// intent. Payloads that are not a JSON object are recorded as Error entries;
// only ledger failures return an error.
func (h *Handler) Handle(ctx context.Context, p *routing.Payload) (routing.Outcome, error) {
	tree, ok := p.Content.(routing.StructuredTree)
	if !ok {
		return h.fail(ctx, p, fmt.Sprintf("expected structured content, got %T", p.Content))
	}

	doc, ok := tree.Object()
	if !ok {
		return h.fail(ctx, p, fmt.Sprintf("document root is %s", TypeName(tree.Value)))
	}

	var (
		extracted map[string]any
		anomalies []string
	)

	if schema, found := h.registry.Lookup(p.Intent); found {
		v := Validate(schema, doc)
		extracted = v.Extracted
		anomalies = v.Anomalies
	} else {
		extracted = doc
		anomalies = []string{
			fmt.Sprintf("No target schema defined for intent: %s. Processing as generic JSON.", p.Intent),
		}
	}

	status := routing.StatusProcessed
	if len(anomalies) > 0 {
		status = routing.StatusProcessedWithAnomalies
	}

	record := map[string]any{
		"intent":         p.Intent,
		"extracted_data": extracted,
		"anomalies":      anomalies,
	}

	if _, err := h.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: routing.StructuredAgent,
		ThreadID:  p.ThreadID,
		Source:    p.Source,
		Details: map[string]any{
			"status":         status,
			"intent":         p.Intent,
			"extracted_data": extracted,
			"anomalies":      anomalies,
		},
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record structured result: %w", err)
	}

	fields := slices.Sorted(maps.Keys(extracted))

	if _, err := h.ledger.UpdateContext(ctx, p.ThreadID, map[string]any{
		"structured_status":        status,
		"structured_fields":        fields,
		"structured_anomaly_count": len(anomalies),
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record structured context: %w", err)
	}

	h.logger.Info(
		"structured document processed",
		"thread_id", p.ThreadID,
		"intent", p.Intent,
		"status", status,
		"anomalies", len(anomalies),
	)

	return routing.Outcome{Handler: routing.StructuredAgent, Status: status, Record: record}, nil
}

func (h *Handler) fail(ctx context.Context, p *routing.Payload, detail string) (routing.Outcome, error) {
	const msg = "Invalid data: Expected a JSON object."

	h.logger.Warn("structured document not processed", "thread_id", p.ThreadID, "detail", detail)

	if _, err := h.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: routing.StructuredAgent,
		ThreadID:  p.ThreadID,
		Source:    p.Source,
		Details: map[string]any{
			"status":  routing.StatusError,
			"error":   msg,
			"details": detail,
		},
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record structured error: %w", err)
	}

	if _, err := h.ledger.UpdateContext(ctx, p.ThreadID, map[string]any{
		"structured_status": routing.StatusError,
		"structured_error":  msg,
	}); err != nil {
		return routing.Outcome{}, fmt.Errorf("record structured error context: %w", err)
	}

	return routing.Outcome{Handler: routing.StructuredAgent, Status: routing.StatusError}, nil
}
