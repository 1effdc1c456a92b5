// Package orchestrator runs inputs through classification and on to the
// handler the classifier selects, correlating every step by thread id.
package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/courier/internal/classifier"
	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/routing"
	"github.com/JaimeStill/courier/pkg/storage"
)

// Handler processes payloads routed to it by name.
type Handler interface {
	Name() string
	Handle(ctx context.Context, p *routing.Payload) (routing.Outcome, error)
}

// Result describes one completed run.
type Result struct {
	ThreadID   string           `json:"thread_id"`
	Source     string           `json:"source,omitempty"`
	Format     routing.Format   `json:"format,omitempty"`
	Intent     routing.Intent   `json:"intent,omitempty"`
	Handler    string           `json:"handler,omitempty"`
	Outcome    *routing.Outcome `json:"outcome,omitempty"`
	ArchiveKey string           `json:"archive_key,omitempty"`
}

// Routed reports whether the run reached a handler.
func (r *Result) Routed() bool {
	return r.Outcome != nil
}

// Orchestrator wires the classifier to the registered handlers.
type Orchestrator struct {
	classifier *classifier.Classifier
	ledger     ledger.System
	storage    storage.System
	handlers   map[string]Handler
	cfg        Config
	logger     *slog.Logger
}

// New creates an Orchestrator. store may be nil, which disables archiving.
func New(
	cfg Config,
	c *classifier.Classifier,
	l ledger.System,
	store storage.System,
	logger *slog.Logger,
	handlers ...Handler,
) *Orchestrator {
	o := &Orchestrator{
		classifier: c,
		ledger:     l,
		storage:    store,
		handlers:   make(map[string]Handler, len(handlers)),
		cfg:        cfg,
		logger:     logger.With("system", "orchestrator"),
	}
	for _, h := range handlers {
		o.handlers[h.Name()] = h
	}
	return o
}

// ProcessInput runs input and returns its thread id, or "" when the input
// was not handed to any handler.
func (o *Orchestrator) ProcessInput(ctx context.Context, input string, isPath bool) (string, error) {
	res, err := o.Run(ctx, input, isPath)
	if err != nil {
		return "", err
	}
	if !res.Routed() {
		return "", nil
	}
	return res.ThreadID, nil
}

// Run classifies input, archives the raw bytes when configured, and
// dispatches the payload to its handler.
func (o *Orchestrator) Run(ctx context.Context, input string, isPath bool) (*Result, error) {
	start := time.Now()

	cr, err := o.classifier.Process(ctx, input, isPath)
	if err != nil {
		RunsTotal.WithLabelValues("", string(routing.StatusError)).Inc()
		return nil, fmt.Errorf("classify: %w", err)
	}

	res := &Result{ThreadID: cr.ThreadID, Handler: cr.Handler}

	if cr.Payload == nil {
		o.logger.Warn("input not processed", "thread_id", cr.ThreadID)
		RunsTotal.WithLabelValues("", string(routing.StatusError)).Inc()
		return res, nil
	}

	p := cr.Payload
	res.Source = p.Source
	res.Format = p.Format
	res.Intent = p.Intent

	if key, ok := o.archive(ctx, p); ok {
		res.ArchiveKey = key
	}

	if cr.Handler == "" {
		o.logger.Info("classification only", "thread_id", p.ThreadID, "format", p.Format, "intent", p.Intent)
		RunsTotal.WithLabelValues("", string(routing.StatusClassificationOnly)).Inc()
		return res, nil
	}

	h, ok := o.handlers[cr.Handler]
	if !ok {
		if err := o.recordMissingHandler(ctx, p, cr.Handler); err != nil {
			return nil, err
		}
		RunsTotal.WithLabelValues(cr.Handler, string(routing.StatusError)).Inc()
		return res, nil
	}

	out, err := h.Handle(ctx, p)
	if err != nil {
		RunsTotal.WithLabelValues(cr.Handler, string(routing.StatusError)).Inc()
		return nil, fmt.Errorf("%s: %w", cr.Handler, err)
	}
	res.Outcome = &out

	RunsTotal.WithLabelValues(cr.Handler, string(out.Status)).Inc()
	RunDuration.WithLabelValues(cr.Handler).Observe(time.Since(start).Seconds())

	o.logger.Info(
		"run complete",
		"thread_id", p.ThreadID,
		"handler", cr.Handler,
		"status", out.Status,
		"duration", time.Since(start),
	)

	return res, nil
}

// archive uploads the raw input under its thread and records the key in
// the thread context. Failures are logged and never fail the run.
func (o *Orchestrator) archive(ctx context.Context, p *routing.Payload) (string, bool) {
	if o.storage == nil || !o.cfg.Archive || len(p.Raw) == 0 {
		return "", false
	}

	key := storage.Key(p.ThreadID, p.Source)
	if err := o.storage.Upload(ctx, key, bytes.NewReader(p.Raw), ContentType(p.Format)); err != nil {
		o.logger.Warn("archive upload failed", "thread_id", p.ThreadID, "key", key, "error", err)
		return "", false
	}

	if _, err := o.ledger.UpdateContext(ctx, p.ThreadID, map[string]any{"archive_key": key}); err != nil {
		o.logger.Warn("archive key not recorded", "thread_id", p.ThreadID, "key", key, "error", err)
		return "", false
	}

	return key, true
}

func (o *Orchestrator) recordMissingHandler(ctx context.Context, p *routing.Payload, name string) error {
	o.logger.Error("no handler registered", "thread_id", p.ThreadID, "handler", name)

	_, err := o.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: routing.Orchestrator,
		ThreadID:  p.ThreadID,
		Source:    p.Source,
		Details: map[string]any{
			"status":  routing.StatusError,
			"error":   fmt.Sprintf("no handler registered for %s", name),
			"handler": name,
		},
	})
	if err != nil {
		return fmt.Errorf("record missing handler: %w", err)
	}
	return nil
}

// ContentType returns the archive content type for a format.
func ContentType(f routing.Format) string {
	switch f {
	case routing.FormatPDF:
		return "application/pdf"
	case routing.FormatJSON:
		return "application/json"
	case routing.FormatEmail:
		return "message/rfc822"
	case routing.FormatText:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
