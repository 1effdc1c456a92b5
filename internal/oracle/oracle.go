// Package oracle provides the text-completion service used for intent
// classification and field extraction. Responses are free-form and may be
// malformed; callers treat every answer defensively.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Oracle completes a single prompt.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts an ordinary function to the Oracle interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f(ctx, prompt).
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// New creates the configured provider, wrapped with instrumentation,
// rate limiting, and the configured per-call timeout.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (Oracle, error) {
	var (
		o   Oracle
		err error
	)

	switch cfg.Provider {
	case ProviderGemini:
		o, err = newGemini(ctx, cfg)
	case ProviderOpenAI:
		o, err = newOpenAI(cfg)
	case ProviderOllama:
		o, err = newOllama(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.With("system", "oracle").Info(
		"oracle initialized",
		"provider", cfg.Provider,
		"model", cfg.Model,
	)

	o = Instrument(o, string(cfg.Provider))
	if cfg.RateLimit > 0 {
		o = WithRateLimit(o, cfg.RateLimit, cfg.Burst)
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		o = WithTimeout(o, d)
	}
	return o, nil
}

// WithRateLimit returns an Oracle that waits for a token before each call.
func WithRateLimit(o Oracle, perSecond float64, burst int) Oracle {
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return Func(func(ctx context.Context, prompt string) (string, error) {
		if err := limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
		return o.Complete(ctx, prompt)
	})
}

// WithTimeout returns an Oracle that bounds each call to d.
func WithTimeout(o Oracle, d time.Duration) Oracle {
	return Func(func(ctx context.Context, prompt string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return o.Complete(ctx, prompt)
	})
}
