package oracle

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts oracle calls.
	// Labels: provider, result (success, error)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courier",
			Subsystem: "oracle",
			Name:      "requests_total",
			Help:      "Total number of oracle completion calls",
		},
		[]string{"provider", "result"},
	)

	// RequestDuration tracks oracle call latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courier",
			Subsystem: "oracle",
			Name:      "request_duration_seconds",
			Help:      "Duration of oracle completion calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider"},
	)
)

// Instrument returns an Oracle that records call counts and latency under
// the given provider label.
func Instrument(o Oracle, provider string) Oracle {
	return Func(func(ctx context.Context, prompt string) (string, error) {
		start := time.Now()
		out, err := o.Complete(ctx, prompt)
		RequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

		result := "success"
		if err != nil {
			result = "error"
		}
		RequestsTotal.WithLabelValues(provider, result).Inc()
		return out, err
	})
}
