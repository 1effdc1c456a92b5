package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courier",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by module, method, and status code.",
		},
		[]string{"module", "method", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courier",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by module and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"module", "method"},
	)
)

// Metrics returns middleware that records request counts and latency for
// the named module.
func Metrics(module string) func(http.Handler) http.Handler {
	labels := prometheus.Labels{"module": module}
	counter := requestsTotal.MustCurryWith(labels)
	duration := requestDuration.MustCurryWith(labels)

	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerDuration(
			duration,
			promhttp.InstrumentHandlerCounter(counter, next),
		)
	}
}
