package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts pipeline runs.
	// Labels: handler (empty when not routed), status
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courier",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by handler and final status",
		},
		[]string{"handler", "status"},
	)

	// RunDuration tracks end-to-end latency of routed runs.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courier",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Duration of routed pipeline runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"handler"},
	)
)
