// Package metrics exposes Prometheus collectors for the debate service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DebatesStarted counts debate runs started.
	DebatesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debateclub_debates_started_total",
		Help: "Number of debate runs started.",
	})

	// DebatesCompleted counts debate runs by outcome.
	DebatesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debateclub_debates_completed_total",
		Help: "Number of debate runs finished, labeled by outcome.",
	}, []string{"outcome"}) // success, error, timeout

	// UpdatesEmitted counts update events pushed to consumers.
	UpdatesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debateclub_updates_emitted_total",
		Help: "Number of update events emitted to consumers.",
	})

	// StageDuration observes wall-clock time per pipeline stage.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "debateclub_stage_duration_seconds",
		Help:    "Wall-clock duration of each pipeline stage.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"stage"})
)

// Outcome labels for DebatesCompleted.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
