// Package metrics records client-side counters and latencies with Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the client, session and suggest metric hooks.
type Recorder struct {
	apiCalls      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	rateLimited   *prometheus.CounterVec
	superseded    prometheus.Counter
	suggestions   *prometheus.CounterVec
	queryOutcomes *prometheus.CounterVec
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		apiCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "histpattern_api_calls_total",
				Help: "Total number of analytics API calls by operation and status",
			},
			[]string{"op", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "histpattern_api_call_duration_seconds",
				Help:    "Duration of analytics API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		rateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "histpattern_rate_limited_total",
				Help: "Total number of 429 responses by operation",
			},
			[]string{"op"},
		),
		superseded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "histpattern_queries_superseded_total",
				Help: "Total number of query submissions replaced by a newer one",
			},
		),
		suggestions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "histpattern_suggestions_total",
				Help: "Suggestion results by outcome (applied, discarded, failed)",
			},
			[]string{"outcome"},
		),
		queryOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "histpattern_queries_total",
				Help: "Query submissions by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordAPICall records one analytics call. Status 0 means no response.
func (r *Recorder) RecordAPICall(op string, status int, seconds float64) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.apiCalls.WithLabelValues(op, code).Inc()
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordRateLimited records a 429 for an operation.
func (r *Recorder) RecordRateLimited(op string) {
	r.rateLimited.WithLabelValues(op).Inc()
}

// RecordSuperseded records a submission replaced before it completed.
func (r *Recorder) RecordSuperseded() {
	r.superseded.Inc()
}

// RecordSuggestion records what happened to one suggestion result.
func (r *Recorder) RecordSuggestion(outcome string) {
	r.suggestions.WithLabelValues(outcome).Inc()
}

// RecordQuery records a query submission outcome.
func (r *Recorder) RecordQuery(outcome string) {
	r.queryOutcomes.WithLabelValues(outcome).Inc()
}
