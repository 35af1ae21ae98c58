// Package metrics exposes Prometheus collectors for the research pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "research_agent"

// Step outcome labels
const (
	OutcomeOK              = "ok"
	OutcomeNoResults       = "no_results"
	OutcomeSearchError     = "search_error"
	OutcomeCorrupted       = "corrupted"
	OutcomeNoAnswer        = "no_answer"
	OutcomeGenerationError = "generation_error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsTotal           *prometheus.CounterVec
	StepOutcomesTotal   *prometheus.CounterVec
	StepDuration        *prometheus.HistogramVec
	EvaluationScore     prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of pipeline runs",
			},
			[]string{"status"},
		),
		StepOutcomesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "step_outcomes_total",
				Help:      "Pipeline step results by outcome",
			},
			[]string{"step", "outcome"},
		),
		StepDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "step_duration_seconds",
				Help:      "Pipeline step duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"step"},
		),
		EvaluationScore: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "f1_score",
				Help:      "Semantic similarity F1 of evaluated answers",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"method", "path"},
		),
	}
}

// ObserveRun counts a finished pipeline run
func (m *Metrics) ObserveRun(status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

// ObserveStep records one step outcome
func (m *Metrics) ObserveStep(step, outcome string) {
	if m == nil {
		return
	}
	m.StepOutcomesTotal.WithLabelValues(step, outcome).Inc()
}

// ObserveStepDuration records how long a step took
func (m *Metrics) ObserveStepDuration(step string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// ObserveScore records an evaluation result
func (m *Metrics) ObserveScore(score float64) {
	if m == nil {
		return
	}
	m.EvaluationScore.Observe(score)
}

// ObserveHTTP records a served request
func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
