// Package telemetry exposes Prometheus metrics for the generation pipeline.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the pipeline's counters and histograms. A nil *Metrics is
// safe everywhere; every method no-ops on it so tests and library callers
// don't have to wire a registry.
type Metrics struct {
	generationAttempts *prometheus.CounterVec
	fallbacks          *prometheus.CounterVec
	validationScores   prometheus.Histogram
	qualityScores      prometheus.Histogram
	generationSeconds  prometheus.Histogram
}

// New registers the pipeline metrics on a fresh registry and returns both.
func New() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		generationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "threadsmith_generation_attempts_total",
			Help: "Multi-pass generation attempts by content type and outcome.",
		}, []string{"content_type", "outcome"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "threadsmith_generation_fallbacks_total",
			Help: "Generations that degraded to the hard-coded fallback string.",
		}, []string{"content_type"}),
		validationScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "threadsmith_validation_score",
			Help:    "Validator self-critique scores (0-100).",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		qualityScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "threadsmith_thread_quality_score",
			Help:    "Deterministic scorer overall results (0-100).",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		generationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "threadsmith_generation_duration_seconds",
			Help:    "Wall time of one multi-pass content generation.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
	return m, reg
}

func (m *Metrics) RecordAttempt(contentType, outcome string) {
	if m == nil {
		return
	}
	m.generationAttempts.WithLabelValues(contentType, outcome).Inc()
}

func (m *Metrics) RecordFallback(contentType string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(contentType).Inc()
}

func (m *Metrics) ObserveValidationScore(score int) {
	if m == nil {
		return
	}
	m.validationScores.Observe(float64(score))
}

func (m *Metrics) ObserveQualityScore(score int) {
	if m == nil {
		return
	}
	m.qualityScores.Observe(float64(score))
}

func (m *Metrics) ObserveGenerationSeconds(seconds float64) {
	if m == nil {
		return
	}
	m.generationSeconds.Observe(seconds)
}

// Serve exposes /metrics on addr in the background. Errors are reported on
// the returned channel since the listener outlives the caller.
func Serve(addr string, reg *prometheus.Registry) <-chan error {
	errc := make(chan error, 1)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		errc <- http.ListenAndServe(addr, mux)
	}()
	return errc
}
