package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for recognition, persistence and HTTP.
type Metrics struct {
	RecognitionAttempts *prometheus.CounterVec
	RecognitionOutcomes *prometheus.CounterVec
	MergeFallbacks      prometheus.Counter
	HTTPDuration        *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers all metrics on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers all metrics on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecognitionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casedesk_recognition_attempts_total",
			Help: "Model calls by model and result (ok, error)",
		}, []string{"model", "result"}),
		RecognitionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casedesk_recognition_outcomes_total",
			Help: "Recognitions by terminal outcome (primary, fallback, failed)",
		}, []string{"outcome"}),
		MergeFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "casedesk_merge_profile_fallbacks_total",
			Help: "Profile writes that were retried as extracted_data only",
		}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casedesk_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
}

// ObserveAttempt records one model call.
func (m *Metrics) ObserveAttempt(model string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RecognitionAttempts.WithLabelValues(model, result).Inc()
}

// ObserveOutcome records how a recognition ended.
func (m *Metrics) ObserveOutcome(outcome string) {
	m.RecognitionOutcomes.WithLabelValues(outcome).Inc()
}

// IncMergeFallback records a profile write that fell back to extracted_data only.
func (m *Metrics) IncMergeFallback() {
	m.MergeFallbacks.Inc()
}

// ObserveHTTP records the duration of a request. Call with time.Now() at the start.
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
