package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"casedesk/internal/metrics"
)

func TestMetrics_RecognitionCounters(t *testing.T) {
	m := metrics.New()

	m.ObserveAttempt("gemini-1.5-pro-002", errors.New("503"))
	m.ObserveAttempt("gemini-2.0-flash", nil)
	m.ObserveOutcome("fallback")
	m.IncMergeFallback()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecognitionAttempts.WithLabelValues("gemini-1.5-pro-002", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecognitionAttempts.WithLabelValues("gemini-2.0-flash", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecognitionOutcomes.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MergeFallbacks))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.ObserveOutcome("failed")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.RecognitionOutcomes.WithLabelValues("failed")))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveHTTP(http.MethodGet, "/api/v1/clients", http.StatusOK, time.Now())
	m.ObserveOutcome("primary")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `casedesk_recognition_outcomes_total{outcome="primary"} 1`)
	assert.Contains(t, body, `casedesk_http_request_duration_seconds_count{method="GET",route="/api/v1/clients",status="200"} 1`)
}
