package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordGeneration("success")
	m.RecordGeneration("success")
	m.RecordGeneration("rejected")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Generations.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Generations.WithLabelValues("rejected")))

	// a second instance on another registry must not panic
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordParseFallback("invalid_json")
	m.RecordToneSubstitution()
	m.RecordQuotaDecision("premium")
	m.RecordUsageFailure()
	m.RecordStripeEvent("invoice.payment_failed", "ok")
	m.RecordLLMCall("parse", 120*time.Millisecond, nil)
	m.RecordLLMCall("generate", time.Second, errors.New("timeout"))
	m.RecordDBQuery("get_profile", 3*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.IntentParseFallbacks.WithLabelValues("invalid_json")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ToneSubstitutions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QuotaDecisions.WithLabelValues("premium")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UsageRecordFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StripeEvents.WithLabelValues("invoice.payment_failed", "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.LLMCallDuration))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordGeneration("success")
		m.RecordParseFallback("llm_error")
		m.RecordToneSubstitution()
		m.RecordQuotaDecision("free")
		m.RecordUsageFailure()
		m.RecordLLMCall("parse", time.Second, nil)
		m.RecordStripeEvent("x", "ok")
		m.RecordDBQuery("x", time.Second)
	})
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/tones/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tones/Casual", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/tones/:id", "204"))
	assert.Equal(t, float64(1), got)
}
