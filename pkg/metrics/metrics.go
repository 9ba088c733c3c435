package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
// Record methods are safe on a nil *Metrics so components can run without them.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	Generations          *prometheus.CounterVec
	IntentParseFallbacks *prometheus.CounterVec
	ToneSubstitutions    prometheus.Counter
	QuotaDecisions       *prometheus.CounterVec
	UsageRecordFailures  prometheus.Counter
	LLMCallDuration      *prometheus.HistogramVec

	// Billing metrics
	StripeEvents *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
}

// New registers all metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		// Pipeline metrics
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generations_total",
				Help: "Generation requests by outcome",
			},
			[]string{"outcome"}, // success, rejected, failed
		),
		IntentParseFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intent_parse_fallbacks_total",
				Help: "Intent parses that fell back to the default triple",
			},
			[]string{"reason"}, // llm_error, invalid_json
		),
		ToneSubstitutions: factory.NewCounter(prometheus.CounterOpts{
			Name: "tone_substitutions_total",
			Help: "Parsed tones replaced by the default tone",
		}),
		QuotaDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_decisions_total",
				Help: "Quota gate decisions",
			},
			[]string{"decision"}, // anonymous, premium, free, rejected, untracked
		),
		UsageRecordFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "usage_record_failures_total",
			Help: "Failed usage counter writes",
		}),
		LLMCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_call_duration_seconds",
				Help:    "LLM call latency in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"call", "status"}, // parse, generate, refine
		),

		// Billing metrics
		StripeEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stripe_events_total",
				Help: "Stripe webhook events by type and result",
			},
			[]string{"type", "result"},
		),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"operation"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Path() // route pattern keeps label cardinality bounded

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordGeneration counts a finished generation request
func (m *Metrics) RecordGeneration(outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
}

// RecordParseFallback counts a parser fallback
func (m *Metrics) RecordParseFallback(reason string) {
	if m == nil {
		return
	}
	m.IntentParseFallbacks.WithLabelValues(reason).Inc()
}

// RecordToneSubstitution counts an unknown tone replaced by the default
func (m *Metrics) RecordToneSubstitution() {
	if m == nil {
		return
	}
	m.ToneSubstitutions.Inc()
}

// RecordQuotaDecision counts a quota gate outcome
func (m *Metrics) RecordQuotaDecision(decision string) {
	if m == nil {
		return
	}
	m.QuotaDecisions.WithLabelValues(decision).Inc()
}

// RecordUsageFailure counts a failed usage write
func (m *Metrics) RecordUsageFailure() {
	if m == nil {
		return
	}
	m.UsageRecordFailures.Inc()
}

// RecordLLMCall records the latency of one LLM call
func (m *Metrics) RecordLLMCall(call string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMCallDuration.WithLabelValues(call, status).Observe(duration.Seconds())
}

// RecordStripeEvent counts a webhook event
func (m *Metrics) RecordStripeEvent(eventType, result string) {
	if m == nil {
		return
	}
	m.StripeEvents.WithLabelValues(eventType, result).Inc()
}

// RecordDBQuery records database query duration
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
