// Package telemetry provides OpenTelemetry instrumentation for the safety
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "companion-safety"

// Metrics holds all safety-service Prometheus metrics.
type Metrics struct {
	// Screening outcomes
	CrisisDetected     *prometheus.CounterVec
	CrisisFallbacks    prometheus.Counter
	CrisisErrors       *prometheus.CounterVec
	ThirdPartyDetected prometheus.Counter
	NonCrisisScreened  prometheus.Counter

	// Guard outcomes
	CooldownSuppressed prometheus.Counter
	QuotaLimited       prometheus.Counter
	ForceBypasses      prometheus.Counter

	// Pipeline timing
	ScreeningDuration prometheus.Histogram
	GeoLookupDuration prometheus.Histogram

	// Guard state
	CooldownEntries prometheus.Gauge
	SessionEntries  prometheus.Gauge
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordScreening records one end-to-end screening pass.
func (p *Provider) RecordScreening(duration time.Duration) {
	p.Metrics.ScreeningDuration.Observe(duration.Seconds())
}

// RecordGeoLookup records one geolocation resolution.
func (p *Provider) RecordGeoLookup(duration time.Duration) {
	p.Metrics.GeoLookupDuration.Observe(duration.Seconds())
}

// SetGuardSizes updates the guard map gauges.
func (p *Provider) SetGuardSizes(cooldowns, sessions int) {
	p.Metrics.CooldownEntries.Set(float64(cooldowns))
	p.Metrics.SessionEntries.Set(float64(sessions))
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.CrisisDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safety_crisis_detected_total",
		Help: "Crisis responses delivered, by severity and country",
	}, []string{"severity", "country"})

	m.CrisisFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safety_crisis_fallback_total",
		Help: "Crisis responses composed with degraded (offline) location",
	})

	m.CrisisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safety_crisis_errors_total",
		Help: "Pipeline failures converted to the safe fallback response, by phase",
	}, []string{"phase"})

	m.ThirdPartyDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safety_third_party_detected_total",
		Help: "Messages expressing concern for someone else",
	})

	m.NonCrisisScreened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safety_non_crisis_screened_total",
		Help: "Messages screened and found non-crisis",
	})

	m.CooldownSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safety_cooldown_suppressed_total",
		Help: "Crisis responses replayed from cache inside the cooldown window",
	})

	m.QuotaLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safety_quota_limited_total",
		Help: "Crisis responses replaced by the session limit notice",
	})

	m.ForceBypasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safety_force_bypass_total",
		Help: "Cooldown bypasses granted to force-override messages",
	})

	m.ScreeningDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "safety_screening_duration_seconds",
		Help:    "End-to-end time to screen one message",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
	})

	m.GeoLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "safety_geo_lookup_duration_seconds",
		Help:    "Time to resolve the caller's location",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	})

	m.CooldownEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "safety_cooldown_entries",
		Help: "Current size of the cooldown map",
	})

	m.SessionEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "safety_session_entries",
		Help: "Current size of the session quota map",
	})

	return m
}
