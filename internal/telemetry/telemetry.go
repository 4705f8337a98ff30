// Package telemetry provides OpenTelemetry instrumentation for the leadscore service.
// It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "leadscore"

// Metrics holds all leadscore Prometheus metrics
type Metrics struct {
	// Processing metrics
	PostingsProcessed  *prometheus.CounterVec
	PostingsSkipped    *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	RunDuration        prometheus.Histogram
	BatchSize          prometheus.Histogram

	// Scoring metrics
	CompaniesScored  prometheus.Counter
	TierTotal        *prometheus.CounterVec
	MultiplierTotal  *prometheus.CounterVec
	FinalScoreSpread prometheus.Histogram

	// Backpressure metrics
	QueueDepth    prometheus.Gauge
	ActiveWorkers prometheus.Gauge

	// Lag metrics (freshness SLO)
	PollerLag prometheus.Histogram
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	metrics := initMetrics()
	tracer := otel.Tracer(serviceName)

	return &Provider{
		Tracer:  tracer,
		Metrics: metrics,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initProcessingMetrics(m)
	initScoringMetrics(m)
	initBackpressureMetrics(m)
	initLagMetrics(m)
	return m
}

func initProcessingMetrics(m *Metrics) {
	m.PostingsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadscore_postings_processed_total",
		Help: "Total postings run through signal extraction",
	}, []string{"source"})

	m.PostingsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadscore_postings_skipped_total",
		Help: "Total postings skipped before extraction",
	}, []string{"reason"})

	m.ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadscore_extraction_duration_seconds",
		Help:    "Time to extract signals from a single posting",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadscore_run_duration_seconds",
		Help:    "End-to-end duration of a scoring run",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadscore_batch_size",
		Help:    "Number of postings per scoring run",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

func initScoringMetrics(m *Metrics) {
	m.CompaniesScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadscore_companies_scored_total",
		Help: "Total company aggregates scored",
	})

	m.TierTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadscore_tier_total",
		Help: "Total companies classified by tier (HOT, QUALIFIED, POTENTIAL, SKIP)",
	}, []string{"tier"})

	m.MultiplierTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadscore_multiplier_total",
		Help: "Total multiplier applications by name",
	}, []string{"multiplier"})

	m.FinalScoreSpread = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadscore_final_score",
		Help:    "Distribution of final company scores",
		Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
}

func initBackpressureMetrics(m *Metrics) {
	m.QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "leadscore_queue_depth",
		Help: "Current pending postings awaiting scoring",
	})

	m.ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "leadscore_active_workers",
		Help: "Currently active extraction worker goroutines",
	})
}

func initLagMetrics(m *Metrics) {
	m.PollerLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadscore_poller_lag_seconds",
		Help:    "Time between posting ingestion and scoring start",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
	})
}

// RecordPosting records metrics for one extracted posting
func (p *Provider) RecordPosting(ctx context.Context, source string, duration time.Duration) {
	p.Metrics.PostingsProcessed.WithLabelValues(source).Inc()
	p.Metrics.ExtractionDuration.Observe(duration.Seconds())
}

// RecordSkip records a posting skipped before extraction
func (p *Provider) RecordSkip(ctx context.Context, reason string) {
	p.Metrics.PostingsSkipped.WithLabelValues(reason).Inc()
}

// RecordCompanyScore records tier, multiplier, and score distribution metrics
// for one scored company
func (p *Provider) RecordCompanyScore(ctx context.Context, tier string, multipliers []string, finalScore float64) {
	p.Metrics.CompaniesScored.Inc()
	p.Metrics.TierTotal.WithLabelValues(tier).Inc()
	for _, name := range multipliers {
		p.Metrics.MultiplierTotal.WithLabelValues(name).Inc()
	}
	p.Metrics.FinalScoreSpread.Observe(finalScore)
}

// RecordRun records the duration and size of a completed scoring run
func (p *Provider) RecordRun(ctx context.Context, batchSize int, duration time.Duration) {
	p.Metrics.BatchSize.Observe(float64(batchSize))
	p.Metrics.RunDuration.Observe(duration.Seconds())
}

// RecordPollerLag records the freshness lag
func (p *Provider) RecordPollerLag(ctx context.Context, createdAt time.Time) {
	lag := time.Since(createdAt)
	p.Metrics.PollerLag.Observe(lag.Seconds())
}

// SetQueueDepth sets the current queue depth
func (p *Provider) SetQueueDepth(depth int) {
	p.Metrics.QueueDepth.Set(float64(depth))
}

// SetActiveWorkers sets the current active worker count
func (p *Provider) SetActiveWorkers(count int) {
	p.Metrics.ActiveWorkers.Set(float64(count))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
