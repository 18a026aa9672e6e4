// Package metrics holds the Prometheus collectors for extraction runs and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes
const (
	ResultOK     = "ok"
	ResultEmpty  = "empty"
	ResultFailed = "failed"
)

// Metrics owns a private registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	strategy        *prometheus.CounterVec
	candidates      prometheus.Histogram
	rejections      *prometheus.CounterVec
	eventsExtracted prometheus.Gauge
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extraction_runs_total",
			Help: "Extraction runs by outcome",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Duration of a full extraction run",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45, 90},
		}),
		strategy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extraction_strategy_total",
			Help: "Locator strategy that produced the candidate set",
		}, []string{"strategy"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "extraction_candidates",
			Help:    "Candidate elements found per run",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extraction_rejections_total",
			Help: "Candidates rejected during normalization by reason",
		}, []string{"reason"}),
		eventsExtracted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "extraction_events",
			Help: "Events produced by the last run",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total response cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total response cache misses",
		}),
	}

	registry.MustRegister(
		m.runs,
		m.runDuration,
		m.strategy,
		m.candidates,
		m.rejections,
		m.eventsExtracted,
		m.requestDuration,
		m.requestTotal,
		m.cacheHits,
		m.cacheMisses,
	)

	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records one finished extraction run.
func (m *Metrics) ObserveRun(result string, events int, duration time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
	m.runDuration.Observe(duration.Seconds())
	if result != ResultFailed {
		m.eventsExtracted.Set(float64(events))
	}
}

// ObserveCandidates records which strategy won and how many candidates it found.
func (m *Metrics) ObserveCandidates(strategy string, count int) {
	if m == nil {
		return
	}
	if strategy == "" {
		strategy = "none"
	}
	m.strategy.WithLabelValues(strategy).Inc()
	m.candidates.Observe(float64(count))
}

// IncRejection counts a candidate dropped during normalization.
func (m *Metrics) IncRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveCache records a response cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
