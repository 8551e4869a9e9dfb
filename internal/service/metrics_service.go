package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the batch pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheLatency    prometheus.Observer
	batchRuns       *prometheus.CounterVec
	batchDocuments  *prometheus.CounterVec
	batchDuration   prometheus.Observer
	generatedTeams  prometheus.Counter
}

// NewMetricsService registers the collectors on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refdata_cache_hits_total",
		Help: "Reference data snapshots served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refdata_cache_misses_total",
		Help: "Reference data snapshots loaded from the database",
	})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "refdata_cache_latency_seconds",
		Help:    "Latency of reference cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	batchRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_runs_total",
		Help: "Assignment batch runs by outcome",
	}, []string{"outcome"})

	batchDocuments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_documents_total",
		Help: "Schedule documents handled by the batch pipeline",
	}, []string{"outcome"})

	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "batch_run_duration_seconds",
		Help:    "Wall time of one assignment batch run",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	generatedTeams := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedules_generated_total",
		Help: "Team schedules produced by the placement phase",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, cacheLatency, batchRuns, batchDocuments, batchDuration, generatedTeams, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		cacheLatency:    cacheLatency,
		batchRuns:       batchRuns,
		batchDocuments:  batchDocuments,
		batchDuration:   batchDuration,
		generatedTeams:  generatedTeams,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a reference cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveBatchRun records the outcome and duration of one batch run.
func (m *MetricsService) ObserveBatchRun(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.batchRuns.WithLabelValues(outcome).Inc()
	m.batchDuration.Observe(duration.Seconds())
}

// CountBatchDocument records one processed or failed document.
func (m *MetricsService) CountBatchDocument(outcome string) {
	if m == nil {
		return
	}
	m.batchDocuments.WithLabelValues(outcome).Inc()
}

// CountGeneratedTeam records one team schedule produced by phase one.
func (m *MetricsService) CountGeneratedTeam() {
	if m == nil {
		return
	}
	m.generatedTeams.Inc()
}
