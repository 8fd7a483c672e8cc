// Package metrics exposes Prometheus metrics for decomposition runs, the
// result cache and the HTTP server.
//
// A [Registry] implements the hook interfaces of package observability;
// install it once at startup:
//
//	reg := metrics.NewRegistry()
//	reg.Install()
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/conga/pkg/observability"
)

// Registry holds all metrics for the application.
type Registry struct {
	// Decomposition metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	RunsInFlight     prometheus.Gauge
	RunGraphEdges    prometheus.Histogram
	IterationsTotal  *prometheus.CounterVec
	ClustersPerRun   prometheus.Histogram
	IterationsPerRun prometheus.Histogram

	// Cache metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric initialised.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initDecomposeMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initDecomposeMetrics() {
	f := promauto.With(r.registry)
	r.RunsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "conga_runs_total",
		Help: "Total number of decomposition runs by outcome",
	}, []string{"status"})
	r.RunDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "conga_run_duration_seconds",
		Help:    "Decomposition wall time in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
	r.RunsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Name: "conga_runs_in_flight",
		Help: "Decompositions currently running",
	})
	r.RunGraphEdges = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "conga_run_graph_edges",
		Help:    "Edge count of decomposed graphs",
		Buckets: prometheus.ExponentialBuckets(8, 4, 8),
	})
	r.IterationsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "conga_iterations_total",
		Help: "Decomposition iterations by action",
	}, []string{"action"})
	r.ClustersPerRun = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "conga_run_clusters",
		Help:    "Final cluster count per completed run",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	r.IterationsPerRun = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "conga_run_iterations",
		Help:    "Iterations per completed run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "conga_cache_requests_total",
		Help: "Cache lookups by key type and result",
	}, []string{"key_type", "result"})
	r.CacheWriteBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conga_cache_write_bytes",
		Help:    "Size of cache writes in bytes",
		Buckets: []float64{100, 1000, 10000, 100000, 1000000},
	}, []string{"key_type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "conga_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conga_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Name: "conga_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Install registers r as the decompose, cache and HTTP hooks.
func (r *Registry) Install() {
	observability.SetDecomposeHooks(decomposeHooks{r})
	observability.SetCacheHooks(cacheHooks{r})
	observability.SetHTTPHooks(httpHooks{r})
}

type decomposeHooks struct{ r *Registry }

func (h decomposeHooks) OnRunStart(_ context.Context, _, edges int) {
	h.r.RunsInFlight.Inc()
	h.r.RunGraphEdges.Observe(float64(edges))
}

func (h decomposeHooks) OnIteration(_ context.Context, action string, _ bool) {
	h.r.IterationsTotal.WithLabelValues(action).Inc()
}

func (h decomposeHooks) OnRunComplete(_ context.Context, clusters, iterations int, d time.Duration, err error) {
	h.r.RunsInFlight.Dec()
	h.r.RunDuration.Observe(d.Seconds())
	if err != nil {
		h.r.RunsTotal.WithLabelValues("error").Inc()
		return
	}
	h.r.RunsTotal.WithLabelValues("ok").Inc()
	h.r.ClustersPerRun.Observe(float64(clusters))
	h.r.IterationsPerRun.Observe(float64(iterations))
}

type cacheHooks struct{ r *Registry }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.r.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

type httpHooks struct{ r *Registry }

func (h httpHooks) OnRequest(context.Context, string, string) {
	h.r.HTTPRequestsInFlight.Inc()
}

func (h httpHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.r.HTTPRequestsInFlight.Dec()
	h.r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
