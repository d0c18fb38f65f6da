package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker/v2"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Upstream call outcomes
const (
	UpstreamOK        = "ok"
	UpstreamAbsent    = "absent"
	UpstreamThrottled = "throttled"
	UpstreamInvalid   = "invalid"
)

// Scheduled run outcomes. A run is absent when at least one item had no upstream data and none failed.
const (
	RunSuccess = "success"
	RunAbsent  = "absent"
	RunError   = "error"
	RunSkipped = "skipped"
)

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	cacheRequests    *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	breakerState     *prometheus.GaugeVec
	scheduledRuns    *prometheus.CounterVec
	importedPlaces   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups per namespace and result",
		}, []string{"namespace", "result"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Upstream API calls per upstream and outcome",
		}, []string{"upstream", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API latency in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"upstream"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "upstream_breaker_state",
			Help: "Circuit breaker state per upstream (0 closed, 1 half-open, 2 open)",
		}, []string{"upstream"}),
		scheduledRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduled_runs_total",
			Help: "Scheduled job runs per job and outcome",
		}, []string{"job", "outcome"}),
		importedPlaces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imported_places_total",
			Help: "Places written by the import pipeline",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		m.httpRequests,
		m.httpDuration,
		m.cacheRequests,
		m.upstreamRequests,
		m.upstreamDuration,
		m.breakerState,
		m.scheduledRuns,
		m.importedPlaces,
	)
	return m
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveCache(namespace, result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(namespace, result).Inc()
}

func (m *Metrics) ObserveUpstream(upstream, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(upstream, outcome).Inc()
	m.upstreamDuration.WithLabelValues(upstream).Observe(elapsed.Seconds())
}

// ObserveInvalidPayload counts an upstream answer rejected by normalization.
func (m *Metrics) ObserveInvalidPayload(upstream string) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(upstream, UpstreamInvalid).Inc()
}

// BreakerStateChanged matches the gobreaker OnStateChange callback.
func (m *Metrics) BreakerStateChanged(name string, _, to gobreaker.State) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(to))
}

func (m *Metrics) ObserveScheduledRun(job, outcome string) {
	if m == nil {
		return
	}
	m.scheduledRuns.WithLabelValues(job, outcome).Inc()
}

func (m *Metrics) ObserveImport(kind string, count int) {
	if m == nil {
		return
	}
	m.importedPlaces.WithLabelValues(kind).Add(float64(count))
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			m.httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
