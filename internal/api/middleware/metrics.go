package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wellflow/internal/model"
)

// Metrics owns a private Prometheus registry with HTTP and traverse collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	traverses *prometheus.CounterVec
	segments  prometheus.Counter
	zSolves   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellflow",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wellflow",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		traverses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellflow",
			Name:      "traverse_runs_total",
			Help:      "Traverse runs by provider and outcome kind.",
		}, []string{"provider", "outcome"}),
		segments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wellflow",
			Name:      "traverse_segments_total",
			Help:      "Segments marched by successful traverses.",
		}),
		zSolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellflow",
			Name:      "zfactor_solves_total",
			Help:      "Z-factor solves by outcome kind.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.traverses, m.segments, m.zSolves,
	)
	return m
}

// Middleware counts requests and observes latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTraverse records one traverse outcome.
func (m *Metrics) ObserveTraverse(provider string, segments int, err error) {
	if m == nil {
		return
	}
	m.traverses.WithLabelValues(provider, outcome(err)).Inc()
	if err == nil {
		m.segments.Add(float64(segments))
	}
}

// ObserveZSolve records one Z-factor solve outcome.
func (m *Metrics) ObserveZSolve(err error) {
	if m == nil {
		return
	}
	m.zSolves.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(model.ErrorKind(err))
}
