// Package metrics exposes gateway counters and latencies for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeReadOnly = "read_only"
	OutcomeInvalid  = "invalid_arguments"
	OutcomePanic    = "panic"
)

// Recorder owns a private registry so tests and multiple servers in one
// process never collide on the global one. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	toolCalls        *prometheus.CounterVec
	toolDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_tool_calls_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "outcome"},
	)

	r.toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_tool_duration_seconds",
			Help:    "Tool invocation latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
		[]string{"tool"},
	)

	r.upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_upstream_requests_total",
			Help: "Total number of upstream API requests by status (0 = no response)",
		},
		[]string{"method", "status"},
	)

	r.upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_upstream_request_duration_seconds",
			Help:    "Upstream API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	r.registry.MustRegister(
		r.toolCalls,
		r.toolDuration,
		r.upstreamRequests,
		r.upstreamDuration,
	)
	return r
}

// ObserveTool records one tool invocation.
func (r *Recorder) ObserveTool(tool, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.toolCalls.WithLabelValues(tool, outcome).Inc()
	r.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveUpstream records one upstream request. Its signature matches
// upstream.RequestObserver.
func (r *Recorder) ObserveUpstream(method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.upstreamDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
