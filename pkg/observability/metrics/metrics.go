// Package metrics implements the observability hooks with Prometheus
// collectors.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.Register()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/modgraph/pkg/observability"
)

const namespace = "modgraph"

// Metrics holds the collectors. A Metrics value satisfies every hook
// interface of the observability package.
type Metrics struct {
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	runIterations  prometheus.Histogram
	inputNodes     prometheus.Histogram
	merges         prometheus.Counter
	passMatches    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheOps       *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decompose",
			Name:      "runs_total",
			Help:      "Decomposition runs by outcome",
		}, []string{"outcome"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decompose",
			Name:      "run_duration_seconds",
			Help:      "Time to decompose one graph",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
		}),
		runIterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decompose",
			Name:      "iterations",
			Help:      "Iterations until the fixed point",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		inputNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decompose",
			Name:      "input_nodes",
			Help:      "Node count of the constructed graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		merges: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decompose",
			Name:      "merges_total",
			Help:      "Node merges performed",
		}),
		passMatches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decompose",
			Name:      "pass_matches_total",
			Help:      "Nodes tagged or merged, by pass",
		}, []string{"pass"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Time to render an artifact",
			Buckets:   []float64{0.001, 0.01, 0.1, 1, 10},
		}, []string{"format"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as the global decomposition, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetDecomposeHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnRunStart(_ context.Context, nodes int) {
	m.inputNodes.Observe(float64(nodes))
}

func (m *Metrics) OnRunComplete(_ context.Context, iterations, merges int, d time.Duration, err error) {
	m.runs.WithLabelValues(outcome(err)).Inc()
	m.runDuration.Observe(d.Seconds())
	m.runIterations.Observe(float64(iterations))
	m.merges.Add(float64(merges))
}

func (m *Metrics) OnPass(_ context.Context, pass string, matched int) {
	m.passMatches.WithLabelValues(pass).Add(float64(matched))
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, _ error) {
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.DecomposeHooks = (*Metrics)(nil)
	_ observability.CacheHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)
