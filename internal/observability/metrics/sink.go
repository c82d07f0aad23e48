// Package metrics emits application metrics through a small Sink interface
// backed by the Prometheus client.
package metrics

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sink describes the minimal interface required to emit metrics.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// NoopSink discards every metric.
type NoopSink struct{}

func (NoopSink) Count(string, int64, map[string]string)          {}
func (NoopSink) Gauge(string, float64, map[string]string)        {}
func (NoopSink) Timing(string, time.Duration, map[string]string) {}

// PrometheusConfig configures a PrometheusSink.
type PrometheusConfig struct {
	Namespace string
	// Registry defaults to a fresh registry when nil.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// PrometheusSink maps dotted metric names onto Prometheus vectors created on first use.
// The label set of a name is fixed by its first emission; later emissions with a
// different tag set are dropped and logged.
type PrometheusSink struct {
	namespace string
	registry  *prometheus.Registry
	logger    *slog.Logger

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
	timings  map[string]*prometheus.HistogramVec
}

var _ Sink = (*PrometheusSink)(nil)

// NewPrometheusSink creates a sink and registers the Go and process collectors.
func NewPrometheusSink(cfg PrometheusConfig) *PrometheusSink {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PrometheusSink{
		namespace: cfg.Namespace,
		registry:  reg,
		logger:    logger.With("component", "metrics"),
		counters:  make(map[string]*prometheus.CounterVec),
		gauges:    make(map[string]*prometheus.GaugeVec),
		timings:   make(map[string]*prometheus.HistogramVec),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (s *PrometheusSink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

// Registry returns the underlying registry.
func (s *PrometheusSink) Registry() *prometheus.Registry { return s.registry }

// Count adds value to the counter name_total.
func (s *PrometheusSink) Count(name string, value int64, tags map[string]string) {
	if value < 0 {
		return
	}
	s.mu.Lock()
	vec, ok := s.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: s.namespace,
			Name:      metricName(name) + "_total",
			Help:      "Count of " + name + ".",
		}, labelNames(tags))
		vec = registerOrExisting(s.registry, vec)
		s.counters[name] = vec
	}
	s.mu.Unlock()

	c, err := vec.GetMetricWith(prometheus.Labels(tags))
	if err != nil {
		s.drop(name, err)
		return
	}
	c.Add(float64(value))
}

// Gauge sets the gauge name to value.
func (s *PrometheusSink) Gauge(name string, value float64, tags map[string]string) {
	s.mu.Lock()
	vec, ok := s.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: s.namespace,
			Name:      metricName(name),
			Help:      "Current value of " + name + ".",
		}, labelNames(tags))
		vec = registerOrExisting(s.registry, vec)
		s.gauges[name] = vec
	}
	s.mu.Unlock()

	g, err := vec.GetMetricWith(prometheus.Labels(tags))
	if err != nil {
		s.drop(name, err)
		return
	}
	g.Set(value)
}

// Timing observes value in seconds on the histogram name_seconds.
func (s *PrometheusSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.mu.Lock()
	vec, ok := s.timings[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: s.namespace,
			Name:      metricName(name) + "_seconds",
			Help:      "Duration of " + name + ".",
			Buckets:   prometheus.DefBuckets,
		}, labelNames(tags))
		vec = registerOrExisting(s.registry, vec)
		s.timings[name] = vec
	}
	s.mu.Unlock()

	h, err := vec.GetMetricWith(prometheus.Labels(tags))
	if err != nil {
		s.drop(name, err)
		return
	}
	h.Observe(value.Seconds())
}

func (s *PrometheusSink) drop(name string, err error) {
	s.logger.Debug("metric dropped", "name", name, "error", err)
}

func registerOrExisting[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// metricName turns "sweep.jobs_changed" into "sweep_jobs_changed".
func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(strings.ToLower(name))
}

func labelNames(tags map[string]string) []string {
	out := make([]string, 0, len(tags))
	for k := range tags {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
