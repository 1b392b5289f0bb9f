// Package metrics exposes fee engine prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fee_engine"

// Collector records calculation, mutation and HTTP metrics on its own
// registry. It satisfies the MetricsCollector interfaces of the fee and
// feestructure services.
type Collector struct {
	registry *prometheus.Registry

	calculations        *prometheus.CounterVec
	calculationDuration prometheus.Histogram
	fallbacks           *prometheus.CounterVec
	cacheLookups        *prometheus.CounterVec
	mutations           *prometheus.CounterVec
	skippedRules        prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Fee calculations by outcome",
		}, []string{"outcome"}),
		calculationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time taken to compute a fee breakdown",
			Buckets:   prometheus.DefBuckets,
		}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculation_fallbacks_total",
			Help:      "Calculations that fell back to the default structure, by failing stage",
		}, []string{"stage"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_set_cache_lookups_total",
			Help:      "Rule set cache lookups by result",
		}, []string{"result"}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_structure_mutations_total",
			Help:      "Fee structure mutations by operation and result",
		}, []string{"operation", "result"}),
		skippedRules: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_rules_total",
			Help:      "Invalid rules skipped during fee structure updates",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (c *Collector) RecordCalculation(outcome string, duration time.Duration) {
	c.calculations.WithLabelValues(outcome).Inc()
	c.calculationDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordFallback(stage string) {
	c.fallbacks.WithLabelValues(stage).Inc()
}

func (c *Collector) RecordCacheHit()  { c.cacheLookups.WithLabelValues("hit").Inc() }
func (c *Collector) RecordCacheMiss() { c.cacheLookups.WithLabelValues("miss").Inc() }

func (c *Collector) RecordMutation(operation, result string) {
	c.mutations.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordSkippedRules(count int) {
	c.skippedRules.Add(float64(count))
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the collector's registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry for extra collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
