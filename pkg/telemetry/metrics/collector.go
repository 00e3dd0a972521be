package metrics

import (
	"relog-hq/relog/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector manages the Prometheus metrics exported by the request log
// recorder. All metrics live in a private registry so the middleware can be
// embedded in a host process without colliding with its metrics.
//
// Metrics:
//   - relog_recorder_writes_total: store writes by record type
//   - relog_recorder_write_failures_total: failed store operations by operation
//   - relog_recorder_deletes_total: stale keys deleted after type migration
//   - relog_recorder_id_failures_total: failed record ID acquisitions
//   - relog_recorder_breaker_open: whether the store circuit breaker is open
//   - relog_recorder_request_duration_seconds: request duration by terminal type
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	writesTotal        *prometheus.CounterVec
	writeFailuresTotal *prometheus.CounterVec
	deletesTotal       prometheus.Counter
	idFailuresTotal    prometheus.Counter
	breakerOpen        prometheus.Gauge
	requestDuration    *prometheus.HistogramVec
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new private registry is
// created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "relog"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "recorder"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "writes_total",
				Help:      "Total number of record writes to the store",
			},
			[]string{"type"},
		),

		writeFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "write_failures_total",
				Help:      "Total number of failed store operations",
			},
			[]string{"operation"},
		),

		deletesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "deletes_total",
				Help:      "Total number of stale record keys deleted after type migration",
			},
		),

		idFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "id_failures_total",
				Help:      "Total number of failed record ID acquisitions",
			},
		),

		breakerOpen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "breaker_open",
				Help:      "Whether the store circuit breaker is currently open (1) or closed (0)",
			},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of recorded requests in seconds, by terminal type",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(
		c.writesTotal,
		c.writeFailuresTotal,
		c.deletesTotal,
		c.idFailuresTotal,
		c.breakerOpen,
		c.requestDuration,
	)

	return c
}

// RecordWrite records a successful store write of the given record type.
func (c *Collector) RecordWrite(recordType string) {
	if !c.config.Enabled {
		return
	}
	c.writesTotal.WithLabelValues(recordType).Inc()
}

// RecordWriteFailure records a failed store operation ("incr", "setex", "del").
func (c *Collector) RecordWriteFailure(operation string) {
	if !c.config.Enabled {
		return
	}
	c.writeFailuresTotal.WithLabelValues(operation).Inc()
}

// RecordDelete records the deletion of a stale record key.
func (c *Collector) RecordDelete() {
	if !c.config.Enabled {
		return
	}
	c.deletesTotal.Inc()
}

// RecordIDFailure records a failed record ID acquisition.
func (c *Collector) RecordIDFailure() {
	if !c.config.Enabled {
		return
	}
	c.idFailuresTotal.Inc()
}

// SetBreakerOpen sets the circuit breaker state gauge.
func (c *Collector) SetBreakerOpen(open bool) {
	if !c.config.Enabled {
		return
	}
	if open {
		c.breakerOpen.Set(1)
	} else {
		c.breakerOpen.Set(0)
	}
}

// ObserveRequestDuration records the duration of a completed request under
// its terminal type.
func (c *Collector) ObserveRequestDuration(recordType string, seconds float64) {
	if !c.config.Enabled {
		return
	}
	c.requestDuration.WithLabelValues(recordType).Observe(seconds)
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
