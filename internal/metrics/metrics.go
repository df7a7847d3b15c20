// Package metrics exposes run results as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fjglira/storeflow/internal/domain"
)

const namespace = "storeflow"

// Collector holds the storeflow collectors. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	scenarios      *prometheus.CounterVec   // by kind and result (passed/failed)
	duration       *prometheus.HistogramVec // by kind
	probeMisses    *prometheus.CounterVec   // by probe name
	sessionRetries prometheus.Counter
	runs           prometheus.Counter
	lastRunFailed  prometheus.Gauge
}

// New creates a Collector registered on its own registry.
func New() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Scenarios executed, by kind and result",
		}, []string{"kind", "result"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Scenario wall time in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"kind"}),

		probeMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_misses_total",
			Help:      "Soft checks that did not hit, by probe",
		}, []string{"probe"}),

		sessionRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_open_retries_total",
			Help:      "Session opens retried after a connection reset",
		}),

		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Suite runs completed",
		}),

		lastRunFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failed_scenarios",
			Help:      "Failed scenarios in the most recent run",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.scenarios, c.duration, c.probeMisses, c.sessionRetries, c.runs, c.lastRunFailed,
	} {
		if err := c.registry.Register(col); err != nil {
			return nil, domain.NewError("metrics", "", 0, "register collector", err)
		}
	}
	return c, nil
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveOutcome records one finished scenario.
func (c *Collector) ObserveOutcome(o domain.Outcome) {
	if c == nil {
		return
	}
	result := "passed"
	if !o.Passed() {
		result = "failed"
	}
	kind := o.Kind
	if kind == "" {
		kind = "custom"
	}
	c.scenarios.WithLabelValues(kind, result).Inc()
	c.duration.WithLabelValues(kind).Observe(o.Duration.Seconds())
	for _, d := range o.Diagnostics {
		if !d.Hit {
			c.probeMisses.WithLabelValues(d.Probe).Inc()
		}
	}
}

// SessionRetried records a session open retried after a connection reset.
func (c *Collector) SessionRetried() {
	if c == nil {
		return
	}
	c.sessionRetries.Inc()
}

// ObserveReport records a completed run.
func (c *Collector) ObserveReport(r *domain.Report) {
	if c == nil {
		return
	}
	c.runs.Inc()
	c.lastRunFailed.Set(float64(r.Failed()))
}

// WriteTextfile writes every collector in the Prometheus text format, for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return domain.NewError("metrics", path, 0, "write textfile", err)
	}
	return nil
}
