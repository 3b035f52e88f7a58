package prometheus

import (
	"net/http"

	agriAuth "github.com/agrovia/agriAuth"
	"github.com/agrovia/agriAuth/metrics/export/internaldefs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsSource interface {
	MetricsSnapshot() agriAuth.MetricsSnapshot
	AuditDropped() uint64
}

type observedCounter struct {
	id   agriAuth.MetricID
	desc *prometheus.Desc
}

// Collector implements [prometheus.Collector] over a metrics source.
type Collector struct {
	source       metricsSource
	counters     []observedCounter
	auditDropped *prometheus.Desc
}

// NewCollector creates a collector that reads from core.
func NewCollector(core *agriAuth.Core) *Collector {
	return NewCollectorFromSource(core)
}

// NewCollectorFromSource creates a collector over a custom source.
func NewCollectorFromSource(source metricsSource) *Collector {
	c := &Collector{
		source:   source,
		counters: make([]observedCounter, 0, len(internaldefs.CounterDefs)),
		auditDropped: prometheus.NewDesc(
			"agriauth_audit_dropped_total",
			"Dropped audit events due to dispatcher backpressure.",
			nil, nil,
		),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, observedCounter{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	return c
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, counter := range c.counters {
		ch <- counter.desc
	}
	ch <- c.auditDropped
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.source == nil {
		return
	}

	snapshot := c.source.MetricsSnapshot()
	for _, counter := range c.counters {
		ch <- prometheus.MustNewConstMetric(
			counter.desc,
			prometheus.CounterValue,
			float64(snapshot.Counters[counter.id]),
		)
	}
	ch <- prometheus.MustNewConstMetric(
		c.auditDropped,
		prometheus.CounterValue,
		float64(c.source.AuditDropped()),
	)
}

// Handler serves the source's metrics from a private registry. Deployments
// with an existing registry register a [Collector] there instead.
func Handler(source metricsSource) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollectorFromSource(source))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
