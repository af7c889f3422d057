package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported on /metrics. Each instance owns
// its registry so tests and multiple servers do not collide.
type Metrics struct {
	reg *prometheus.Registry

	PageRenders     *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	ActiveListeners prometheus.Gauge
	CatalogReloads  *prometheus.CounterVec
	CatalogEvents   prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		PageRenders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpage",
			Name:      "page_renders_total",
			Help:      "Rendered event pages by view (summary, detail, ics).",
		}, []string{"view"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpage",
			Name:      "view_transitions_total",
			Help:      "Summary/Detail transitions in interactive front-ends.",
		}, []string{"from", "to"}),
		ActiveListeners: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventpage",
			Name:      "pointer_listeners",
			Help:      "Outside-click listeners currently attached.",
		}),
		CatalogReloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpage",
			Name:      "catalog_reloads_total",
			Help:      "Catalog reloads by result (ok, error).",
		}, []string{"result"}),
		CatalogEvents: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventpage",
			Name:      "catalog_events",
			Help:      "Records in the catalog currently served.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
