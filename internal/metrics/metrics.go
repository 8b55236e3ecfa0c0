// Package metrics exposes scheduling outcomes as Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/fleet-scheduling/internal/model"
	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// Collector counts rejected and accepted schedule changes.  It satisfies
// scheduling.Recorder.
type Collector struct {
	registry  *prometheus.Registry
	rejected  *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

var _ scheduling.Recorder = (*Collector)(nil)

// New registers the fleet counters plus the Go and process collectors on a
// private registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_schedule_rejections_total",
			Help: "Schedule changes rejected by a feasibility rule.",
		}, []string{"entity", "kind"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_schedule_mutations_total",
			Help: "Schedule changes committed.",
		}, []string{"entity", "action"}),
	}
	c.registry.MustRegister(
		c.rejected,
		c.mutations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Rejected(entity string, kind scheduling.Kind) {
	c.rejected.WithLabelValues(entity, string(kind)).Inc()
}

func (c *Collector) Mutated(entity string, action model.AuditAction) {
	c.mutations.WithLabelValues(entity, string(action)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
