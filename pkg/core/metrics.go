package core

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
)

// NodesCreated counts nodes built from a description.
var NodesCreated = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "katana",
	Name:      "nodes_created_total",
	Help:      "Nodes built from a description, including roots",
})

// NodesUnmounted counts nodes dropped by reconciliation.
var NodesUnmounted = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "katana",
	Name:      "nodes_unmounted_total",
	Help:      "Nodes dropped by reconciliation, including descendants of dropped nodes",
})

// NodeDraws counts nodes drawn into a container.
var NodeDraws = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "katana",
	Name:      "node_draws_total",
	Help:      "Nodes materialized into a container",
})

// Updates counts node updates, labeled skipped or applied.
var Updates = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "katana",
	Name:      "updates_total",
	Help:      "Node updates by result: skipped when props and state were unchanged, applied otherwise",
}, []string{"result"})

// Reorders counts BringToFront calls made during redraw.
var Reorders = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "katana",
	Name:      "container_reorders_total",
	Help:      "BringToFront calls issued to containers",
})

// Removals counts views removed from containers during redraw.
var Removals = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "katana",
	Name:      "container_removals_total",
	Help:      "Remove calls issued to containers",
})

// RegisterMetrics registers the reconciliation counters with reg.
// Counters that are already registered are left alone.
func RegisterMetrics(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		NodesCreated, NodesUnmounted, NodeDraws, Updates, Reorders, Removals,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if stderrors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
