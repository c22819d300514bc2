// Package metrics records what a nodectl run did to the cluster: how many
// nodes were probed, how they answered, how long probes took and how many
// task listings were fetched. A run can write the result in Prometheus text
// format for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nodectl"

var probeBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Probe holds the metrics of one run. A nil *Probe records nothing, so
// components can call it unconditionally.
type Probe struct {
	registry    *prometheus.Registry
	probes      *prometheus.CounterVec
	latency     prometheus.Histogram
	taskFetches *prometheus.CounterVec
}

// New creates a Probe backed by its own registry.
func New() *Probe {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Probe{
		registry: reg,
		probes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Reachability probes by result (online, offline).",
		}, []string{"result"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Time taken by a reachability probe.",
			Buckets:   probeBuckets,
		}),
		taskFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_fetches_total",
			Help:      "Active task listings fetched by result (ok, error).",
		}, []string{"result"}),
	}
}

// ObserveProbe records one probe.
func (p *Probe) ObserveProbe(online bool, d time.Duration) {
	if p == nil {
		return
	}
	result := "offline"
	if online {
		result = "online"
	}
	p.probes.WithLabelValues(result).Inc()
	p.latency.Observe(d.Seconds())
}

// ObserveTaskFetch records one active task listing.
func (p *Probe) ObserveTaskFetch(err error) {
	if p == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.taskFetches.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (p *Probe) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (p *Probe) WriteTextfile(path string) error {
	if p == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, p.registry)
}
