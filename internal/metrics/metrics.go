// Package metrics wires the runtime's own activity into a
// prometheus.Registry: circuit step counts, the trace spine's level
// distribution (spec.md §4.D "Spine"), and merge fuel spent
// (spec.md §4.C/§8's fuel-accounting invariants). A flowcore embedder
// supplies its own *prometheus.Registry the way the retrieved pack's
// own service core does, rather than this package reaching for the
// global default registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Circuit groups the counters and histograms one running circuit
// reports. Every field is safe to use concurrently from multiple
// worker goroutines, since the client_golang collectors it wraps
// already are.
type Circuit struct {
	Steps       *prometheus.CounterVec
	SpineLevel  prometheus.Histogram
	FuelSpent   prometheus.Counter
	GatherWaits *prometheus.CounterVec
	Fixedpoints prometheus.Counter
}

// NewCircuit registers a fresh set of circuit collectors on reg and
// returns the handle used to record against them. Calling this twice
// with the same reg panics, the same way any other collector
// double-registration in client_golang does; one Circuit serves every
// worker of a run, since Steps and GatherWaits are labeled by worker id.
func NewCircuit(reg prometheus.Registerer) *Circuit {
	c := &Circuit{
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcore",
			Subsystem: "circuit",
			Name:      "steps_total",
			Help:      "Number of Step calls executed, labeled by worker.",
		}, []string{"worker"}),
		SpineLevel: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowcore",
			Subsystem: "trace",
			Name:      "spine_level",
			Help:      "Spine level a batch merged into, observed per merge.",
			Buckets:   prometheus.LinearBuckets(0, 1, 16),
		}),
		FuelSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowcore",
			Subsystem: "trace",
			Name:      "fuel_spent_total",
			Help:      "Cumulative merge fuel spent across all spine levels.",
		}),
		GatherWaits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcore",
			Subsystem: "exchange",
			Name:      "gather_waits_total",
			Help:      "Times a gather receiver blocked waiting on a producer, labeled by worker.",
		}, []string{"worker"}),
		Fixedpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowcore",
			Subsystem: "circuit",
			Name:      "fixedpoints_total",
			Help:      "Times RunToFixedpoint observed every worker converge.",
		}),
	}
	reg.MustRegister(c.Steps, c.SpineLevel, c.FuelSpent, c.GatherWaits, c.Fixedpoints)
	return c
}
