// Package metrics exposes the engine's Prometheus collectors (C13): event
// throughput, action outcomes, dispatch latency, and registry size.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "midiflux"

var (
	// EventsReceived counts every normalized event the dispatcher saw,
	// labeled by device and event kind.
	EventsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_received_total",
		Help:      "MIDI events received, by device and kind.",
	}, []string{"device", "kind"})

	// ActionsExecuted counts every action execution, labeled by action
	// $type and outcome ("ok" or "error").
	ActionsExecuted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_executed_total",
		Help:      "Actions executed, by action type and outcome.",
	}, []string{"type", "outcome"})

	// DispatchLatency observes wall-clock time from event receipt to the
	// last action in its mapping list completing. A dispatch whose matched
	// action trees contain a Delay or a waited CommandExecution is not
	// observed at all.
	DispatchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_latency_seconds",
		Help:      "Event-to-last-action dispatch latency.",
		Buckets:   []float64{.0005, .001, .002, .003, .005, .008, .013, .021, .034, .055, .1},
	}, []string{"device"})

	// SlowDispatches counts dispatches whose latency exceeded the
	// configured threshold (§5's "5ms by default, excluding Delay and
	// waited CommandExecution").
	SlowDispatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slow_dispatches_total",
		Help:      "Dispatches exceeding the configured latency threshold.",
	}, []string{"device"})

	// RegistrySize reports the active profile's mapping count.
	RegistrySize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "registry_mappings",
		Help:      "Number of mappings in the currently active registry.",
	})
)

// MustRegister registers every collector against reg. Call once at
// startup; a second call against the same registry panics, matching
// Prometheus's own double-registration behavior.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(EventsReceived, ActionsExecuted, DispatchLatency, SlowDispatches, RegistrySize)
}
