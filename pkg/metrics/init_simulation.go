package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.SimTicksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowsim_ticks_total",
			Help: "Timer ticks evaluated, by outcome (applied, throttled, paused)",
		},
		[]string{"result"},
	)

	r.SimStepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flowsim_steps_total",
			Help: "Simulation steps applied",
		},
	)

	r.SimTransitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowsim_transitions_total",
			Help: "State transitions applied, by kind and resulting state",
		},
		[]string{"kind", "to"},
	)

	r.SimRespawnsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flowsim_respawns_total",
			Help: "Entry nodes re-activated by the keep-alive rule",
		},
	)

	r.SimStepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowsim_step_duration_seconds",
			Help:    "Wall time spent applying one step",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
	)

	r.SimNodeStates = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowsim_node_states",
			Help: "Current number of nodes per state",
		},
		[]string{"state"},
	)

	r.SimSpeed = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowsim_speed",
			Help: "Current playback speed multiplier",
		},
	)

	r.SimPaused = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowsim_paused",
			Help: "Whether the simulation is paused (1) or running (0)",
		},
	)
}
