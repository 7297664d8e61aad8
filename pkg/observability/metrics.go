package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Turns            prometheus.Counter
	Unrecognized     prometheus.Counter
	SkillExecutions  *prometheus.CounterVec
	SkillFailures    *prometheus.CounterVec
	SleepTransitions prometheus.Counter
	RegisteredSkills prometheus.Gauge
}

// NewMetrics creates and registers the engine collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "turns_total",
			Help:      "Number of processed user turns.",
		}),
		Unrecognized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "unrecognized_inputs_total",
			Help:      "Number of turns that produced neither intents nor entities.",
		}),
		SkillExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "skill_executions_total",
			Help:      "Number of skill execution steps, per skill.",
		}, []string{"skill"}),
		SkillFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "skill_failures_total",
			Help:      "Number of skill executions rejected for contract violations.",
		}, []string{"skill"}),
		SleepTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "sleep_transitions_total",
			Help:      "Number of times the session idled into the sleep state.",
		}),
		RegisteredSkills: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parley",
			Name:      "registered_skills",
			Help:      "Number of currently registered skills.",
		}),
	}

	reg.MustRegister(
		m.Turns, m.Unrecognized, m.SkillExecutions,
		m.SkillFailures, m.SleepTransitions, m.RegisteredSkills,
	)
	return m
}
