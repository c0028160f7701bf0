package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/armature/pkg/domain"
)

// Metrics exposes the engine's lifecycle as Prometheus collectors. Register
// it against a registry, then install Hooks() on the engine.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	BlocksDispatched *prometheus.CounterVec
	EffectorCalls    *prometheus.CounterVec
	EffectorDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with the registry.
// Pass prometheus.DefaultRegisterer for the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "armature_runs_total",
				Help: "Completed runs by outcome",
			},
			[]string{"outcome"},
		),
		BlocksDispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "armature_blocks_dispatched_total",
				Help: "Blocks dispatched by definition id",
			},
			[]string{"definition_id"},
		),
		EffectorCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "armature_effector_calls_total",
				Help: "Effector calls by capability and result",
			},
			[]string{"call", "result"},
		),
		EffectorDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "armature_effector_call_duration_seconds",
				Help:    "Duration of effector calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"call"},
		),
	}
	reg.MustRegister(m.RunsTotal, m.BlocksDispatched, m.EffectorCalls, m.EffectorDuration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			m.RunsTotal.WithLabelValues(string(ev.Outcome)).Inc()
		},
		OnBlockEnter: func(_ context.Context, ev *domain.BlockEvent) {
			m.BlocksDispatched.WithLabelValues(ev.DefinitionID).Inc()
		},
		OnEffectorReturn: func(_ context.Context, ev *domain.EffectorEvent) {
			result := "ok"
			if ev.IsError {
				result = "error"
			}
			m.EffectorCalls.WithLabelValues(ev.Call, result).Inc()
			m.EffectorDuration.WithLabelValues(ev.Call).Observe(ev.Duration.Seconds())
		},
	}
}
