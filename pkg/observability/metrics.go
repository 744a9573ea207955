package observability

import (
	"context"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for sorting runs.
type Metrics struct {
	Steps       *prometheus.CounterVec
	Finished    *prometheus.CounterVec
	Resets      *prometheus.CounterVec
	Comparisons *prometheus.HistogramVec
	Swaps       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	buckets := prometheus.ExponentialBuckets(1, 4, 10)
	m := &Metrics{
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepsort_steps_total",
				Help: "Total number of sorter steps, by algorithm and reason",
			},
			[]string{"algorithm", "reason"},
		),
		Finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepsort_runs_finished_total",
				Help: "Total number of runs that reached a sorted state",
			},
			[]string{"algorithm"},
		),
		Resets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepsort_resets_total",
				Help: "Total number of run resets",
			},
			[]string{"algorithm"},
		),
		Comparisons: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepsort_run_comparisons",
				Help:    "Comparisons performed by finished runs",
				Buckets: buckets,
			},
			[]string{"algorithm"},
		),
		Swaps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepsort_run_swaps",
				Help:    "Swaps performed by finished runs",
				Buckets: buckets,
			},
			[]string{"algorithm"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Steps, m.Finished, m.Resets, m.Comparisons, m.Swaps)
	}
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Frame.Algorithm, e.Frame.Reason.String()).Inc()
		},
		OnFinish: func(_ context.Context, e *domain.StepEvent) {
			alg := e.Frame.Algorithm
			m.Finished.WithLabelValues(alg).Inc()
			m.Comparisons.WithLabelValues(alg).Observe(float64(e.Frame.Comparisons))
			m.Swaps.WithLabelValues(alg).Observe(float64(e.Frame.Swaps))
		},
		OnReset: func(_ context.Context, e *domain.StepEvent) {
			m.Resets.WithLabelValues(e.Frame.Algorithm).Inc()
		},
	}
}
