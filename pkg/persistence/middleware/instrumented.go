package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the collectors fed by the instrumented middleware.
type StoreMetrics struct {
	Duration *prometheus.HistogramVec
	Errors   *prometheus.CounterVec
}

// NewStoreMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepsort_store_duration_seconds",
				Help:    "Latency of session store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepsort_store_errors_total",
				Help: "Session store operations that failed (not-found excluded)",
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Duration, m.Errors)
	}
	return m
}

type instrumentedMiddleware struct {
	next    ports.SessionStore
	metrics *StoreMetrics
	logger  *slog.Logger
}

// NewInstrumentedMiddleware times every store call and logs failures.
func NewInstrumentedMiddleware(metrics *StoreMetrics, logger *slog.Logger) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &instrumentedMiddleware{next: next, metrics: metrics, logger: logger}
	}
}

func (m *instrumentedMiddleware) observe(op, sessionID string, start time.Time, err error) {
	m.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		return
	}
	m.metrics.Errors.WithLabelValues(op).Inc()
	m.logger.Error("session store operation failed", "op", op, "session_id", sessionID, "err", err)
}

func (m *instrumentedMiddleware) Save(ctx context.Context, sessionID string, session *domain.Session) (err error) {
	defer func(start time.Time) { m.observe("save", sessionID, start, err) }(time.Now())
	return m.next.Save(ctx, sessionID, session)
}

func (m *instrumentedMiddleware) Load(ctx context.Context, sessionID string) (s *domain.Session, err error) {
	defer func(start time.Time) { m.observe("load", sessionID, start, err) }(time.Now())
	return m.next.Load(ctx, sessionID)
}

func (m *instrumentedMiddleware) Delete(ctx context.Context, sessionID string) (err error) {
	defer func(start time.Time) { m.observe("delete", sessionID, start, err) }(time.Now())
	return m.next.Delete(ctx, sessionID)
}

func (m *instrumentedMiddleware) List(ctx context.Context) (ids []string, err error) {
	defer func(start time.Time) { m.observe("list", "", start, err) }(time.Now())
	return m.next.List(ctx)
}
