package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep   EventType = "step"
	EventFinish EventType = "finish"
	EventReset  EventType = "reset"
)

// StepEvent describes one driver-visible transition of a run.
type StepEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
	Frame     Frame     `json:"frame"`
}

// LifecycleHooks defines callbacks for run observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnStep   func(context.Context, *StepEvent)
	OnFinish func(context.Context, *StepEvent)
	OnReset  func(context.Context, *StepEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep:   chain(h.OnStep, other.OnStep),
		OnFinish: chain(h.OnFinish, other.OnFinish),
		OnReset:  chain(h.OnReset, other.OnReset),
	}
}

func chain(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
