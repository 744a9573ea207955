package runner

import (
	"log/slog"

	"github.com/aretw0/stepsort/pkg/domain"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithID tags the run; the ID is echoed in lifecycle events.
func WithID(id string) Option {
	return func(r *Runner) {
		r.id = id
	}
}

// WithSeed seeds randomized sorters so the run can be replayed.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(hooks)
	}
}
