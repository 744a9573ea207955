package stepsort

import (
	"context"
	"iter"
	"log/slog"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/runner"
	"github.com/aretw0/stepsort/pkg/sorting"
)

// DefaultStepLimit bounds Sort. Bogo sort on more than a handful of
// elements will hit it.
const DefaultStepLimit = 10_000_000

type settings struct {
	runnerOpts []runner.Option
	limit      int
}

// Option configures New and Sort.
type Option func(*settings)

// WithSeed seeds randomized sorters so a run can be replayed.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.runnerOpts = append(s.runnerOpts, runner.WithSeed(seed))
	}
}

// WithLogger sets a structured logger for the run.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.runnerOpts = append(s.runnerOpts, runner.WithLogger(logger))
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.runnerOpts = append(s.runnerOpts, runner.WithHooks(hooks))
	}
}

// WithStepLimit overrides DefaultStepLimit for Sort. Zero or less disables it.
func WithStepLimit(n int) Option {
	return func(s *settings) {
		s.limit = n
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{limit: DefaultStepLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Algorithms returns the canonical names of every sorter in menu order.
func Algorithms() []string {
	algs := sorting.Algorithms()
	out := make([]string, len(algs))
	for i, a := range algs {
		out[i] = string(a)
	}
	return out
}

// New creates a runner for algorithm over a copy of numbers.
func New(algorithm string, numbers []int, opts ...Option) (*runner.Runner, error) {
	return runner.New(algorithm, numbers, newSettings(opts).runnerOpts...)
}

// Result is the outcome of Sort.
type Result struct {
	Numbers []int
	Frame   domain.Frame
}

// Sort steps algorithm over numbers until it finishes.
func Sort(ctx context.Context, algorithm string, numbers []int, opts ...Option) (Result, error) {
	s := newSettings(opts)
	r, err := runner.New(algorithm, numbers, s.runnerOpts...)
	if err != nil {
		return Result{}, err
	}
	f, err := r.RunToCompletion(ctx, s.limit)
	return Result{Numbers: r.Numbers(), Frame: f}, err
}

// Frames steps r until it finishes or ctx is done, yielding each frame
// with a copy of the numbers as they stand after the step.
func Frames(ctx context.Context, r *runner.Runner) iter.Seq2[domain.Frame, []int] {
	return func(yield func(domain.Frame, []int) bool) {
		for r.Status() != domain.StatusFinished && ctx.Err() == nil {
			f := r.Step(ctx)
			if !yield(f, r.Numbers()) {
				return
			}
		}
	}
}
