package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/aretw0/stepsort/pkg/sorting"
)

// Runner owns one visualization run: the numbers, the active sorter and the
// run status. It is not safe for concurrent use.
type Runner struct {
	id        string
	algorithm string
	seed      uint64
	sorter    sorting.Sorter
	numbers   []int
	original  []int
	status    domain.Status
	steps     int

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// New creates a runner for algorithm over a copy of numbers.
func New(algorithm string, numbers []int, opts ...Option) (*Runner, error) {
	r := &Runner{
		seed:     sorting.DefaultSeed,
		numbers:  slices.Clone(numbers),
		original: slices.Clone(numbers),
		status:   domain.StatusStart,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	s, err := sorting.New(algorithm, sorting.WithSeed(r.seed))
	if err != nil {
		return nil, err
	}
	r.sorter = s
	r.algorithm = s.Name()
	return r, nil
}

// Observe adds lifecycle hooks to an existing runner.
func (r *Runner) Observe(hooks domain.LifecycleHooks) {
	r.hooks = r.hooks.Merge(hooks)
}

func (r *Runner) ID() string            { return r.id }
func (r *Runner) Algorithm() string     { return r.algorithm }
func (r *Runner) Seed() uint64          { return r.seed }
func (r *Runner) Status() domain.Status { return r.status }
func (r *Runner) Steps() int            { return r.steps }

// Numbers returns a copy of the numbers in their current order.
func (r *Runner) Numbers() []int { return slices.Clone(r.numbers) }

// Original returns a copy of the numbers as they were before the first step.
func (r *Runner) Original() []int { return slices.Clone(r.original) }

// Frame returns a snapshot of the run.
func (r *Runner) Frame() domain.Frame {
	first, second := r.sorter.Special()
	return domain.Frame{
		Algorithm:   r.algorithm,
		Step:        r.steps,
		Highlight:   domain.Highlight{First: first, Second: second},
		Reason:      r.sorter.Reason(),
		Status:      r.status,
		Comparisons: r.sorter.Comparisons(),
		Swaps:       r.sorter.Swaps(),
	}
}

// Step performs exactly one sorter step. Once the run is finished further
// calls return the final frame without touching the numbers.
func (r *Runner) Step(ctx context.Context) domain.Frame {
	if r.status == domain.StatusFinished {
		return r.Frame()
	}

	done := r.sorter.Step(r.numbers)
	r.steps++
	r.status = domain.StatusRunning
	if done {
		r.status = domain.StatusFinished
	}

	f := r.Frame()
	r.emit(ctx, r.hooks.OnStep, domain.EventStep, f)
	if done {
		r.audit()
		r.emit(ctx, r.hooks.OnFinish, domain.EventFinish, f)
	}
	return f
}

// Advance performs up to n steps, stopping early when the run finishes or
// ctx is cancelled.
func (r *Runner) Advance(ctx context.Context, n int) (domain.Frame, error) {
	for i := 0; i < n && r.status != domain.StatusFinished; i++ {
		if err := ctx.Err(); err != nil {
			return r.Frame(), err
		}
		r.Step(ctx)
	}
	return r.Frame(), nil
}

// RunToCompletion steps until the run finishes. A limit <= 0 means no
// limit; otherwise domain.ErrStepLimit is returned once limit steps have
// been taken without finishing.
func (r *Runner) RunToCompletion(ctx context.Context, limit int) (domain.Frame, error) {
	for r.status != domain.StatusFinished {
		if limit > 0 && r.steps >= limit {
			return r.Frame(), fmt.Errorf("%w: %s after %d steps", domain.ErrStepLimit, r.algorithm, r.steps)
		}
		if err := ctx.Err(); err != nil {
			return r.Frame(), err
		}
		r.Step(ctx)
	}
	return r.Frame(), nil
}

// Play steps continuously, one step per delay tick, calling fn after every
// step with the frame and the current numbers. It returns when the run
// finishes or ctx is cancelled. The numbers slice passed to fn must not be
// retained.
func (r *Runner) Play(ctx context.Context, delay time.Duration, fn func(domain.Frame, []int)) error {
	if delay <= 0 {
		delay = time.Millisecond
	}
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for r.status != domain.StatusFinished {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f := r.Step(ctx)
			if fn != nil {
				fn(f, r.numbers)
			}
		}
	}
	return nil
}

// Reset rewinds the sorter and restores the original numbers.
func (r *Runner) Reset(ctx context.Context) {
	r.sorter.Reset()
	r.numbers = slices.Clone(r.original)
	r.status = domain.StatusStart
	r.steps = 0
	r.emit(ctx, r.hooks.OnReset, domain.EventReset, r.Frame())
}

// Load replaces the numbers (and the original copy) and resets the run.
func (r *Runner) Load(ctx context.Context, numbers []int) {
	r.original = slices.Clone(numbers)
	r.Reset(ctx)
}

// Switch discards the active sorter for a new algorithm and resets the run.
func (r *Runner) Switch(ctx context.Context, algorithm string) error {
	s, err := sorting.New(algorithm, sorting.WithSeed(r.seed))
	if err != nil {
		return err
	}
	r.logger.Debug("switching algorithm", "from", r.algorithm, "to", s.Name())
	r.sorter = s
	r.algorithm = s.Name()
	r.Reset(ctx)
	return nil
}

func (r *Runner) emit(ctx context.Context, hook func(context.Context, *domain.StepEvent), typ domain.EventType, f domain.Frame) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		Timestamp: time.Now(),
		Type:      typ,
		RunID:     r.id,
		Frame:     f,
	})
}

// audit double-checks the completion signal against the numbers.
func (r *Runner) audit() {
	if !sequence.IsSorted(r.numbers) || !sequence.SameMultiset(r.numbers, r.original) {
		r.logger.Error("sorter reported completion on an unsorted sequence",
			"algorithm", r.algorithm,
			"run_id", r.id,
			"steps", r.steps,
		)
		return
	}
	r.logger.Debug("run finished",
		"algorithm", r.algorithm,
		"run_id", r.id,
		"steps", r.steps,
		"comparisons", r.sorter.Comparisons(),
		"swaps", r.sorter.Swaps(),
	)
}
