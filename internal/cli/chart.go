package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/stepsort/internal/presentation/chart"
	"github.com/aretw0/stepsort/pkg/runner"
)

// Chart advances a fresh run by steps (negative means to completion) and
// writes the resulting state as a Mermaid xychart.
func Chart(ctx context.Context, opts RunOptions, steps int, w io.Writer) error {
	opts = opts.withDefaults()
	numbers, err := resolveNumbers(opts)
	if err != nil {
		return err
	}
	r, err := runner.New(opts.Algorithm, numbers, runner.WithSeed(opts.Seed))
	if err != nil {
		return err
	}

	if steps < 0 {
		_, err = r.RunToCompletion(ctx, opts.Limit)
	} else {
		_, err = r.Advance(ctx, steps)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, chart.GenerateMermaid(r.Numbers(), r.Frame()))
	return err
}
