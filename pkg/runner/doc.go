/*
Package runner drives a steppable sorter over a sequence of numbers.

It is the bridge between the core sorting state machines and the outside
world: it owns the numbers being sorted (and the original copy used by
Reset), tracks the run status, counts steps, and reports every transition
through lifecycle hooks. The runner decides nothing about cadence; callers
either Step manually or Play with a delay.

# Usage

	r, err := runner.New("heap", []int{5, 3, 1, 4, 2},
		runner.WithLogger(logger),
		runner.WithHooks(metrics.Hooks()),
	)
	if err != nil {
		log.Fatal(err)
	}

	err = r.Play(ctx, 20*time.Millisecond, func(f domain.Frame, numbers []int) {
		render(numbers, f.Highlight, f.Reason)
	})
*/
package runner
