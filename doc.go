/*
Package stepsort animates classic sorting algorithms one step at a time.

Every sorter is a resumable state machine: each call to Step performs the
smallest visible unit of work (one comparison, one swap, one write) and then
returns, leaving behind the index pair it touched and whether anything
moved. A host (the terminal visualizer, the HTTP API or the MCP server)
decides the cadence and renders the numbers between steps.

# Usage

	r, err := stepsort.New("heap", []int{5, 3, 1, 4, 2}, stepsort.WithSeed(7))
	if err != nil {
		log.Fatal(err)
	}
	for f, numbers := range stepsort.Frames(ctx, r) {
		fmt.Println(f.Step, f.Highlight, numbers)
	}

Sort runs an algorithm to completion and reports the final frame:

	res, err := stepsort.Sort(ctx, "quick", numbers)

# Packages

  - pkg/sorting: the fourteen sorter state machines.
  - pkg/runner: a single run with lifecycle hooks, reset and replay.
  - pkg/session: persisted runs restored by deterministic replay.
  - pkg/adapters: memory, file and redis stores plus the HTTP and MCP servers.
*/
package stepsort
