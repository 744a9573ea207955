package sorting

import "github.com/aretw0/stepsort/pkg/domain"

// Sorter is the contract shared by every steppable algorithm.
//
// Sorters are not safe for concurrent use. The same slice must be passed to
// consecutive Step calls until Reset; Step never changes its length.
type Sorter interface {
	// Name returns the canonical algorithm name.
	Name() string

	// Step performs one unit of work on seq and reports whether the
	// sequence is now sorted. Calling Step after completion is a no-op
	// that returns true.
	Step(seq []int) bool

	// Special returns the index pair touched by the most recent step, or
	// the Sentinel pair when nothing is highlighted.
	Special() (int, int)

	// Reason classifies the most recent step.
	Reason() domain.Reason

	// IsFinished reports whether the sequence is ordered and no further
	// step will mutate it.
	IsFinished() bool

	// Comparisons returns the number of comparisons since the last reset.
	Comparisons() int

	// Swaps returns the number of exchanges since the last reset.
	Swaps() int

	// Reset returns the sorter to its initial configuration. It does not
	// touch any sequence.
	Reset()
}

// tally holds the bookkeeping every sorter shares: highlight, reason,
// counters and the finished flag. Sorters embed it and get the query half
// of the Sorter interface for free.
type tally struct {
	first, second int
	reason        domain.Reason
	comparisons   int
	swaps         int
	finished      bool
}

func newTally() tally {
	return tally{first: domain.Sentinel, second: domain.Sentinel, reason: domain.Comparing}
}

func (t *tally) Special() (int, int)   { return t.first, t.second }
func (t *tally) Reason() domain.Reason { return t.reason }
func (t *tally) IsFinished() bool      { return t.finished }
func (t *tally) Comparisons() int      { return t.comparisons }
func (t *tally) Swaps() int            { return t.swaps }

// compare counts one comparison of positions i and j and highlights them.
func (t *tally) compare(i, j int) {
	t.comparisons++
	t.mark(i, j, domain.Comparing)
}

// exchange swaps seq[i] and seq[j], counts it and highlights the pair.
func (t *tally) exchange(seq []int, i, j int) {
	seq[i], seq[j] = seq[j], seq[i]
	t.swaps++
	t.mark(i, j, domain.Switching)
}

func (t *tally) mark(i, j int, r domain.Reason) {
	t.first, t.second = i, j
	t.reason = r
}

// finish marks the sorter complete and clears the highlight.
func (t *tally) finish() bool {
	t.finished = true
	t.first, t.second = domain.Sentinel, domain.Sentinel
	t.reason = domain.Comparing
	return true
}
