package sorting

import "github.com/aretw0/stepsort/pkg/domain"

// span is an inclusive index range waiting on a work-list.
type span struct {
	low, high int
}

// QuickSort keeps the recursion as an explicit stack of pending ranges.
// Each step pops ranges until it finds one with at least two elements and
// runs one full Lomuto partition pass on it, pivoting on the last element.
// The right sub-range is pushed before the left one, so ranges are visited
// depth-first from left to right.
type QuickSort struct {
	tally
	started    bool
	stack      []span
	partitions int
}

// NewQuick returns a quick sorter in its initial configuration.
func NewQuick() *QuickSort {
	return &QuickSort{tally: newTally()}
}

func (s *QuickSort) Name() string { return string(Quick) }

func (s *QuickSort) Reset() { *s = *NewQuick() }

func (s *QuickSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}
	if !s.started {
		s.started = true
		s.stack = append(s.stack, span{0, n - 1})
	}

	for len(s.stack) > 0 {
		r := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if r.low >= r.high {
			continue
		}

		p := s.partition(seq, r.low, r.high)
		if p+1 < r.high {
			s.stack = append(s.stack, span{p + 1, r.high})
		}
		if p > r.low+1 {
			s.stack = append(s.stack, span{r.low, p - 1})
		}
		s.mark(r.low, r.high, domain.Switching)
		return false
	}
	return s.finish()
}

// partition moves everything <= pivot in front of it and returns the
// pivot's final index. Every comparison is counted; exchanges are counted
// when they move something, and the pivot placement always counts as one.
func (s *QuickSort) partition(seq []int, low, high int) int {
	s.partitions++
	pivot := seq[high]
	i := low
	for j := low; j < high; j++ {
		s.comparisons++
		if seq[j] <= pivot {
			if i != j {
				seq[i], seq[j] = seq[j], seq[i]
				s.swaps++
			}
			i++
		}
	}
	seq[i], seq[high] = seq[high], seq[i]
	s.swaps++
	return i
}
