package sorting

import "github.com/aretw0/stepsort/pkg/domain"

// SelectionSort scans the unsorted suffix for its minimum one comparison
// per step. The exchange that places the minimum is deferred to the step
// after the scan ends.
type SelectionSort struct {
	tally
	pos  int // first unsorted position
	min  int // index of the smallest element seen so far
	scan int // next index to compare against min
}

// NewSelection returns a selection sorter in its initial configuration.
func NewSelection() *SelectionSort {
	return &SelectionSort{tally: newTally(), scan: 1}
}

func (s *SelectionSort) Name() string { return string(Selection) }

func (s *SelectionSort) Reset() { *s = *NewSelection() }

func (s *SelectionSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if s.pos >= n-1 {
		return s.finish()
	}

	if s.scan < n {
		s.compare(s.min, s.scan)
		if seq[s.scan] < seq[s.min] {
			s.min = s.scan
		}
		s.scan++
		return false
	}

	// Scan complete: place the minimum.
	if s.min != s.pos {
		s.exchange(seq, s.pos, s.min)
	} else {
		s.mark(s.pos, s.pos, domain.Comparing)
	}
	s.pos++
	s.min = s.pos
	s.scan = s.pos + 1
	return false
}
