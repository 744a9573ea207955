package sorting

import "github.com/aretw0/stepsort/pkg/domain"

type mergePhase uint8

const (
	phaseSplit mergePhase = iota
	phaseMerge
)

// mergeTask is one entry of the merge sort work-list.
type mergeTask struct {
	low, high int
	phase     mergePhase
}

// MergeSort is a top-down merge sort driven by an explicit work-list.
//
// A split entry for [low, high] pushes a merge entry for the same range and
// then the two halves as split entries (right first, so the left half is
// processed first). A merge entry merges its two sorted halves in one step
// using a scratch buffer sized to the whole sequence. Single-element ranges
// are dropped without spending a step.
type MergeSort struct {
	tally
	started bool
	stack   []mergeTask
	scratch []int
}

// NewMerge returns a merge sorter in its initial configuration.
func NewMerge() *MergeSort {
	return &MergeSort{tally: newTally()}
}

func (s *MergeSort) Name() string { return string(Merge) }

func (s *MergeSort) Reset() { *s = *NewMerge() }

func (s *MergeSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}
	if !s.started {
		s.started = true
		s.scratch = make([]int, n)
		s.stack = append(s.stack, mergeTask{0, n - 1, phaseSplit})
	}

	for len(s.stack) > 0 {
		t := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		switch t.phase {
		case phaseSplit:
			if t.low >= t.high {
				continue
			}
			mid := t.low + (t.high-t.low)/2
			s.stack = append(s.stack,
				mergeTask{t.low, t.high, phaseMerge},
				mergeTask{mid + 1, t.high, phaseSplit},
				mergeTask{t.low, mid, phaseSplit},
			)
			s.mark(t.low, t.high, domain.Comparing)
		case phaseMerge:
			s.merge(seq, t.low, t.high)
			s.mark(t.low, t.high, domain.Switching)
		}
		return false
	}
	return s.finish()
}

// merge merges seq[low..mid] and seq[mid+1..high]. Ties take the left
// element, which keeps the sort stable. A write that changes the value held
// by a slot counts as a swap.
func (s *MergeSort) merge(seq []int, low, high int) {
	mid := low + (high-low)/2
	copy(s.scratch[low:high+1], seq[low:high+1])

	left, right, k := low, mid+1, low
	for left <= mid && right <= high {
		s.comparisons++
		if s.scratch[left] <= s.scratch[right] {
			s.place(seq, k, s.scratch[left])
			left++
		} else {
			s.place(seq, k, s.scratch[right])
			right++
		}
		k++
	}
	for ; left <= mid; left, k = left+1, k+1 {
		s.place(seq, k, s.scratch[left])
	}
	// The rest of the right half is already in place.
}

func (s *MergeSort) place(seq []int, k, v int) {
	if seq[k] != v {
		seq[k] = v
		s.swaps++
	}
}
