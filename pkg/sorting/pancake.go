package sorting

import "github.com/aretw0/stepsort/pkg/domain"

// PancakeSort only reorders by prefix reversals ("flips"). Each step finds
// the largest element of the unsorted prefix (its last occurrence, so runs
// of equal values never move), flips it to the front, then
// flips the whole prefix so it lands at the prefix's last slot. Every
// non-trivial flip counts as one swap.
type PancakeSort struct {
	tally
	started bool
	size    int // length of the unsorted prefix
}

// NewPancake returns a pancake sorter in its initial configuration.
func NewPancake() *PancakeSort {
	return &PancakeSort{tally: newTally()}
}

func (s *PancakeSort) Name() string { return string(Pancake) }

func (s *PancakeSort) Reset() { *s = *NewPancake() }

func (s *PancakeSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	if !s.started {
		s.started = true
		s.size = len(seq)
	}
	if s.size <= 1 {
		return s.finish()
	}

	last := s.size - 1
	top := 0
	for i := 1; i < s.size; i++ {
		s.comparisons++
		if seq[i] >= seq[top] {
			top = i
		}
	}

	reason := domain.Comparing
	if top != last {
		if s.flip(seq, top) {
			reason = domain.Switching
		}
		if s.flip(seq, last) {
			reason = domain.Switching
		}
	}
	s.mark(top, last, reason)
	s.size--
	return false
}

// flip reverses seq[0..k]. A zero-length flip is a no-op and is not counted.
func (s *PancakeSort) flip(seq []int, k int) bool {
	if k <= 0 {
		return false
	}
	for i, j := 0, k; i < j; i, j = i+1, j-1 {
		seq[i], seq[j] = seq[j], seq[i]
	}
	s.swaps++
	return true
}
