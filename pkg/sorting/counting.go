package sorting

import "github.com/aretw0/stepsort/pkg/domain"

type countingPhase uint8

const (
	countingSetup countingPhase = iota
	countingTally
	countingPlace
	countingDone
)

// CountingSort is a distribution sort with explicit phases:
//
//  1. setup: find the extremes and allocate the frequency table;
//  2. tally: one bucket increment per step (Comparing);
//  3. place: one output write per step (Switching), skipping empty buckets;
//  4. done.
//
// The table spans 0..max for non-negative input. Negative values widen it
// down to the minimum instead of indexing out of range.
type CountingSort struct {
	tally
	phase  countingPhase
	counts []int
	base   int // value stored in counts[0]
	read   int // next input index to tally
	value  int // next bucket to drain
	write  int // next output index
}

// NewCounting returns a counting sorter in its initial configuration.
func NewCounting() *CountingSort {
	return &CountingSort{tally: newTally()}
}

func (s *CountingSort) Name() string { return string(Counting) }

func (s *CountingSort) Reset() { *s = *NewCounting() }

func (s *CountingSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}

	switch s.phase {
	case countingSetup:
		lo, hi := 0, seq[0]
		for _, v := range seq {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		s.base = lo
		s.counts = make([]int, hi-lo+1)
		s.phase = countingTally
		s.mark(0, n-1, domain.Comparing)
		return false

	case countingTally:
		k := s.read
		s.counts[seq[k]-s.base]++
		s.comparisons++
		s.mark(k, k, domain.Comparing)
		s.read++
		if s.read == n {
			s.phase = countingPlace
		}
		return false

	case countingPlace:
		for s.value < len(s.counts) && s.counts[s.value] == 0 {
			s.value++
		}
		if s.value == len(s.counts) || s.write == n {
			s.phase = countingDone
			return s.finish()
		}
		k := s.write
		seq[k] = s.value + s.base
		s.counts[s.value]--
		s.swaps++
		s.mark(k, k, domain.Switching)
		s.write++
		return false
	}
	return s.finish()
}
