package sorting

import "github.com/aretw0/stepsort/pkg/domain"

// BogoSort checks whether the sequence is sorted and, if not, shuffles the
// whole sequence. It terminates with probability 1 and has no step bound.
//
// A bogo sorter created with a seed reseeds itself on Reset, so a replay of
// the same input reproduces the same shuffles.
type BogoSort struct {
	tally
	seed     uint64
	seeded   bool
	source   Source
	shuffles int
}

// NewBogo returns a bogo sorter backed by a PCG source seeded with seed.
func NewBogo(seed uint64) *BogoSort {
	return &BogoSort{tally: newTally(), seed: seed, seeded: true, source: NewSource(seed)}
}

// NewBogoWithSource returns a bogo sorter drawing from src.
func NewBogoWithSource(src Source) *BogoSort {
	return &BogoSort{tally: newTally(), source: src}
}

func (s *BogoSort) Name() string { return string(Bogo) }

func (s *BogoSort) Reset() {
	if s.seeded {
		*s = *NewBogo(s.seed)
		return
	}
	*s = *NewBogoWithSource(s.source)
}

// Shuffles returns how many permutations have been tried since the last reset.
func (s *BogoSort) Shuffles() int { return s.shuffles }

func (s *BogoSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}

	sorted := true
	for i := 1; i < n; i++ {
		s.comparisons++
		if seq[i-1] > seq[i] {
			sorted = false
			break
		}
	}
	if sorted {
		return s.finish()
	}

	s.source.Shuffle(n, func(i, j int) {
		seq[i], seq[j] = seq[j], seq[i]
	})
	s.shuffles++
	s.swaps++
	s.mark(0, n-1, domain.Switching)
	return false
}
