package sorting

// OddEvenSort alternates between comparing the pairs starting at even
// indices and the pairs starting at odd indices. Two consecutive phases
// without exchanges cover every adjacent pair, so they end the run.
type OddEvenSort struct {
	tally
	odd         bool
	index       int
	swapped     bool
	cleanPhases int
}

// NewOddEven returns an odd-even (brick) sorter in its initial configuration.
func NewOddEven() *OddEvenSort {
	return &OddEvenSort{tally: newTally()}
}

func (s *OddEvenSort) Name() string { return string(OddEven) }

func (s *OddEvenSort) Reset() { *s = *NewOddEven() }

func (s *OddEvenSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}

	for {
		if s.index+1 < n {
			i := s.index
			s.compare(i, i+1)
			if seq[i] > seq[i+1] {
				s.exchange(seq, i, i+1)
				s.swapped = true
			}
			s.index += 2
			return false
		}

		// Phase boundary.
		if s.swapped {
			s.cleanPhases = 0
		} else {
			s.cleanPhases++
		}
		if s.cleanPhases >= 2 {
			return s.finish()
		}
		s.swapped = false
		s.odd = !s.odd
		s.index = 0
		if s.odd {
			s.index = 1
		}
	}
}
