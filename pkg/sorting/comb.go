package sorting

// combShrink is the classic 1.3 shrink factor, expressed as 10/13 to stay
// in integer arithmetic.
const (
	combShrinkNum = 10
	combShrinkDen = 13
)

// CombSort compares elements a gap apart, shrinking the gap after every
// pass. Once the gap reaches 1 it behaves like bubble sort and stops after
// a gap-1 pass without exchanges.
type CombSort struct {
	tally
	started bool
	gap     int
	index   int
	swapped bool
}

// NewComb returns a comb sorter in its initial configuration.
func NewComb() *CombSort {
	return &CombSort{tally: newTally()}
}

func (s *CombSort) Name() string { return string(Comb) }

func (s *CombSort) Reset() { *s = *NewComb() }

// nextCombGap shrinks gap, never below 1.
func nextCombGap(gap int) int {
	return max(gap*combShrinkNum/combShrinkDen, 1)
}

func (s *CombSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}
	if !s.started {
		s.started = true
		s.gap = nextCombGap(n)
	}

	for {
		if s.index+s.gap < n {
			i, j := s.index, s.index+s.gap
			s.compare(i, j)
			if seq[i] > seq[j] {
				s.exchange(seq, i, j)
				s.swapped = true
			}
			s.index++
			return false
		}

		// Pass boundary.
		if s.gap == 1 && !s.swapped {
			return s.finish()
		}
		s.gap = nextCombGap(s.gap)
		s.index = 0
		s.swapped = false
	}
}
