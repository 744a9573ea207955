package sorting

// BubbleSort compares adjacent pairs left to right, one pair per step.
// The unsorted bound shrinks by one each pass; a pass without exchanges
// ends the run.
type BubbleSort struct {
	tally
	pass    int
	index   int
	swapped bool
}

// NewBubble returns a bubble sorter in its initial configuration.
func NewBubble() *BubbleSort {
	return &BubbleSort{tally: newTally()}
}

func (s *BubbleSort) Name() string { return string(Bubble) }

func (s *BubbleSort) Reset() { *s = *NewBubble() }

func (s *BubbleSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}

	// End of pass: the largest remaining element has settled at n-1-pass.
	if s.index >= n-1-s.pass {
		if !s.swapped {
			return s.finish()
		}
		s.pass++
		s.index = 0
		s.swapped = false
		if s.pass >= n-1 {
			return s.finish()
		}
	}

	i := s.index
	s.compare(i, i+1)
	if seq[i] > seq[i+1] {
		s.exchange(seq, i, i+1)
		s.swapped = true
	}
	s.index++
	return false
}
