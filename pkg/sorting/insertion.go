package sorting

// InsertionSort grows a sorted prefix. Each step compares the element being
// inserted with its left neighbour and either shifts it one slot left or,
// when it is already in order, moves on to the next unsorted element.
type InsertionSort struct {
	tally
	current int // next unsorted element
	cursor  int // position of the element being inserted
}

// NewInsertion returns an insertion sorter in its initial configuration.
func NewInsertion() *InsertionSort {
	return &InsertionSort{tally: newTally(), current: 1, cursor: 1}
}

func (s *InsertionSort) Name() string { return string(Insertion) }

func (s *InsertionSort) Reset() { *s = *NewInsertion() }

func (s *InsertionSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if s.cursor == 0 {
		s.current++
		s.cursor = s.current
	}
	if s.current >= n {
		return s.finish()
	}

	j := s.cursor
	s.compare(j-1, j)
	if seq[j-1] > seq[j] {
		s.exchange(seq, j-1, j)
		s.cursor--
		return false
	}
	// In order: the step only compared, so it stays tagged Comparing.
	s.current++
	s.cursor = s.current
	return false
}
