package sorting

// GnomeSort walks a single cursor: forward while neighbours are ordered,
// backward (carrying the element with it) while they are not. It finishes
// when the cursor walks off the end.
type GnomeSort struct {
	tally
	pos int
}

// NewGnome returns a gnome sorter in its initial configuration.
func NewGnome() *GnomeSort {
	return &GnomeSort{tally: newTally(), pos: 1}
}

func (s *GnomeSort) Name() string { return string(Gnome) }

func (s *GnomeSort) Reset() { *s = *NewGnome() }

func (s *GnomeSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if s.pos >= n {
		return s.finish()
	}
	if s.pos == 0 {
		s.pos = 1
	}

	i := s.pos
	s.compare(i-1, i)
	if seq[i-1] > seq[i] {
		s.exchange(seq, i-1, i)
		s.pos--
	} else {
		s.pos++
	}
	return false
}
