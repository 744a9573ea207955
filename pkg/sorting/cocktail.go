package sorting

// CocktailSort is a bidirectional bubble sort. It sweeps the window
// [start, end] forward, shrinks end, sweeps backward and shrinks start.
// A sweep without exchanges ends the run.
type CocktailSort struct {
	tally
	started bool
	start   int
	end     int
	current int
	forward bool
	swapped bool
}

// NewCocktail returns a cocktail shaker sorter in its initial configuration.
func NewCocktail() *CocktailSort {
	return &CocktailSort{tally: newTally(), forward: true}
}

func (s *CocktailSort) Name() string { return string(Cocktail) }

func (s *CocktailSort) Reset() { *s = *NewCocktail() }

func (s *CocktailSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}
	if !s.started {
		s.started = true
		s.start, s.end, s.current = 0, n-1, 0
	}

	// At most two direction flips happen before a comparison is made.
	for {
		if s.start >= s.end {
			return s.finish()
		}
		if s.forward {
			if s.current < s.end {
				i := s.current
				s.compare(i, i+1)
				if seq[i] > seq[i+1] {
					s.exchange(seq, i, i+1)
					s.swapped = true
				}
				s.current++
				return false
			}
			if !s.swapped {
				return s.finish()
			}
			s.end--
			s.forward = false
			s.swapped = false
			s.current = s.end
			continue
		}

		if s.current > s.start {
			i := s.current
			s.compare(i-1, i)
			if seq[i-1] > seq[i] {
				s.exchange(seq, i-1, i)
				s.swapped = true
			}
			s.current--
			return false
		}
		if !s.swapped {
			return s.finish()
		}
		s.start++
		s.forward = true
		s.swapped = false
		s.current = s.start
	}
}
