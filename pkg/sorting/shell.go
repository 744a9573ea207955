package sorting

// ShellSort runs a gapped insertion sort with the gap sequence n/2, n/4,
// ..., 1. Each step compares one element with its gap-predecessor and, if
// they are out of order, exchanges them and follows the element down.
//
// The gap-1 pass is a plain insertion sort and leaves no inversion behind,
// so its completion ends the run.
type ShellSort struct {
	tally
	started bool
	gap     int
	index   int // next element to insert
	cursor  int // position of the element being inserted
}

// NewShell returns a shell sorter in its initial configuration.
func NewShell() *ShellSort {
	return &ShellSort{tally: newTally()}
}

func (s *ShellSort) Name() string { return string(Shell) }

func (s *ShellSort) Reset() { *s = *NewShell() }

func (s *ShellSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}
	if !s.started {
		s.started = true
		s.gap = max(n/2, 1)
		s.index, s.cursor = s.gap, s.gap
	}

	for {
		if s.index >= n {
			if s.gap == 1 {
				return s.finish()
			}
			s.gap = max(s.gap/2, 1)
			s.index, s.cursor = s.gap, s.gap
			continue
		}
		if s.cursor < s.gap {
			s.index++
			s.cursor = s.index
			continue
		}

		i, j := s.cursor-s.gap, s.cursor
		s.compare(i, j)
		if seq[i] > seq[j] {
			s.exchange(seq, i, j)
			s.cursor -= s.gap
		} else {
			s.index++
			s.cursor = s.index
		}
		return false
	}
}
