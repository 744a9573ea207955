/*
Package sorting implements steppable sorting algorithms.

Every algorithm is an explicit state machine behind the Sorter interface. A
call to Step performs the smallest observable unit of work for that
algorithm (one comparison, one exchange, one placement or one structural
transition) and returns control to the caller, who can then read the
highlighted index pair, the reason for the highlight and the running
comparison/swap counters.

# Highlight convention

Special always reports the pair the last step compared or exchanged, read
after the step's mutation. It never reports the pair a sorter will visit
next. Range-based algorithms (quick, merge, bogo) report the bounds of the
range they worked on. Once a sorter finishes it reports the Sentinel pair.

# Usage

	s, err := sorting.New("quick")
	if err != nil {
		return err
	}
	numbers := []int{5, 3, 1, 4, 2}
	for !s.Step(numbers) {
		first, second := s.Special()
		render(numbers, first, second, s.Reason())
	}
*/
package sorting
