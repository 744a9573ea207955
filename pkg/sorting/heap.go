package sorting

// HeapSort builds a max-heap in place and then repeatedly moves the root
// behind the shrinking heap boundary.
//
// Phase one sifts down every non-leaf node from the last one to the root.
// Phase two swaps the root with the last heap element and sifts the new
// root down. Each step is one sift-down level (compare the larger child
// with the node, exchange if needed) or one root extraction.
type HeapSort struct {
	tally
	started  bool
	building bool
	next     int // next non-leaf to sift during construction
	end      int // last index inside the heap
	node     int // node being sifted, or -1 when idle
}

// NewHeap returns a heap sorter in its initial configuration.
func NewHeap() *HeapSort {
	return &HeapSort{tally: newTally(), node: -1}
}

func (s *HeapSort) Name() string { return string(Heap) }

func (s *HeapSort) Reset() { *s = *NewHeap() }

func (s *HeapSort) Step(seq []int) bool {
	if s.finished {
		return true
	}
	n := len(seq)
	if n < 2 {
		return s.finish()
	}
	if !s.started {
		s.started = true
		s.building = true
		s.end = n - 1
		s.next = n/2 - 1
		s.node = s.next
	}

	for {
		if s.node >= 0 {
			if s.siftLevel(seq) {
				return false
			}
			// Leaf reached without work; pick the next job.
			continue
		}

		if s.building {
			if s.next > 0 {
				s.next--
				s.node = s.next
				continue
			}
			s.building = false
		}

		if s.end <= 0 {
			return s.finish()
		}
		s.exchange(seq, 0, s.end)
		s.end--
		s.node = 0
		return false
	}
}

// siftLevel performs one level of sift-down for s.node. It reports whether
// any comparison was made; a node without children inside the heap needs
// none and is simply retired.
func (s *HeapSort) siftLevel(seq []int) bool {
	root := s.node
	child := 2*root + 1
	if child > s.end {
		s.node = -1
		return false
	}
	if child+1 <= s.end {
		s.comparisons++
		if seq[child] < seq[child+1] {
			child++
		}
	}
	s.compare(root, child)
	if seq[root] < seq[child] {
		s.exchange(seq, root, child)
		s.node = child
		return true
	}
	s.node = -1
	return true
}
