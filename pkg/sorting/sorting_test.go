package sorting_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/sorting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stepLimit = 1_000_000

type frame struct {
	first, second int
	reason        domain.Reason
}

// drive steps s until it reports completion and returns the frames it
// produced. It fails the test if the sorter runs past stepLimit.
func drive(t *testing.T, s sorting.Sorter, seq []int) []frame {
	t.Helper()
	var frames []frame
	for i := 0; i < stepLimit; i++ {
		done := s.Step(seq)
		a, b := s.Special()
		frames = append(frames, frame{a, b, s.Reason()})
		if done {
			return frames
		}
	}
	t.Fatalf("%s did not finish within %d steps", s.Name(), stepLimit)
	return nil
}

func inputs() map[string][]int {
	r := rand.New(rand.NewPCG(7, 11))
	random := make([]int, 40)
	for i := range random {
		random[i] = r.IntN(21)
	}
	return map[string][]int{
		"scenario":   {5, 3, 1, 4, 2},
		"sorted":     {1, 2, 3, 4, 5, 6},
		"reversed":   {9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		"duplicates": {3, 1, 3, 0, 1, 3, 0},
		"pair":       {3, 1},
		"equal":      {2, 2, 2},
		"zeros":      {0, 0, 1, 0},
		"random":     random,
	}
}

func TestSorters_Converge(t *testing.T) {
	for _, alg := range sorting.Algorithms() {
		for name, input := range inputs() {
			if alg == sorting.Bogo && len(input) > 8 {
				continue
			}
			t.Run(string(alg)+"/"+name, func(t *testing.T) {
				seq := slices.Clone(input)
				s := sorting.MustNew(string(alg))

				drive(t, s, seq)

				want := slices.Clone(input)
				slices.Sort(want)
				assert.Equal(t, want, seq, "result must be the sorted input")
				assert.True(t, s.IsFinished())
			})
		}
	}
}

func TestSorters_EmptyAndSingleton(t *testing.T) {
	for _, alg := range sorting.Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			for _, seq := range [][]int{{}, {7}, nil} {
				s := sorting.MustNew(string(alg))
				assert.True(t, s.Step(seq), "first step must finish")
				assert.True(t, s.IsFinished())
				assert.Zero(t, s.Comparisons())
				assert.Zero(t, s.Swaps())
				a, b := s.Special()
				assert.Equal(t, domain.Sentinel, a)
				assert.Equal(t, domain.Sentinel, b)
			}
		})
	}
}

func TestSorters_IdempotentCompletion(t *testing.T) {
	for _, alg := range sorting.Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			seq := []int{4, 2, 5, 1, 3}
			s := sorting.MustNew(string(alg))
			drive(t, s, seq)

			done := slices.Clone(seq)
			comparisons, swaps := s.Comparisons(), s.Swaps()
			for i := 0; i < 3; i++ {
				assert.True(t, s.Step(seq))
			}
			assert.Equal(t, done, seq)
			assert.Equal(t, comparisons, s.Comparisons())
			assert.Equal(t, swaps, s.Swaps())
		})
	}
}

func TestSorters_MetricsAndHighlights(t *testing.T) {
	for _, alg := range sorting.Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			seq := []int{6, 0, 5, 2, 2, 9, 1}
			s := sorting.MustNew(string(alg))

			prevCmp, prevSwp := 0, 0
			for i := 0; i < stepLimit; i++ {
				done := s.Step(seq)

				require.GreaterOrEqual(t, s.Comparisons(), prevCmp)
				require.GreaterOrEqual(t, s.Swaps(), prevSwp)
				prevCmp, prevSwp = s.Comparisons(), s.Swaps()

				a, b := s.Special()
				h := domain.Highlight{First: a, Second: b}
				require.True(t, h.Valid(len(seq)), "step %d: highlight %v out of range", i, h)
				require.Len(t, seq, 7)
				if done {
					break
				}
			}

			s.Reset()
			assert.Zero(t, s.Comparisons())
			assert.Zero(t, s.Swaps())
			assert.False(t, s.IsFinished())
		})
	}
}

func TestSorters_ResetEquivalence(t *testing.T) {
	for _, alg := range sorting.Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			input := []int{5, 3, 8, 1, 4, 2}
			s := sorting.MustNew(string(alg), sorting.WithSeed(42))

			first := drive(t, s, slices.Clone(input))
			s.Reset()
			second := drive(t, s, slices.Clone(input))

			assert.Equal(t, first, second)
		})
	}
}

func TestSorters_EqualElementsNeverSwap(t *testing.T) {
	exchangeBased := []sorting.Algorithm{
		sorting.Bubble, sorting.Cocktail, sorting.OddEven, sorting.Comb,
		sorting.Gnome, sorting.Shell, sorting.Insertion, sorting.Selection,
		sorting.Pancake,
	}
	for _, alg := range exchangeBased {
		t.Run(string(alg), func(t *testing.T) {
			seq := []int{2, 2, 2}
			s := sorting.MustNew(string(alg))
			drive(t, s, seq)
			assert.Zero(t, s.Swaps())
			assert.Equal(t, []int{2, 2, 2}, seq)
		})
	}
}

func TestSorters_AdjacentSwapsMatchInversions(t *testing.T) {
	// [5,3,1,4,2] has 7 inversions; adjacent-exchange sorters remove one per swap.
	for _, alg := range []sorting.Algorithm{
		sorting.Bubble, sorting.Cocktail, sorting.OddEven, sorting.Gnome, sorting.Insertion,
	} {
		t.Run(string(alg), func(t *testing.T) {
			seq := []int{5, 3, 1, 4, 2}
			s := sorting.MustNew(string(alg))
			drive(t, s, seq)
			assert.Equal(t, []int{1, 2, 3, 4, 5}, seq)
			assert.Equal(t, 7, s.Swaps())
		})
	}
}

func TestBubble_Scenario(t *testing.T) {
	run := func() (int, []int, int) {
		seq := []int{5, 3, 1, 4, 2}
		s := sorting.NewBubble()
		frames := drive(t, s, seq)
		return len(frames), seq, s.Swaps()
	}

	steps, seq, swaps := run()
	again, _, _ := run()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, seq)
	assert.GreaterOrEqual(t, swaps, 4)
	assert.Equal(t, steps, again, "step count must be reproducible")
}

func TestBubble_OneExchangePerStep(t *testing.T) {
	seq := []int{4, 3, 2, 1}
	s := sorting.NewBubble()
	prev := 0
	for !s.Step(seq) {
		assert.LessOrEqual(t, s.Swaps()-prev, 1)
		if s.Swaps() > prev {
			assert.Equal(t, domain.Switching, s.Reason())
		} else {
			assert.Equal(t, domain.Comparing, s.Reason())
		}
		prev = s.Swaps()
	}
}

func TestQuick_Visitation(t *testing.T) {
	seq := []int{5, 3, 1, 4, 2}
	s := sorting.NewQuick()

	frames := drive(t, s, seq)

	assert.Equal(t, []frame{
		{0, 4, domain.Switching},
		{2, 4, domain.Switching},
		{3, 4, domain.Switching},
		{domain.Sentinel, domain.Sentinel, domain.Comparing},
	}, frames)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seq)
}

func TestQuick_PairIsOnePartition(t *testing.T) {
	seq := []int{3, 1}
	s := sorting.NewQuick()

	assert.False(t, s.Step(seq))
	assert.Equal(t, []int{1, 3}, seq)
	assert.Equal(t, 1, s.Swaps())
	assert.Equal(t, 1, s.Comparisons())
	assert.True(t, s.Step(seq))
}

func TestMerge_Visitation(t *testing.T) {
	seq := []int{4, 3, 2, 1}
	s := sorting.NewMerge()

	frames := drive(t, s, seq)

	assert.Equal(t, []frame{
		{0, 3, domain.Comparing},
		{0, 1, domain.Comparing},
		{0, 1, domain.Switching},
		{2, 3, domain.Comparing},
		{2, 3, domain.Switching},
		{0, 3, domain.Switching},
		{domain.Sentinel, domain.Sentinel, domain.Comparing},
	}, frames)
	assert.Equal(t, []int{1, 2, 3, 4}, seq)
}

func TestCounting_Phases(t *testing.T) {
	seq := []int{3, 0, 2, 2}
	s := sorting.NewCounting()

	frames := drive(t, s, seq)

	// setup + 4 tallies + 4 placements + terminal step
	require.Len(t, frames, 10)
	for _, f := range frames[1:5] {
		assert.Equal(t, domain.Comparing, f.reason)
		assert.Equal(t, f.first, f.second)
	}
	for _, f := range frames[5:9] {
		assert.Equal(t, domain.Switching, f.reason)
	}
	assert.Equal(t, []int{0, 2, 2, 3}, seq)
	assert.Equal(t, 4, s.Comparisons())
	assert.Equal(t, 4, s.Swaps())
}

func TestCounting_NegativeValues(t *testing.T) {
	seq := []int{-2, 3, -1, 0}
	drive(t, sorting.NewCounting(), seq)
	assert.Equal(t, []int{-2, -1, 0, 3}, seq)
}

func TestPancake_OneSlotPerStep(t *testing.T) {
	seq := []int{3, 1, 4, 2}
	s := sorting.NewPancake()

	assert.False(t, s.Step(seq))
	assert.Equal(t, 4, seq[3], "largest element settles at the end")
	assert.Equal(t, domain.Switching, s.Reason())
	assert.Equal(t, 2, s.Swaps())

	drive(t, s, seq)
	assert.Equal(t, []int{1, 2, 3, 4}, seq)
}

// reverser is a Source that always reverses the sequence.
type reverser struct{ calls int }

func (r *reverser) Shuffle(n int, swap func(i, j int)) {
	r.calls++
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func TestBogo_InjectedSource(t *testing.T) {
	src := &reverser{}
	s := sorting.MustNew("bogo", sorting.WithSource(src))
	seq := []int{3, 2, 1}

	assert.False(t, s.Step(seq))
	assert.Equal(t, domain.Switching, s.Reason())
	assert.Equal(t, []int{1, 2, 3}, seq)

	assert.True(t, s.Step(seq))
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, s.Swaps())
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want sorting.Algorithm
	}{
		{"bubble", sorting.Bubble},
		{"Quick Sort", sorting.Quick},
		{"shaker", sorting.Cocktail},
		{"OddEven", sorting.OddEven},
		{"odd-even", sorting.OddEven},
		{" heapsort ", sorting.Heap},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sorting.Lookup(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := sorting.New("sleep")
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestNew_NamesRoundTrip(t *testing.T) {
	for _, alg := range sorting.Algorithms() {
		s, err := sorting.New(string(alg))
		require.NoError(t, err)
		assert.Equal(t, string(alg), s.Name())
	}
}

func TestInsertion_InOrderAdvanceIsComparing(t *testing.T) {
	seq := []int{1, 3, 2}
	s := sorting.NewInsertion()

	require.False(t, s.Step(seq))
	first, second := s.Special()
	assert.Equal(t, [2]int{0, 1}, [2]int{first, second})
	assert.Equal(t, domain.Comparing, s.Reason())
	assert.Zero(t, s.Swaps())

	require.False(t, s.Step(seq))
	assert.Equal(t, domain.Switching, s.Reason())
	assert.Equal(t, []int{1, 2, 3}, seq)
}
