package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuick_PartitionCount(t *testing.T) {
	tests := []struct {
		name  string
		seq   []int
		want  int
		swaps int
	}{
		{"single", []int{1}, 0, 0},
		{"pair", []int{3, 1}, 1, 1},
		{"scenario", []int{5, 3, 1, 4, 2}, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewQuick()
			for !s.Step(tt.seq) {
			}
			assert.Equal(t, tt.want, s.partitions)
			assert.Equal(t, tt.swaps, s.Swaps())
		})
	}
}

func TestNextCombGap_NeverZero(t *testing.T) {
	for gap := 1; gap < 50; gap++ {
		next := nextCombGap(gap)
		assert.GreaterOrEqual(t, next, 1)
		assert.LessOrEqual(t, next, gap)
	}
}
