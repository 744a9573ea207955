package sequence_test

import (
	"math/rand/v2"
	"testing"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	seq, err := sequence.Generate(sequence.DefaultFloor, sequence.DefaultCeil, sequence.DefaultSize, r)
	require.NoError(t, err)
	require.Len(t, seq, sequence.DefaultSize)
	for _, v := range seq {
		assert.GreaterOrEqual(t, v, sequence.DefaultFloor)
		assert.Less(t, v, sequence.DefaultCeil)
	}

	again, _ := sequence.Generate(sequence.DefaultFloor, sequence.DefaultCeil, sequence.DefaultSize, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, seq, again, "same seed must give the same vector")
}

func TestGenerate_InvalidRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	_, err := sequence.Generate(5, 5, 3, r)
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)
	_, err = sequence.Generate(-1, 5, 3, r)
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)
	_, err = sequence.Generate(1, 5, -3, r)
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"5,3,1,4,2", []int{5, 3, 1, 4, 2}, false},
		{" 5, 3  1\t4 ", []int{5, 3, 1, 4}, false},
		{"", []int{}, false},
		{"1,x", nil, true},
		{"1,-2", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sequence.Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSequence)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,2,3", sequence.Format([]int{1, 2, 3}))
	assert.Equal(t, "", sequence.Format(nil))
}

func TestSameMultiset(t *testing.T) {
	assert.True(t, sequence.SameMultiset([]int{3, 1, 3}, []int{1, 3, 3}))
	assert.False(t, sequence.SameMultiset([]int{3, 1, 3}, []int{1, 1, 3}))
	assert.False(t, sequence.SameMultiset([]int{1}, []int{1, 1}))
	assert.True(t, sequence.IsSorted([]int{1, 1, 2}))
	assert.False(t, sequence.IsSorted([]int{2, 1}))
}
