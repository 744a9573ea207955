// Package sequence provides the inputs the sorting engine consumes:
// random vectors, parsing of user-supplied numbers and ordering checks.
package sequence

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/stepsort/pkg/domain"
)

// Defaults used by the visualizer when nothing else is configured.
const (
	DefaultFloor = 1
	DefaultCeil  = 21
	DefaultSize  = 100
)

// Generate returns n values drawn uniformly from [floor, ceil).
func Generate(floor, ceil, n int, r *rand.Rand) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", domain.ErrInvalidSequence, n)
	}
	if floor < 0 || ceil <= floor {
		return nil, fmt.Errorf("%w: empty range [%d, %d)", domain.ErrInvalidSequence, floor, ceil)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = floor + r.IntN(ceil-floor)
	}
	return out, nil
}

// Parse reads a list of non-negative integers separated by commas and/or
// whitespace, e.g. "5,3, 1 4".
func Parse(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidSequence, f)
		}
		out = append(out, v)
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate rejects negative values.
func Validate(seq []int) error {
	for i, v := range seq {
		if v < 0 {
			return fmt.Errorf("%w: negative value %d at index %d", domain.ErrInvalidSequence, v, i)
		}
	}
	return nil
}

// Format renders seq as a comma separated list.
func Format(seq []int) string {
	parts := make([]string, len(seq))
	for i, v := range seq {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// IsSorted reports whether seq is non-decreasing.
func IsSorted(seq []int) bool {
	return slices.IsSorted(seq)
}

// SameMultiset reports whether a and b hold the same values with the same
// multiplicities.
func SameMultiset(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[int]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}
