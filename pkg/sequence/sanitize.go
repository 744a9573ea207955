package sequence

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize bounds raw user input in bytes (16KB).
	DefaultMaxInputSize = 16 << 10
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "STEPSORT_MAX_INPUT_SIZE"

	// MaxLength bounds how many numbers a single run may hold.
	MaxLength = 4096
	// MaxValue bounds each number; counting sort allocates max+1 counters.
	MaxValue = 1 << 20
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitize enforces the input size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
func Sanitize(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Reject rather than truncate: a truncated list is a different list.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// ParseInput sanitizes and parses untrusted input, then applies the length
// and value bounds.
func ParseInput(input string) ([]int, error) {
	clean, err := Sanitize(input)
	if err != nil {
		return nil, err
	}
	seq, err := Parse(clean)
	if err != nil {
		return nil, err
	}
	if err := CheckBounds(seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// CheckBounds validates seq and enforces MaxLength and MaxValue.
func CheckBounds(seq []int) error {
	if err := Validate(seq); err != nil {
		return err
	}
	if len(seq) > MaxLength {
		return fmt.Errorf("%w: length=%d limit=%d", ErrInputTooLarge, len(seq), MaxLength)
	}
	for i, v := range seq {
		if v > MaxValue {
			return fmt.Errorf("%w: value %d at index %d exceeds %d", ErrInputTooLarge, v, i, MaxValue)
		}
	}
	return nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
