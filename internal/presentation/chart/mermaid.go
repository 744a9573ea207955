package chart

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/stepsort/pkg/domain"
)

// GenerateMermaid produces a Mermaid xychart of the numbers after frame f.
// The first bar series holds every value. While the run is in progress a
// second series repeats only the highlighted values so renderers draw them
// on top in the next palette color.
func GenerateMermaid(numbers []int, f domain.Frame) string {
	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title %q\n", title(f))

	idx := make([]string, len(numbers))
	for i := range numbers {
		idx[i] = strconv.Itoa(i)
	}
	fmt.Fprintf(&sb, "    x-axis [%s]\n", strings.Join(idx, ", "))

	top := 1
	if len(numbers) > 0 {
		top = max(slices.Max(numbers), 1)
	}
	fmt.Fprintf(&sb, "    y-axis \"value\" 0 --> %d\n", top)
	fmt.Fprintf(&sb, "    bar [%s]\n", join(numbers, nil))

	if !f.Finished() && !f.Highlight.IsNone() {
		fmt.Fprintf(&sb, "    bar [%s]\n", join(numbers, f.Highlight.Contains))
	}
	return sb.String()
}

func title(f domain.Frame) string {
	if f.Algorithm == "" {
		return "sequence"
	}
	if f.Finished() {
		return fmt.Sprintf("%s sort, finished after %d steps", f.Algorithm, f.Step)
	}
	return fmt.Sprintf("%s sort, step %d (%s)", f.Algorithm, f.Step, f.Reason)
}

// join renders the values, zeroing indices that keep rejects.
func join(numbers []int, keep func(int) bool) string {
	vals := make([]string, len(numbers))
	for i, v := range numbers {
		if keep != nil && !keep(i) {
			v = 0
		}
		vals[i] = strconv.Itoa(v)
	}
	return strings.Join(vals, ", ")
}
