package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/muesli/termenv"
)

// Bar colors: highlighted pairs are yellow while comparing and green while
// switching; everything else is gray.
const (
	ColorComparing = "#ffffe0"
	ColorSwitching = "#90ee90"
	ColorIdle      = "#a0a0a0"
)

const (
	block  = "█"
	marker = "^"
)

// Bars draws a sequence as vertical bars scaled to Height rows.
type Bars struct {
	Profile termenv.Profile
	Height  int
	// Width is the terminal width; columns widen to fill it, up to 3 cells.
	Width int
}

// NewBars detects the color profile from the environment.
func NewBars(width, height int) *Bars {
	return &Bars{Profile: termenv.EnvColorProfile(), Width: width, Height: height}
}

// Render returns the bars followed by a marker line pointing at the
// highlighted pair. Nothing is highlighted once the run is finished.
func (b *Bars) Render(numbers []int, f domain.Frame) string {
	if len(numbers) == 0 {
		return "(empty)\n"
	}
	height := max(b.Height, 1)
	col := 1
	if b.Width > 0 {
		col = min(max(b.Width/len(numbers), 1), 3)
	}

	top := max(slices.Max(numbers), 1)
	heights := make([]int, len(numbers))
	for i, v := range numbers {
		heights[i] = (v*height + top - 1) / top
	}

	colors := make([]termenv.Color, len(numbers))
	highlighted := make([]bool, len(numbers))
	for i := range numbers {
		colors[i] = b.Profile.Color(ColorIdle)
		if !f.Finished() && f.Highlight.Contains(i) {
			highlighted[i] = true
			colors[i] = b.Profile.Color(ColorComparing)
			if f.Reason == domain.Switching {
				colors[i] = b.Profile.Color(ColorSwitching)
			}
		}
	}

	var sb strings.Builder
	cell := strings.Repeat(block, col)
	blank := strings.Repeat(" ", col)
	for row := height; row >= 1; row-- {
		for i, h := range heights {
			if h >= row {
				sb.WriteString(b.Profile.String(cell).Foreground(colors[i]).String())
			} else {
				sb.WriteString(blank)
			}
		}
		sb.WriteByte('\n')
	}

	line := []byte(strings.Repeat(" ", len(numbers)*col))
	for i, on := range highlighted {
		if on {
			line[i*col] = marker[0]
		}
	}
	sb.WriteString(strings.TrimRight(string(line), " "))
	sb.WriteByte('\n')
	return sb.String()
}

// Status is the one-line summary shown under the bars.
func Status(f domain.Frame, elapsed time.Duration) string {
	what := "done"
	if !f.Finished() {
		what = f.Reason.String()
		if !f.Highlight.IsNone() {
			what = fmt.Sprintf("%s (%d, %d)", what, f.Highlight.First, f.Highlight.Second)
		}
	}
	return fmt.Sprintf("%s  step %d  comparisons %d  swaps %d  %s  elapsed %s",
		f.Algorithm, f.Step, f.Comparisons, f.Swaps, what, elapsed.Round(time.Millisecond))
}
