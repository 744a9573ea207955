package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown with glamour.
// An empty style auto-detects a light or dark background.
func NewRenderer(style string, width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if style != "" {
		opts = []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Summary describes a finished (or interrupted) run as markdown.
func Summary(f domain.Frame, numbers []int, elapsed time.Duration) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s sort\n\n", f.Algorithm)
	sb.WriteString("| metric | value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| status | %s |\n", f.Status)
	fmt.Fprintf(&sb, "| elements | %d |\n", len(numbers))
	fmt.Fprintf(&sb, "| steps | %d |\n", f.Step)
	fmt.Fprintf(&sb, "| comparisons | %d |\n", f.Comparisons)
	fmt.Fprintf(&sb, "| swaps | %d |\n", f.Swaps)
	fmt.Fprintf(&sb, "| elapsed | %s |\n", elapsed.Round(time.Millisecond))
	return sb.String()
}
