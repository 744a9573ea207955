package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the stepsort banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _                            _   ", "#fde68a"},
		{"  ___| |_ ___ _ __  ___  ___  _ __| |_ ", "#bef264"},
		{" / __| __/ _ \\ '_ \\/ __|/ _ \\| '__| __|", "#86efac"},
		{" \\__ \\ ||  __/ |_) \\__ \\ (_) | |  | |_ ", "#6ee7b7"},
		{" |___/\\__\\___| .__/|___/\\___/|_|   \\__|", "#5eead4"},
		{"             |_|                       ", "#67e8f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  version "+version).Faint())
	fmt.Fprintln(w)
}
