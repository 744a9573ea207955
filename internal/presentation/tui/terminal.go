package tui

import (
	"os"

	"golang.org/x/term"
)

// Fallback dimensions when stdout is not a terminal.
const (
	DefaultWidth  = 100
	DefaultHeight = 20
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Size returns the terminal size of f, or the defaults.
func Size(f *os.File) (width, height int) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}

// ClearScreen moves the cursor home and clears the screen.
const ClearScreen = "\x1b[H\x1b[2J"
