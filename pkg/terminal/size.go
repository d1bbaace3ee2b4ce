package terminal

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// Default cell size in pixels when the terminal does not report one.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Width returns the column count of f, or fallback when f is not a
// terminal.
func Width(f *os.File, fallback int) int {
	w, _, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// CellSize returns the pixel size of one cell, falling back to the defaults.
func CellSize() (w, h int) {
	w, h, err := cellSize()
	if err != nil || w <= 0 || h <= 0 {
		return DefaultCellW, DefaultCellH
	}
	return w, h
}
