// Package components holds the width-aware text helpers, colours and the
// game table shared by the TUI and the plain list output.
package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended to cells that do not fit their column.
const Ellipsis = "…"

// VisibleLen returns the width of s in terminal cells, ignoring escape
// sequences and counting wide runes as two.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most width cells and marks the cut with Ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// Pad aligns s inside width cells. Strings already at least width wide are
// returned unchanged.
func Pad(s string, width int, align Align) string {
	gap := width - VisibleLen(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// Fit truncates then pads s so it occupies exactly width cells.
func Fit(s string, width int, align Align) string {
	return Pad(Truncate(s, width), width, align)
}

// Wrap word-wraps s at width and returns at most maxLines lines; when text
// is dropped the last line ends in Ellipsis. maxLines <= 0 means no limit.
func Wrap(s string, width, maxLines int) []string {
	if width <= 0 {
		return []string{s}
	}
	lines := strings.Split(ansi.Wrap(s, width, ""), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := strings.TrimRight(lines[maxLines-1], " ")
		if VisibleLen(last)+VisibleLen(Ellipsis) > width {
			last = ansi.Truncate(last, width-VisibleLen(Ellipsis), "")
		}
		lines[maxLines-1] = last + Ellipsis
	}
	return lines
}
