package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/components"
)

// Placeholder renders a title over a muted detail line, centred in a
// width x height pane. It stands in for the list while there is nothing to
// show: before loading, while loading, and on error.
func Placeholder(title, detail string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	body := []string{title}
	if detail != "" && height > 1 {
		for _, l := range components.Wrap(detail, width, height-1) {
			body = append(body, components.MutedStyle.Render(l))
		}
	}

	var lines []string
	for i := 0; i < (height-len(body))/2; i++ {
		lines = append(lines, "")
	}
	for _, l := range body {
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, l))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
