package tui

import (
	"strings"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
)

// filterGames returns the indices of games whose name or publisher contains
// query, ignoring case. An empty query matches everything.
func filterGames(games []gameslist.GameRecord, query string) []int {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]int, 0, len(games))
	for i, g := range games {
		if q == "" ||
			strings.Contains(strings.ToLower(g.Name), q) ||
			strings.Contains(strings.ToLower(g.PrimaryPublisher), q) {
			out = append(out, i)
		}
	}
	return out
}
