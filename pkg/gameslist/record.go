package gameslist

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
)

// GameRecord is one catalog game as the list sees it. Values are immutable
// once built; optional fields are nil when the catalog did not send them.
type GameRecord struct {
	ID               string  `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	ImageURL         *string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	ThumbURL         *string `json:"thumb_url,omitempty" yaml:"thumb_url,omitempty"`
	YearPublished    *int    `json:"year_published,omitempty" yaml:"year_published,omitempty"`
	MinPlayers       int     `json:"min_players" yaml:"min_players"`
	MaxPlayers       int     `json:"max_players" yaml:"max_players"`
	Description      string  `json:"description" yaml:"description"`
	PrimaryPublisher string  `json:"primary_publisher" yaml:"primary_publisher"`
	Rank             int     `json:"rank" yaml:"rank"`
	TrendingRank     int     `json:"trending_rank" yaml:"trending_rank"`
}

// NewGameRecord maps a wire game into a record.
func NewGameRecord(g catalog.Game) GameRecord {
	return GameRecord{
		ID:               g.ID,
		Name:             g.Name,
		ImageURL:         cloneString(g.ImageURL),
		ThumbURL:         cloneString(g.ThumbURL),
		YearPublished:    cloneInt(g.YearPublished),
		MinPlayers:       g.MinPlayers,
		MaxPlayers:       g.MaxPlayers,
		Description:      g.Description,
		PrimaryPublisher: g.PrimaryPublisher.Name,
		Rank:             g.Rank,
		TrendingRank:     g.TrendingRank,
	}
}

// RecordsFromResult maps a search result, keeping server order.
func RecordsFromResult(res *catalog.SearchResult) []GameRecord {
	if res == nil {
		return []GameRecord{}
	}
	out := make([]GameRecord, 0, len(res.Games))
	for _, g := range res.Games {
		out = append(out, NewGameRecord(g))
	}
	return out
}

// Equal compares every field, following optional pointers.
func (r GameRecord) Equal(o GameRecord) bool {
	return r.ID == o.ID &&
		r.Name == o.Name &&
		equalPtr(r.ImageURL, o.ImageURL) &&
		equalPtr(r.ThumbURL, o.ThumbURL) &&
		equalPtr(r.YearPublished, o.YearPublished) &&
		r.MinPlayers == o.MinPlayers &&
		r.MaxPlayers == o.MaxPlayers &&
		r.Description == o.Description &&
		r.PrimaryPublisher == o.PrimaryPublisher &&
		r.Rank == o.Rank &&
		r.TrendingRank == o.TrendingRank
}

// PlayerRange renders the player count, e.g. "2-4 players".
func (r GameRecord) PlayerRange() string {
	switch {
	case r.MinPlayers <= 0 && r.MaxPlayers <= 0:
		return "? players"
	case r.MaxPlayers <= 0 || r.MaxPlayers < r.MinPlayers:
		return fmt.Sprintf("%d+ players", r.MinPlayers)
	case r.MinPlayers == r.MaxPlayers && r.MinPlayers == 1:
		return "1 player"
	case r.MinPlayers == r.MaxPlayers:
		return fmt.Sprintf("%d players", r.MinPlayers)
	default:
		return fmt.Sprintf("%d-%d players", r.MinPlayers, r.MaxPlayers)
	}
}

// YearText returns the publication year or "n/a".
func (r GameRecord) YearText() string {
	if r.YearPublished == nil {
		return "n/a"
	}
	return strconv.Itoa(*r.YearPublished)
}

// Thumbnail returns the best small image URL, falling back to the cover.
func (r GameRecord) Thumbnail() string {
	if r.ThumbURL != nil && *r.ThumbURL != "" {
		return *r.ThumbURL
	}
	if r.ImageURL != nil {
		return *r.ImageURL
	}
	return ""
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Summary returns the description as plain text. The catalog sends HTML.
func (r GameRecord) Summary() string {
	s := tagPattern.ReplaceAllString(r.Description, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
