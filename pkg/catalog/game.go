// Package catalog talks to the Board Game Atlas catalog API. It defines the
// wire model returned by the search endpoint, the Searcher interface the
// rest of the application depends on, an HTTP implementation, a
// fixture-backed mock and a caching decorator.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Game is one entry of a search response, as sent by the API.
type Game struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ImageURL         *string   `json:"image_url,omitempty"`
	ThumbURL         *string   `json:"thumb_url,omitempty"`
	YearPublished    *int      `json:"year_published,omitempty"`
	MinPlayers       int       `json:"min_players"`
	MaxPlayers       int       `json:"max_players"`
	Description      string    `json:"description"`
	PrimaryPublisher Publisher `json:"primary_publisher"`
	Rank             int       `json:"rank"`
	TrendingRank     int       `json:"trending_rank"`
}

// SearchResult is the decoded body of a search call. Games keep the order
// the server returned them in.
type SearchResult struct {
	Games []Game `json:"games"`
	Count int    `json:"count"`
}

// Publisher is the primary publisher of a game. Older API revisions send a
// bare string, newer ones an object; both decode into Name.
type Publisher struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts either "Name" or {"id": ..., "name": ...}.
func (p *Publisher) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Publisher{}
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("catalog: decode publisher: %w", err)
		}
		*p = Publisher{Name: name}
		return nil
	}

	type plain Publisher
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("catalog: decode publisher: %w", err)
	}
	*p = Publisher(v)
	return nil
}

// String returns the publisher name.
func (p Publisher) String() string { return p.Name }
