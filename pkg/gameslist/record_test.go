package gameslist

import (
	"testing"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
)

func TestNewGameRecordMapsEveryField(t *testing.T) {
	thumb := "https://img/thumb.jpg"
	year := 2018
	g := catalog.Game{
		ID:               "TAAifFP590",
		Name:             "Root",
		ThumbURL:         &thumb,
		YearPublished:    &year,
		MinPlayers:       2,
		MaxPlayers:       4,
		Description:      "<p>War</p>",
		PrimaryPublisher: catalog.Publisher{ID: "p", Name: "Leder Games"},
		Rank:             1,
		TrendingRank:     3,
	}

	r := NewGameRecord(g)

	if r.ID != g.ID || r.Name != g.Name || r.Rank != 1 || r.TrendingRank != 3 {
		t.Errorf("scalar fields not mapped: %+v", r)
	}
	if r.PrimaryPublisher != "Leder Games" {
		t.Errorf("PrimaryPublisher = %q", r.PrimaryPublisher)
	}
	if r.ImageURL != nil {
		t.Errorf("ImageURL = %v, want nil", *r.ImageURL)
	}
	if r.ThumbURL == nil || *r.ThumbURL != thumb {
		t.Errorf("ThumbURL = %v", r.ThumbURL)
	}

	// The record must not share pointers with the wire value.
	thumb = "changed"
	year = 1999
	if *r.ThumbURL != "https://img/thumb.jpg" || *r.YearPublished != 2018 {
		t.Error("record aliases wire pointers")
	}
}

func TestRecordsFromResultKeepsOrder(t *testing.T) {
	res := &catalog.SearchResult{Games: []catalog.Game{{ID: "2"}, {ID: "1"}, {ID: "3"}}}
	got := RecordsFromResult(res)
	for i, want := range []string{"2", "1", "3"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestRecordsFromNilResult(t *testing.T) {
	got := RecordsFromResult(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("RecordsFromResult(nil) = %#v, want empty slice", got)
	}
}

func TestPlayerRange(t *testing.T) {
	tests := []struct {
		min, max int
		want     string
	}{
		{2, 4, "2-4 players"},
		{1, 1, "1 player"},
		{2, 2, "2 players"},
		{3, 0, "3+ players"},
		{5, 2, "5+ players"},
		{0, 0, "? players"},
	}
	for _, tt := range tests {
		r := GameRecord{MinPlayers: tt.min, MaxPlayers: tt.max}
		if got := r.PlayerRange(); got != tt.want {
			t.Errorf("PlayerRange(%d,%d) = %q, want %q", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestYearText(t *testing.T) {
	if got := (GameRecord{}).YearText(); got != "n/a" {
		t.Errorf("YearText() = %q, want n/a", got)
	}
	if got := (GameRecord{YearPublished: intPtr(2016)}).YearText(); got != "2016" {
		t.Errorf("YearText() = %q, want 2016", got)
	}
}

func TestThumbnailFallsBackToImage(t *testing.T) {
	r := GameRecord{ImageURL: strPtr("cover")}
	if got := r.Thumbnail(); got != "cover" {
		t.Errorf("Thumbnail() = %q, want cover", got)
	}
	r.ThumbURL = strPtr("thumb")
	if got := r.Thumbnail(); got != "thumb" {
		t.Errorf("Thumbnail() = %q, want thumb", got)
	}
	if got := (GameRecord{}).Thumbnail(); got != "" {
		t.Errorf("Thumbnail() = %q, want empty", got)
	}
}

func TestSummaryStripsHTML(t *testing.T) {
	r := GameRecord{Description: "<p>It is a time of unrest in 1920s Europa.</p>\n<p>Ashes &amp; snow.</p>"}
	want := "It is a time of unrest in 1920s Europa. Ashes & snow."
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
