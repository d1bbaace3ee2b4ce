package components

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Root", 10, "Root"},
		{"Root", 4, "Root"},
		{"Root", 0, ""},
		{"Root", -1, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}

	got := Truncate("Spirit Island", 9)
	if VisibleLen(got) != 9 || !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("Truncate(Spirit Island, 9) = %q", got)
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		align Align
		want  string
	}{
		{AlignLeft, "ab   "},
		{AlignRight, "   ab"},
		{AlignCenter, " ab  "},
	}
	for _, tt := range tests {
		if got := Pad("ab", 5, tt.align); got != tt.want {
			t.Errorf("Pad(ab, 5, %d) = %q, want %q", tt.align, got, tt.want)
		}
	}
	if got := Pad("abcdef", 3, AlignLeft); got != "abcdef" {
		t.Errorf("Pad on wide input = %q", got)
	}
}

func TestPadWideRunes(t *testing.T) {
	// CJK runes take two cells each.
	got := Pad("囲碁", 6, AlignLeft)
	if VisibleLen(got) != 6 {
		t.Errorf("VisibleLen(%q) = %d, want 6", got, VisibleLen(got))
	}
}

func TestFit(t *testing.T) {
	for _, in := range []string{"", "x", "Gloomhaven", "Twilight Imperium Fourth Edition"} {
		if got := Fit(in, 12, AlignLeft); VisibleLen(got) != 12 {
			t.Errorf("Fit(%q, 12) width = %d", in, VisibleLen(got))
		}
	}
}

func TestWrap(t *testing.T) {
	text := "aaa bbb ccc ddd eee"

	all := Wrap(text, 7, 0)
	if len(all) < 2 {
		t.Fatalf("Wrap produced %d lines, want several", len(all))
	}
	for _, l := range all {
		if VisibleLen(l) > 7 {
			t.Errorf("line %q wider than 7", l)
		}
	}

	capped := Wrap(text, 7, 1)
	if len(capped) != 1 {
		t.Fatalf("capped Wrap = %d lines, want 1", len(capped))
	}
	if !strings.HasSuffix(capped[0], Ellipsis) || VisibleLen(capped[0]) > 7 {
		t.Errorf("capped line = %q", capped[0])
	}

	if got := Wrap(text, 0, 0); len(got) != 1 || got[0] != text {
		t.Errorf("Wrap with zero width = %q", got)
	}
}

func gameTable() Table {
	return Table{
		Columns: []Column{
			{Title: "#", Width: 3, Align: AlignRight},
			{Title: "Name", MinWidth: 6},
			{Title: "Year", Width: 4},
		},
		Sep: " ",
	}
}

func TestTableWidths(t *testing.T) {
	tbl := gameTable()

	w := tbl.Widths(30)
	// 30 - 2 separators = 28; fixed 3 + 4; name fills 21.
	if w[0] != 3 || w[1] != 21 || w[2] != 4 {
		t.Errorf("Widths(30) = %v", w)
	}

	w = tbl.Widths(10)
	if w[1] < 6 {
		t.Errorf("Widths(10) ignored MinWidth: %v", w)
	}
}

func TestTableWidthsSplitFill(t *testing.T) {
	tbl := Table{Columns: []Column{{}, {}, {Width: 2}}}
	w := tbl.Widths(11)
	// 9 left for two fill columns, the extra cell goes left.
	if w[0] != 5 || w[1] != 4 || w[2] != 2 {
		t.Errorf("Widths = %v", w)
	}
}

func TestTableRow(t *testing.T) {
	tbl := gameTable()
	w := tbl.Widths(20)

	row := tbl.Row([]string{"7", "Root", "2018"}, w)
	if VisibleLen(row) != 20 {
		t.Errorf("row width = %d, want 20: %q", VisibleLen(row), row)
	}
	if !strings.HasPrefix(row, "  7 Root") || !strings.HasSuffix(row, " 2018") {
		t.Errorf("row = %q", row)
	}

	short := tbl.Row([]string{"1"}, w)
	if VisibleLen(short) != 20 {
		t.Errorf("short row width = %d", VisibleLen(short))
	}

	long := tbl.Row([]string{"1", "Twilight Imperium Fourth Edition", "2017"}, w)
	if !strings.Contains(long, Ellipsis) || VisibleLen(long) != 20 {
		t.Errorf("long row = %q", long)
	}
}

func TestTableHeaderAndRule(t *testing.T) {
	tbl := gameTable()
	w := tbl.Widths(20)

	if h := tbl.Header(w); !strings.Contains(h, "Name") || VisibleLen(h) != 20 {
		t.Errorf("Header = %q", h)
	}
	if r := tbl.Rule(w); VisibleLen(r) != 20 {
		t.Errorf("Rule width = %d", VisibleLen(r))
	}
}
