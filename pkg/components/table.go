package components

import "strings"

// Column describes one table column. Width 0 means the column shares the
// space left over by fixed columns.
type Column struct {
	Title    string
	Width    int
	MinWidth int
	Align    Align
}

// Table lays out rows of cells in fixed and fill columns separated by Sep.
type Table struct {
	Columns []Column
	Sep     string
}

// Widths resolves column widths for a total width. Fixed columns are placed
// first, fill columns split the rest, then MinWidth is enforced by taking
// cells back from the rightmost fill column.
func (t Table) Widths(total int) []int {
	n := len(t.Columns)
	if n == 0 {
		return nil
	}
	widths := make([]int, n)

	available := total - VisibleLen(t.Sep)*(n-1)
	if available < 0 {
		available = 0
	}

	remaining := available
	fills := 0
	for i, c := range t.Columns {
		if c.Width == 0 {
			fills++
			continue
		}
		w := min(c.Width, remaining)
		widths[i] = w
		remaining -= w
	}

	if fills > 0 && remaining > 0 {
		each, extra := remaining/fills, remaining%fills
		for i, c := range t.Columns {
			if c.Width != 0 {
				continue
			}
			widths[i] = each
			if extra > 0 {
				widths[i]++
				extra--
			}
		}
	}

	for i, c := range t.Columns {
		deficit := c.MinWidth - widths[i]
		if deficit <= 0 {
			continue
		}
		widths[i] = c.MinWidth
		for j := n - 1; j >= 0 && deficit > 0; j-- {
			if j == i || t.Columns[j].Width != 0 {
				continue
			}
			spare := widths[j] - t.Columns[j].MinWidth
			if spare <= 0 {
				continue
			}
			take := min(spare, deficit)
			widths[j] -= take
			deficit -= take
		}
	}
	return widths
}

// Header renders the column titles.
func (t Table) Header(widths []int) string {
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	return t.Row(titles, widths)
}

// Rule renders a horizontal line as wide as the table.
func (t Table) Rule(widths []int) string {
	total := VisibleLen(t.Sep) * max(len(widths)-1, 0)
	for _, w := range widths {
		total += w
	}
	return strings.Repeat("─", total)
}

// Row renders one line of cells, each fitted to its column. Missing cells
// render blank.
func (t Table) Row(cells []string, widths []int) string {
	var sb strings.Builder
	for i, w := range widths {
		if i > 0 {
			sb.WriteString(t.Sep)
		}
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(Fit(cell, w, t.Columns[i].Align))
	}
	return sb.String()
}
