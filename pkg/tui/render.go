package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/app"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/components"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
)

const (
	appTitle = "Board Game Atlas"

	// Below this width the detail pane is dropped.
	detailMinWidth = 90
	summaryLines   = 8
)

// GameTable is the column layout shared by the TUI and the plain list.
var GameTable = components.Table{
	Columns: []components.Column{
		{Title: "#", Width: 4, Align: components.AlignRight},
		{Title: "Name", MinWidth: 10},
		{Title: "Players", Width: 11},
		{Title: "Year", Width: 4, Align: components.AlignRight},
	},
	Sep: "  ",
}

// GameCells returns the table cells for one game.
func GameCells(g gameslist.GameRecord) []string {
	rank := "-"
	if g.Rank > 0 {
		rank = strconv.Itoa(g.Rank)
	}
	return []string{rank, g.Name, g.PlayerRange(), g.YearText()}
}

func rowZoneID(i int) string {
	return "row-" + strconv.Itoa(i)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	footer := m.renderFooter()
	bodyH := max(m.height-1-lipgloss.Height(footer), 1)

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(bodyH),
		footer,
	)
	return m.zones.Scan(view)
}

// listHeight is the number of game rows that fit on screen.
func (m Model) listHeight() int {
	if m.height == 0 {
		return 1
	}
	footerH := 1
	if m.showHelp && !m.searchMode {
		footerH = lipgloss.Height(m.help.View(m.keys))
	}
	// Title line, footer, table header and rule.
	return max(m.height-1-footerH-2, 1)
}

func (m Model) renderHeader() string {
	var status string
	switch m.state.(type) {
	case gameslist.Idle:
		status = "idle"
	case gameslist.Loading:
		status = "loading…"
	case gameslist.Error:
		status = "error"
	case gameslist.Loaded:
		status = fmt.Sprintf("%d games", len(m.games))
		if q := m.search.Value(); q != "" {
			status = fmt.Sprintf("%d of %d games matching %q", len(m.visible), len(m.games), q)
		}
	}
	title := components.TitleStyle.Render(appTitle)
	line := title + "  " + components.MutedStyle.Render(status)
	return components.Truncate(line, m.width)
}

func (m Model) renderFooter() string {
	if m.searchMode {
		return m.search.View()
	}
	return m.help.View(m.keys)
}

func (m Model) renderBody(height int) string {
	switch s := m.state.(type) {
	case gameslist.Idle:
		return app.Placeholder(appTitle, "Waiting for the list to appear", m.width, height)
	case gameslist.Loading:
		return app.Placeholder(m.spinner.View()+" Loading games", describeQuery(m.query), m.width, height)
	case gameslist.Error:
		msg := "unknown error"
		if s.Cause != nil {
			msg = s.Cause.Error()
		}
		return app.Placeholder(components.ErrorStyle.Render("Could not load games"), msg, m.width, height)
	}

	if len(m.games) == 0 {
		return app.Placeholder("No games found", describeQuery(m.query), m.width, height)
	}
	if len(m.visible) == 0 {
		return app.Placeholder("No matches", fmt.Sprintf("Nothing matches %q", m.search.Value()), m.width, height)
	}

	if m.width < detailMinWidth {
		return m.renderList(m.width, height)
	}
	listW := m.width * 3 / 5
	detailW := m.width - listW - 1
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList(listW, height),
		" ",
		m.renderDetail(detailW, height),
	)
}

func (m Model) renderList(width, height int) string {
	widths := GameTable.Widths(width)
	lines := []string{
		components.HeaderStyle.Render(GameTable.Header(widths)),
		components.MutedStyle.Render(GameTable.Rule(widths)),
	}

	end := min(m.cursor.Offset+height-2, len(m.visible))
	for i := m.cursor.Offset; i < end; i++ {
		line := GameTable.Row(GameCells(m.games[m.visible[i]]), widths)
		if i == m.cursor.Index {
			line = components.SelectedStyle.Render(line)
		}
		lines = append(lines, m.zones.Mark(rowZoneID(i), line))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetail(width, height int) string {
	g, ok := m.Selected()
	if !ok {
		return ""
	}
	// Border and horizontal padding.
	inner := max(width-4, 1)

	lines := []string{
		components.TitleStyle.Render(components.Truncate(g.Name, inner)),
	}
	if g.PrimaryPublisher != "" {
		lines = append(lines, components.MutedStyle.Render(components.Truncate(g.PrimaryPublisher, inner)))
	}
	lines = append(lines, g.PlayerRange()+" · "+g.YearText())

	var ranks []string
	if g.Rank > 0 {
		ranks = append(ranks, components.RankStyle.Render("Rank "+strconv.Itoa(g.Rank)))
	}
	if g.TrendingRank > 0 {
		ranks = append(ranks, "Trending "+strconv.Itoa(g.TrendingRank))
	}
	if len(ranks) > 0 {
		lines = append(lines, strings.Join(ranks, " · "))
	}

	if url := g.Thumbnail(); url != "" && m.thumbs != nil {
		lines = append(lines, "")
		switch {
		case m.art[url] != "":
			lines = append(lines, m.art[url])
		case m.pending[url]:
			lines = append(lines, components.MutedStyle.Render("loading cover…"))
		}
	}

	if summary := g.Summary(); summary != "" {
		lines = append(lines, "")
		lines = append(lines, components.Wrap(summary, inner, summaryLines)...)
	}

	return components.PanelStyle.
		Width(width - 2).
		Height(max(height-2, 1)).
		Render(strings.Join(lines, "\n"))
}

// describeQuery summarises the catalog query for placeholders.
func describeQuery(q catalog.Query) string {
	order := q.OrderBy
	if order == "" {
		order = catalog.DefaultOrderBy
	}
	s := "ordered by " + order
	if q.Name != "" {
		s = fmt.Sprintf("matching %q, %s", q.Name, s)
	}
	return s
}
