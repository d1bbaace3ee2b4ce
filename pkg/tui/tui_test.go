package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/app"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/terminal"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/thumbnail"
)

func strPtr(s string) *string { return &s }

func fixtureGames() []gameslist.GameRecord {
	return []gameslist.GameRecord{
		{ID: "root", Name: "Root", PrimaryPublisher: "Leder Games", MinPlayers: 2, MaxPlayers: 4, Rank: 1,
			ThumbURL: strPtr("https://img.example/root.jpg"), Description: "<p>A game of woodland might.</p>"},
		{ID: "scythe", Name: "Scythe", PrimaryPublisher: "Stonemaier Games", MinPlayers: 1, MaxPlayers: 5, Rank: 2},
		{ID: "spirit", Name: "Spirit Island", PrimaryPublisher: "Greater Than Games", MinPlayers: 1, MaxPlayers: 4, Rank: 3},
	}
}

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	machine := gameslist.New(catalog.NewMockClient())
	t.Cleanup(func() { _ = machine.Close() })
	m := New(machine, opts...)
	t.Cleanup(m.Close)
	return m
}

// tuiUpdate sends msg through Update and returns the concrete model.
func tuiUpdate(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = tuiUpdate(m, keyRunes(string(r)))
	}
	return m
}

func loadedModel(t *testing.T, width int, opts ...Option) Model {
	t.Helper()
	m := newTestModel(t, opts...)
	m, _ = tuiUpdate(m, tea.WindowSizeMsg{Width: width, Height: 30})
	m, _ = tuiUpdate(m, app.StateEvent{State: gameslist.NewLoaded(fixtureGames())})
	return m
}

func TestNewStartsIdle(t *testing.T) {
	m := newTestModel(t)

	if !gameslist.Equal(m.State(), gameslist.Idle{}) {
		t.Errorf("State() = %s, want idle", m.State())
	}
	if m.Ready() || m.ShowHelp() || m.SearchMode() {
		t.Error("unexpected initial flags")
	}
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before size = %q", got)
	}
	if m.Init() == nil {
		t.Error("Init() should start the state stream and send Appeared")
	}
}

func TestWindowSizeMsgSetsReady(t *testing.T) {
	m := newTestModel(t)
	m, _ = tuiUpdate(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if !m.Ready() || m.Width() != 120 || m.Height() != 40 {
		t.Errorf("ready=%v size=%dx%d", m.Ready(), m.Width(), m.Height())
	}
}

func TestModelFollowsMachine(t *testing.T) {
	m := newTestModel(t)
	m.machine.Send(gameslist.Appeared{})

	for i := 0; i < 10; i++ {
		msg := app.WaitForState(m.sub)()
		m, _ = tuiUpdate(m, msg)
		if _, ok := m.State().(gameslist.Loaded); ok {
			break
		}
	}

	if _, ok := m.State().(gameslist.Loaded); !ok {
		t.Fatalf("State() = %s, want loaded", m.State())
	}
	if len(m.Visible()) != 4 {
		t.Errorf("visible games = %d, want 4", len(m.Visible()))
	}
}

func TestViewPerState(t *testing.T) {
	tests := []struct {
		name  string
		state gameslist.State
		want  []string
	}{
		{"idle", gameslist.Idle{}, []string{"Waiting for the list"}},
		{"loading", gameslist.Loading{}, []string{"Loading games", "ordered by popularity"}},
		{"error", gameslist.Error{Cause: errors.New("connection refused")}, []string{"Could not load games", "connection refused"}},
		{"error without cause", gameslist.Error{}, []string{"unknown error"}},
		{"empty", gameslist.NewLoaded(nil), []string{"No games found"}},
		{"loaded", gameslist.NewLoaded(fixtureGames()), []string{"Root", "Scythe", "Spirit Island", "3 games", "2-4 players"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m, _ = tuiUpdate(m, tea.WindowSizeMsg{Width: 100, Height: 24})
			m, _ = tuiUpdate(m, app.StateEvent{State: tt.state})

			out := m.View()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("view missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestViewHeightMatchesTerminal(t *testing.T) {
	m := loadedModel(t, 100)
	if got := strings.Count(m.View(), "\n") + 1; got != 30 {
		t.Errorf("view lines = %d, want 30", got)
	}
}

func TestDetailPaneNeedsWidth(t *testing.T) {
	wide := loadedModel(t, 120)
	if out := wide.View(); !strings.Contains(out, "Leder Games") || !strings.Contains(out, "Rank 1") {
		t.Errorf("wide view should show details:\n%s", out)
	}
	if out := wide.View(); !strings.Contains(out, "woodland might") {
		t.Errorf("detail pane should show the summary:\n%s", out)
	}

	narrow := loadedModel(t, 60)
	if strings.Contains(narrow.View(), "Leder Games") {
		t.Error("narrow view should drop the detail pane")
	}
}

func TestNavigation(t *testing.T) {
	m := loadedModel(t, 100)

	m, _ = tuiUpdate(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor() != 0 {
		t.Errorf("up at top moved cursor to %d", m.Cursor())
	}
	m, _ = tuiUpdate(m, tea.KeyMsg{Type: tea.KeyDown})
	if g, _ := m.Selected(); g.ID != "scythe" {
		t.Errorf("after down selected %q", g.ID)
	}
	m, _ = tuiUpdate(m, keyRunes("G"))
	if g, _ := m.Selected(); g.ID != "spirit" {
		t.Errorf("after G selected %q", g.ID)
	}
	m, _ = tuiUpdate(m, keyRunes("j"))
	if m.Cursor() != 2 {
		t.Errorf("down at bottom moved cursor to %d", m.Cursor())
	}
	m, _ = tuiUpdate(m, keyRunes("g"))
	if m.Cursor() != 0 {
		t.Errorf("after g cursor = %d", m.Cursor())
	}
}

func TestMouseWheelMovesSelection(t *testing.T) {
	m := loadedModel(t, 100)
	m, _ = tuiUpdate(m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor())
	}
	m, _ = tuiUpdate(m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}
}

func TestSearchFiltersByNameAndPublisher(t *testing.T) {
	m := loadedModel(t, 100)

	m, _ = tuiUpdate(m, keyRunes("/"))
	if !m.SearchMode() {
		t.Fatal("expected search mode after /")
	}
	m = typeText(m, "scy")
	if v := m.Visible(); len(v) != 1 || v[0].ID != "scythe" {
		t.Errorf("visible = %+v", v)
	}
	if !strings.Contains(m.View(), `1 of 3 games matching "scy"`) {
		t.Errorf("header should report the filter:\n%s", m.View())
	}

	m, _ = tuiUpdate(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.SearchMode() || m.SearchQuery() != "scy" {
		t.Errorf("enter should leave search mode and keep the filter: mode=%v query=%q", m.SearchMode(), m.SearchQuery())
	}

	m, _ = tuiUpdate(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.SearchQuery() != "" || len(m.Visible()) != 3 {
		t.Errorf("esc should clear the filter, visible = %d", len(m.Visible()))
	}
	if g, _ := m.Selected(); g.ID != "scythe" {
		t.Errorf("selection should stay on scythe, got %q", g.ID)
	}

	m, _ = tuiUpdate(m, keyRunes("/"))
	m = typeText(m, "LEDER")
	if v := m.Visible(); len(v) != 1 || v[0].ID != "root" {
		t.Errorf("publisher search visible = %+v", v)
	}
}

func TestSearchNoMatches(t *testing.T) {
	m := loadedModel(t, 100)
	m, _ = tuiUpdate(m, keyRunes("/"))
	m = typeText(m, "zzz")

	if _, ok := m.Selected(); ok {
		t.Error("nothing should be selected")
	}
	if !strings.Contains(m.View(), "No matches") {
		t.Error("expected a no matches placeholder")
	}
}

func TestEscapeExitsSearchMode(t *testing.T) {
	m := loadedModel(t, 100)
	m, _ = tuiUpdate(m, keyRunes("/"))
	m = typeText(m, "root")
	m, _ = tuiUpdate(m, tea.KeyMsg{Type: tea.KeyEscape})

	if m.SearchMode() || m.SearchQuery() != "" {
		t.Errorf("mode=%v query=%q", m.SearchMode(), m.SearchQuery())
	}
}

func TestSearchIgnoredUntilLoaded(t *testing.T) {
	m := newTestModel(t)
	m, _ = tuiUpdate(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = tuiUpdate(m, keyRunes("/"))
	if m.SearchMode() {
		t.Error("search should not open while idle")
	}
}

func TestQQuits(t *testing.T) {
	m := loadedModel(t, 100)
	m, cmd := tuiUpdate(m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !m.Quitting() || m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestCtrlCQuitsInSearchMode(t *testing.T) {
	m := loadedModel(t, 100)
	m, _ = tuiUpdate(m, keyRunes("/"))
	m, cmd := tuiUpdate(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !m.Quitting() {
		t.Error("ctrl+c should quit from search mode")
	}
}

func TestQInSearchModeTypesQ(t *testing.T) {
	m := loadedModel(t, 100)
	m, _ = tuiUpdate(m, keyRunes("/"))
	m, _ = tuiUpdate(m, keyRunes("q"))

	if m.Quitting() {
		t.Error("q in search mode should not quit")
	}
	if m.SearchQuery() != "q" {
		t.Errorf("SearchQuery() = %q, want q", m.SearchQuery())
	}
}

func TestHelpToggle(t *testing.T) {
	m := loadedModel(t, 100)
	short := m.View()

	m, _ = tuiUpdate(m, keyRunes("?"))
	if !m.ShowHelp() {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "page down") {
		t.Error("full help should list every binding")
	}
	if strings.Count(m.View(), "\n") != strings.Count(short, "\n") {
		t.Error("view height should not change when help opens")
	}

	m, _ = tuiUpdate(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.ShowHelp() {
		t.Error("esc should close help")
	}
}

func TestReloadKeepsSelection(t *testing.T) {
	m := loadedModel(t, 100)
	m, _ = tuiUpdate(m, keyRunes("j"))

	reordered := fixtureGames()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	reordered = append([]gameslist.GameRecord{{ID: "new", Name: "Brass"}}, reordered...)
	m, _ = tuiUpdate(m, app.StateEvent{State: gameslist.NewLoaded(reordered)})

	if g, _ := m.Selected(); g.ID != "scythe" {
		t.Errorf("selected %q after reload, want scythe", g.ID)
	}
}

func TestSpinnerStopsWhenSettled(t *testing.T) {
	m := loadedModel(t, 100)
	if _, cmd := tuiUpdate(m, spinner.TickMsg{}); cmd != nil {
		t.Error("spinner should stop ticking once loaded")
	}
}

func TestThumbnailFlow(t *testing.T) {
	loader, err := thumbnail.NewLoader(thumbnail.LoaderConfig{
		Renderer: thumbnail.NewRenderer(terminal.ProtocolHalfblocks, 0, 0),
		Width:    8,
		Height:   4,
	})
	if err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, WithThumbnails(loader))
	m, _ = tuiUpdate(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, cmd := tuiUpdate(m, app.StateEvent{State: gameslist.NewLoaded(fixtureGames())})
	if cmd == nil {
		t.Fatal("expected commands after load")
	}
	if !strings.Contains(m.View(), "loading cover") {
		t.Error("expected a pending cover placeholder")
	}

	url := "https://img.example/root.jpg"
	m, _ = tuiUpdate(m, app.FetchEvent{Key: url, Data: "COVER-ART"})
	if !strings.Contains(m.View(), "COVER-ART") {
		t.Errorf("detail pane should show the art:\n%s", m.View())
	}

	// Known art is not fetched again.
	if cmd := m.thumbnailCmd(); cmd != nil {
		t.Error("art already loaded should not be refetched")
	}
}

func TestThumbnailFailureNotRetried(t *testing.T) {
	loader, _ := thumbnail.NewLoader(thumbnail.LoaderConfig{
		Renderer: thumbnail.NewRenderer(terminal.ProtocolHalfblocks, 0, 0),
		Width:    8,
		Height:   4,
	})
	m := loadedModel(t, 120, WithThumbnails(loader))

	m, _ = tuiUpdate(m, app.FetchEvent{Key: "https://img.example/root.jpg", Err: errors.New("404")})
	if cmd := m.thumbnailCmd(); cmd != nil {
		t.Error("failed art should not be refetched")
	}
	if strings.Contains(m.View(), "loading cover") {
		t.Error("failed art should not show as pending")
	}
}

func TestFilterGames(t *testing.T) {
	games := fixtureGames()
	tests := []struct {
		query string
		want  []int
	}{
		{"", []int{0, 1, 2}},
		{"  ", []int{0, 1, 2}},
		{"island", []int{2}},
		{"GAMES", []int{0, 1, 2}},
		{"stonemaier", []int{1}},
		{"chess", []int{}},
	}
	for _, tt := range tests {
		got := filterGames(games, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("filterGames(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("filterGames(%q) = %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}

func TestGameCells(t *testing.T) {
	cells := GameCells(gameslist.GameRecord{Name: "Gloomhaven", MinPlayers: 1, MaxPlayers: 4})
	want := []string{"-", "Gloomhaven", "1-4 players", "n/a"}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cells = %q, want %q", cells, want)
			break
		}
	}
}

func TestDescribeQuery(t *testing.T) {
	if got := describeQuery(catalog.Query{}); got != "ordered by popularity" {
		t.Errorf("describeQuery(empty) = %q", got)
	}
	if got := describeQuery(catalog.Query{Name: "root", OrderBy: "rank"}); got != `matching "root", ordered by rank` {
		t.Errorf("describeQuery = %q", got)
	}
}
