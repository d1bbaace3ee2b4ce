// Package tui is the interactive games list: a bubbletea model that drives
// the list state machine, shows a spinner while loading, then a selectable
// table of games with a detail pane, a search filter and mouse support.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/app"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/components"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/stream"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/thumbnail"
)

// Option configures a Model.
type Option func(*Model)

// WithThumbnails shows cover art for the selected game.
func WithThumbnails(l *thumbnail.Loader) Option {
	return func(m *Model) { m.thumbs = l }
}

// WithQuery sets the query described in the header.
func WithQuery(q catalog.Query) Option {
	return func(m *Model) { m.query = q }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model is the bubbletea model for the games list.
type Model struct {
	machine *gameslist.StateMachine
	sub     *stream.Subscription[gameslist.State]
	state   gameslist.State
	games   []gameslist.GameRecord
	visible []int
	cursor  app.Cursor
	query   catalog.Query

	width, height int
	ready         bool
	quitting      bool
	showHelp      bool
	searchMode    bool

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	search  textinput.Model
	zones   *zone.Manager

	thumbs  *thumbnail.Loader
	art     map[string]string
	artErr  map[string]error
	pending map[string]bool
	ctx     context.Context

	logger *slog.Logger
}

// New builds a Model over machine and subscribes to its states. Init sends
// Appeared, which starts loading.
func New(machine *gameslist.StateMachine, opts ...Option) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = components.TitleStyle

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name or publisher"
	ti.CharLimit = 64

	m := Model{
		machine: machine,
		sub:     machine.Subscribe(),
		state:   machine.State(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		search:  ti,
		zones:   zone.New(),
		art:     make(map[string]string),
		artErr:  make(map[string]error),
		pending: make(map[string]bool),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		app.WaitForState(m.sub),
		app.SendCmd(m.machine, gameslist.Appeared{}),
		m.spinner.Tick,
	)
}

// Close releases the subscription and the mouse zone manager. The state
// machine belongs to the caller.
func (m Model) Close() {
	m.sub.Cancel()
	m.zones.Close()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-4, 8)
		m.cursor.Scroll(m.listHeight())
		return m, nil

	case app.StateEvent:
		return m.applyState(msg.State)

	case app.StreamClosedEvent:
		return m, nil

	case app.FetchEvent:
		delete(m.pending, msg.Key)
		if msg.Err != nil {
			m.artErr[msg.Key] = msg.Err
		} else if art, ok := msg.Data.(string); ok {
			m.art[msg.Key] = art
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) applyState(s gameslist.State) (tea.Model, tea.Cmd) {
	m.logger.Debug("view state", "state", s.String())
	m.state = s
	wait := app.WaitForState(m.sub)

	loaded, ok := s.(gameslist.Loaded)
	if !ok {
		return m, wait
	}
	keep := m.selectedID()
	m.games = loaded.Games
	m.refilter(keep)
	return m, tea.Batch(wait, m.thumbnailCmd())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if m.showHelp {
			m.showHelp = false
			m.help.ShowAll = false
		} else if m.search.Value() != "" {
			keep := m.selectedID()
			m.search.SetValue("")
			m.refilter(keep)
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		if !m.loaded() {
			return m, nil
		}
		m.searchMode = true
		return m, m.search.Focus()
	}

	n := len(m.visible)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor.Move(-1, n)
	case key.Matches(msg, m.keys.Down):
		m.cursor.Move(1, n)
	case key.Matches(msg, m.keys.PageUp):
		m.cursor.Move(-m.listHeight(), n)
	case key.Matches(msg, m.keys.PageDown):
		m.cursor.Move(m.listHeight(), n)
	case key.Matches(msg, m.keys.Top):
		m.cursor.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor.Bottom(n)
	default:
		return m, nil
	}
	m.cursor.Scroll(m.listHeight())
	return m, m.thumbnailCmd()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		keep := m.selectedID()
		m.searchMode = false
		m.search.Blur()
		m.search.SetValue("")
		m.refilter(keep)
		return m, m.thumbnailCmd()
	case tea.KeyEnter:
		m.searchMode = false
		m.search.Blur()
		return m, m.thumbnailCmd()
	}

	keep := m.selectedID()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter(keep)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	n := len(m.visible)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.cursor.Move(-1, n)
	case msg.Button == tea.MouseButtonWheelDown:
		m.cursor.Move(1, n)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		row, ok := m.rowAt(msg)
		if !ok {
			return m, nil
		}
		m.cursor.Set(row, n)
	default:
		return m, nil
	}
	m.cursor.Scroll(m.listHeight())
	return m, m.thumbnailCmd()
}

// rowAt returns the visible row under a mouse event.
func (m Model) rowAt(msg tea.MouseMsg) (int, bool) {
	end := min(m.cursor.Offset+m.listHeight(), len(m.visible))
	for i := m.cursor.Offset; i < end; i++ {
		if z := m.zones.Get(rowZoneID(i)); z != nil && z.InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}

// refilter recomputes the visible rows and keeps the selection on the game
// with id keep when it survives the filter.
func (m *Model) refilter(keep string) {
	m.visible = filterGames(m.games, m.search.Value())
	m.cursor.Index = 0
	for i, gi := range m.visible {
		if keep != "" && m.games[gi].ID == keep {
			m.cursor.Index = i
			break
		}
	}
	m.cursor.Clamp(len(m.visible))
	m.cursor.Scroll(m.listHeight())
}

// thumbnailCmd starts loading the selected game's art unless it is known or
// already on its way.
func (m Model) thumbnailCmd() tea.Cmd {
	if m.thumbs == nil {
		return nil
	}
	g, ok := m.Selected()
	if !ok {
		return nil
	}
	url := g.Thumbnail()
	if url == "" || m.pending[url] {
		return nil
	}
	if _, ok := m.art[url]; ok {
		return nil
	}
	if _, ok := m.artErr[url]; ok {
		return nil
	}

	m.pending[url] = true
	loader, ctx := m.thumbs, m.ctx
	return app.FetchCmd(url, func() (any, error) {
		return loader.Load(ctx, url)
	})
}

func (m Model) selectedID() string {
	if g, ok := m.Selected(); ok {
		return g.ID
	}
	return ""
}

func (m Model) busy() bool {
	switch m.state.(type) {
	case gameslist.Idle, gameslist.Loading:
		return true
	}
	return false
}

func (m Model) loaded() bool {
	_, ok := m.state.(gameslist.Loaded)
	return ok
}

// Selected returns the highlighted game.
func (m Model) Selected() (gameslist.GameRecord, bool) {
	if m.cursor.Index < 0 || m.cursor.Index >= len(m.visible) {
		return gameslist.GameRecord{}, false
	}
	return m.games[m.visible[m.cursor.Index]], true
}

// Visible returns the games that pass the current filter, in list order.
func (m Model) Visible() []gameslist.GameRecord {
	out := make([]gameslist.GameRecord, len(m.visible))
	for i, gi := range m.visible {
		out[i] = m.games[gi]
	}
	return out
}

func (m Model) State() gameslist.State { return m.state }
func (m Model) Width() int              { return m.width }
func (m Model) Height() int             { return m.height }
func (m Model) Ready() bool             { return m.ready }
func (m Model) Quitting() bool          { return m.quitting }
func (m Model) ShowHelp() bool          { return m.showHelp }
func (m Model) SearchMode() bool        { return m.searchMode }
func (m Model) SearchQuery() string     { return m.search.Value() }
func (m Model) Cursor() int             { return m.cursor.Index }
