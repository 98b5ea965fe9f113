package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"hunttrack/pkg/session"
	"hunttrack/pkg/store"
)

// tickMsg is sent by Bubble Tea on every tick interval. Each tick drains
// the change notifications and processes new chat lines.
type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Tab is a top-level dashboard page.
type Tab int

const (
	// HomeTab shows the current session's statistics.
	HomeTab Tab = iota
	// SessionsTab lists saved sessions.
	SessionsTab
	// LoadoutsTab lists saved loadouts.
	LoadoutsTab
	// MarkupsTab lists item markups and edits them inline.
	MarkupsTab
)

func (t Tab) String() string {
	switch t {
	case SessionsTab:
		return "Sessions"
	case LoadoutsTab:
		return "Loadouts"
	case MarkupsTab:
		return "Markups"
	default:
		return "Home"
	}
}

// Model is the Bubble Tea model for the hunttrack dashboard.
type Model struct {
	app *App

	tick     time.Duration
	autosave time.Duration
	lastSave time.Time

	keys     keyMap
	help     help.Model
	activity int // activity lines shown on Home

	tab           Tab
	sessionCursor int
	loadoutCursor int
	markupCursor  int

	sessions []store.SessionInfo
	loadouts []session.Loadout

	editing bool
	input   textinput.Model

	width   int
	height  int
	err     error // last action or autosave failure
	tailErr error // last chat log read failure
}

// newModel creates a Model on HomeTab.
func newModel(app *App, tick, autosave time.Duration) Model {
	in := textinput.New()
	in.Placeholder = "1.00"
	in.CharLimit = 16
	in.Prompt = "markup: "

	m := Model{
		app:      app,
		tick:     tick,
		autosave: autosave,
		lastSave: app.now(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		activity: 12,
		tab:      HomeTab,
		input:    in,
	}
	m.refreshLists()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKeys(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m = m.onTick(time.Time(msg))
		return m, tickCmd(m.tick)
	}
	return m, nil
}

// onTick processes new log lines and autosaves when due.
func (m Model) onTick(now time.Time) Model {
	res := m.app.Step()
	if res.Polled {
		m.tailErr = res.Err
	}

	if m.autosave > 0 && now.Sub(m.lastSave) >= m.autosave {
		if err := m.app.Save(context.Background()); err != nil {
			m.app.logger().Error("autosave failed", "err", err)
			m.err = err
		}
		m.lastSave = now
	}
	return m
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Home):
		m.tab = HomeTab
	case key.Matches(msg, m.keys.Sessions):
		m.tab = SessionsTab
		m.refreshLists()
	case key.Matches(msg, m.keys.Loadouts):
		m.tab = LoadoutsTab
		m.refreshLists()
	case key.Matches(msg, m.keys.Markups):
		m.tab = MarkupsTab
	case key.Matches(msg, m.keys.Toggle):
		m.app.ToggleRunning()
	case key.Matches(msg, m.keys.Reset):
		m.app.Reset()
	case key.Matches(msg, m.keys.Up):
		m = m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m = m.moveCursor(1)
	case key.Matches(msg, m.keys.New):
		m = m.createNew(ctx)
	case key.Matches(msg, m.keys.Select):
		return m.selectCurrent(ctx)
	}
	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	case msg.Type == tea.KeyEnter:
		markups := m.app.Tracker.Markups.Sorted()
		if m.markupCursor < len(markups) {
			m.err = m.app.SetMarkup(markups[m.markupCursor].Name, m.input.Value())
		}
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) moveCursor(delta int) Model {
	clamp := func(i, n int) int {
		if n == 0 || i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	switch m.tab {
	case SessionsTab:
		m.sessionCursor = clamp(m.sessionCursor+delta, len(m.sessions))
	case LoadoutsTab:
		m.loadoutCursor = clamp(m.loadoutCursor+delta, len(m.loadouts))
	case MarkupsTab:
		m.markupCursor = clamp(m.markupCursor+delta, len(m.app.Tracker.Markups))
	case HomeTab:
	}
	return m
}

func (m Model) createNew(ctx context.Context) Model {
	switch m.tab {
	case SessionsTab:
		_, m.err = m.app.NewSession(ctx)
	case LoadoutsTab:
		_, m.err = m.app.NewLoadout(ctx)
	case HomeTab, MarkupsTab:
		return m
	}
	m.refreshLists()
	return m
}

func (m Model) selectCurrent(ctx context.Context) (tea.Model, tea.Cmd) {
	switch m.tab {
	case SessionsTab:
		if m.sessionCursor < len(m.sessions) {
			m.err = m.app.SelectSession(ctx, m.sessions[m.sessionCursor].Name)
			m.refreshLists()
		}
	case LoadoutsTab:
		if m.loadoutCursor < len(m.loadouts) {
			m.err = m.app.EquipLoadout(ctx, m.loadouts[m.loadoutCursor].Name)
		}
	case MarkupsTab:
		markups := m.app.Tracker.Markups.Sorted()
		if m.markupCursor < len(markups) {
			m.editing = true
			m.input.SetValue(markups[m.markupCursor].Value.String())
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case HomeTab:
	}
	return m, nil
}

// refreshLists reloads the session and loadout lists from the store.
func (m *Model) refreshLists() {
	ctx := context.Background()
	sessions, err := m.app.Store.ListSessions(ctx)
	if err != nil {
		m.err = err
		return
	}
	loadouts, err := m.app.Store.ListLoadouts(ctx)
	if err != nil {
		m.err = err
		return
	}
	m.sessions = sessions
	m.loadouts = loadouts
}
