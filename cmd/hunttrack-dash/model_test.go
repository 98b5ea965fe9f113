package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"hunttrack/pkg/classify"
	"hunttrack/pkg/pattern"
	"hunttrack/pkg/store"
	"hunttrack/pkg/tail"
	"hunttrack/pkg/tracker"
)

const testPlayer = "Jane Janie Doe"

type testEnv struct {
	app    *App
	store  *store.Store
	notify chan struct{}
	log    string
}

// newTestEnv builds an App over an in-memory store and a temp chat log.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	sess, err := st.Resume(ctx, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "chat.log")
	if err := os.WriteFile(logPath, []byte("old history\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tr := tracker.New(testPlayer, sess, nil)
	pump := &tracker.Pump{
		Path:       logPath,
		Tailer:     tail.New(),
		Classifier: classify.New(pattern.Default()),
		Tracker:    tr,
	}
	if err := pump.Prime(); err != nil {
		t.Fatalf("prime: %v", err)
	}

	clock := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	notify := make(chan struct{}, 8)
	return &testEnv{
		app: &App{
			Store:   st,
			Tracker: tr,
			Pump:    pump,
			Notify:  notify,
			Now: func() time.Time {
				clock = clock.Add(time.Second)
				return clock
			},
		},
		store:  st,
		notify: notify,
		log:    logPath,
	}
}

func (e *testEnv) appendLog(t *testing.T, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(e.log, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		t.Fatal(err)
	}
	e.notify <- struct{}{}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func latestActivity(e *testEnv) string {
	entries := e.app.Tracker.Activity.Entries()
	if len(entries) == 0 {
		return ""
	}
	return entries[0]
}

func TestTickProcessesNewLines(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, 250*time.Millisecond, 0)

	m = press(t, m, "p")
	if !env.app.Session().Running() {
		t.Fatal("p should start the session")
	}

	env.appendLog(t,
		"[System] [] You inflicted 12.5 points of damage",
		"[System] [] You received Animal Hide x (2) Value: 0.0500 PED",
	)
	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	st := env.app.Session().Stats
	if st.AttackCount != 1 || !st.TotalDamage.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("stats not updated: %+v", st)
	}
	if !env.app.Tracker.Markups.Has("Animal Hide") {
		t.Error("looted item should get a default markup")
	}
	if !strings.Contains(m.View(), "Animal Hide") {
		t.Error("Home view should list the loot")
	}
}

func TestTickWhileStoppedIgnoresLines(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, 250*time.Millisecond, 0)

	env.appendLog(t, "[System] [] You inflicted 12.5 points of damage")
	updated, _ := m.Update(tickMsg(time.Now()))
	_ = updated.(Model)

	if env.app.Session().Stats.AttackCount != 0 {
		t.Error("stopped session should not collect stats")
	}
}

func TestToggleAndReset(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, time.Second, 0)

	m = press(t, m, "p")
	if got := latestActivity(env); got != "Starting Session" {
		t.Errorf("activity = %q", got)
	}
	m = press(t, m, "p")
	if env.app.Session().Running() {
		t.Error("second p should pause")
	}
	if got := latestActivity(env); got != "Stopping Session" {
		t.Errorf("activity = %q", got)
	}

	env.app.Session().Stats.AttackCount = 5
	press(t, m, "r")
	if env.app.Session().Stats.AttackCount != 0 {
		t.Error("r should clear the session")
	}
}

func TestTabKeys(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, time.Second, 0)

	tests := []struct {
		key  string
		want Tab
	}{
		{"s", SessionsTab},
		{"l", LoadoutsTab},
		{"m", MarkupsTab},
		{"h", HomeTab},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if m.tab != tt.want {
			t.Errorf("after %q tab = %v, want %v", tt.key, m.tab, tt.want)
		}
		if !strings.Contains(m.View(), tt.want.String()) {
			t.Errorf("view for %v missing its title", tt.want)
		}
	}
}

func TestNewAndSelectSession(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, time.Second, 0)
	original := env.app.Session()

	m = press(t, m, "p", "s", "n")
	if len(m.sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(m.sessions))
	}
	if env.app.Session() != original {
		t.Fatal("n should not switch sessions")
	}

	// Newest first: the created session is at the cursor.
	target := m.sessions[0].Name
	if target == original.Name {
		t.Fatalf("expected new session first, got %q", target)
	}
	m = press(t, m, "enter")
	if env.app.Session().Name != target {
		t.Errorf("current = %q, want %q", env.app.Session().Name, target)
	}
	if original.Running() {
		t.Error("previous session should be paused on switch")
	}
	if got := latestActivity(env); got != "Selecting Session: "+target {
		t.Errorf("activity = %q", got)
	}

	press(t, m, "enter")
	if got := latestActivity(env); got != "Session already selected" {
		t.Errorf("activity = %q", got)
	}
}

func TestNewAndEquipLoadout(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, time.Second, 0)

	m = press(t, m, "l", "n")
	if len(m.loadouts) != 2 {
		t.Fatalf("loadouts = %d, want 2", len(m.loadouts))
	}
	var idx int
	for i, l := range m.loadouts {
		if l.Name != "default" {
			idx = i
		}
	}
	target := m.loadouts[idx].Name
	m.loadoutCursor = idx

	press(t, m, "enter")
	if env.app.Session().Loadout.Name != target {
		t.Errorf("loadout = %q, want %q", env.app.Session().Loadout.Name, target)
	}
}

func TestMarkupInlineEdit(t *testing.T) {
	env := newTestEnv(t)
	env.app.Tracker.Markups.Set("Animal Hide", decimal.NewFromInt(1))
	m := newModel(env.app, time.Second, 0)

	m = press(t, m, "m", "enter")
	if !m.editing {
		t.Fatal("enter on Markups should start editing")
	}
	m.input.SetValue("")
	m = press(t, m, "1", ".", "2", "5", "enter")
	if m.editing {
		t.Error("enter should commit the edit")
	}
	if got := env.app.Tracker.Markups.Value("Animal Hide"); !got.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("markup = %s, want 1.25", got)
	}

	m = press(t, m, "enter")
	m.input.SetValue("abc")
	m = press(t, m, "enter")
	if m.err == nil {
		t.Error("invalid markup should surface an error")
	}

	m = press(t, m, "enter", "esc")
	if m.editing {
		t.Error("esc should cancel editing")
	}
}

func TestAutosave(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, time.Second, 5*time.Second)
	env.app.Session().Stats.DeathCount = 3

	updated, _ := m.Update(tickMsg(m.lastSave.Add(time.Second)))
	m = updated.(Model)
	got, err := env.store.LoadSession(context.Background(), env.app.Session().Name)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stats.DeathCount != 0 {
		t.Error("saved before autosave interval elapsed")
	}

	updated, _ = m.Update(tickMsg(m.lastSave.Add(6 * time.Second)))
	_ = updated.(Model)
	got, err = env.store.LoadSession(context.Background(), env.app.Session().Name)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stats.DeathCount != 3 {
		t.Errorf("DeathCount = %d after autosave, want 3", got.Stats.DeathCount)
	}
}

func TestQuitKey(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, time.Second, 0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestStatusBarShowsTailError(t *testing.T) {
	env := newTestEnv(t)
	m := newModel(env.app, time.Second, 0)

	if err := os.Remove(env.log); err != nil {
		t.Fatal(err)
	}
	env.notify <- struct{}{}
	updated, _ := m.Update(tickMsg(time.Now()))
	m = updated.(Model)

	if !strings.Contains(m.renderStatusBar(DefaultTheme()), "error:") {
		t.Error("status bar should show the read failure")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"Animal Hide Deluxe", 8, "Animal …"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
