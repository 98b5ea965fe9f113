package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hunttrack/pkg/session"
	"hunttrack/pkg/store"
	"hunttrack/pkg/tracker"
)

// App owns the dashboard's state outside the view: the tracker and its pump,
// the notification queue and the store. All methods run on the UI
// goroutine.
type App struct {
	Store   *store.Store
	Tracker *tracker.Tracker
	Pump    *tracker.Pump
	Notify  <-chan struct{}
	Logger  *slog.Logger
	Now     func() time.Time
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Session returns the current session.
func (a *App) Session() *session.Session {
	return a.Tracker.Session
}

// Step processes pending chat log changes.
func (a *App) Step() tracker.StepResult {
	return a.Pump.Step(a.Notify)
}

// Save persists the current session, its loadout and the markup table.
func (a *App) Save(ctx context.Context) error {
	s := a.Session()
	if err := a.Store.SaveLoadout(ctx, s.Loadout); err != nil {
		return err
	}
	if err := a.Store.SaveSession(ctx, s); err != nil {
		return err
	}
	return a.Store.SaveMarkups(ctx, a.Tracker.Markups)
}

// ToggleRunning starts a stopped session or pauses a running one.
func (a *App) ToggleRunning() {
	s := a.Session()
	if s.Running() {
		s.Pause()
		a.Tracker.Note("Stopping Session")
		return
	}
	s.Start()
	a.Tracker.Note("Starting Session")
}

// Reset clears the current session's time and statistics.
func (a *App) Reset() {
	a.Session().Clear()
	a.Tracker.Note("Resetting Session")
}

// NewSession creates a stopped session carrying the current loadout. The
// current session stays selected.
func (a *App) NewSession(ctx context.Context) (*session.Session, error) {
	a.Tracker.Note("Creating New Session")
	return a.Store.CreateSession(ctx, session.GenerateName(a.now()), a.Session().Loadout)
}

// SelectSession pauses and saves the current session, then makes name the
// current session.
func (a *App) SelectSession(ctx context.Context, name string) error {
	cur := a.Session()
	if cur.Name == name {
		a.Tracker.Note("Session already selected")
		return nil
	}
	cur.Pause()
	if err := a.Save(ctx); err != nil {
		return fmt.Errorf("save %s: %w", cur.Name, err)
	}

	next, err := a.Store.LoadSession(ctx, name)
	if err != nil {
		return err
	}
	a.Tracker.Session = next
	a.Tracker.Note("Selecting Session: " + name)
	a.logger().Info("session selected", "session", name)
	return nil
}

// NewLoadout creates an empty loadout named after the current time.
func (a *App) NewLoadout(ctx context.Context) (session.Loadout, error) {
	now := a.now()
	lo := session.NewLoadout(session.GenerateLoadoutName(now), now)
	if err := a.Store.SaveLoadout(ctx, lo); err != nil {
		return session.Loadout{}, err
	}
	a.Tracker.Note("Creating New Loadout")
	return lo, nil
}

// EquipLoadout saves the current loadout and equips name.
func (a *App) EquipLoadout(ctx context.Context, name string) error {
	cur := a.Session()
	if cur.Loadout.Name == name {
		a.Tracker.Note("Loadout already selected")
		return nil
	}
	if err := a.Store.SaveLoadout(ctx, cur.Loadout); err != nil {
		return err
	}
	lo, err := a.Store.LoadLoadout(ctx, name)
	if err != nil {
		return err
	}
	cur.Loadout = lo
	a.Tracker.Note("Selecting Loadout: " + name)
	return nil
}

// SetMarkup parses raw and records it as item's markup.
func (a *App) SetMarkup(item, raw string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("markup %q: %w", raw, err)
	}
	if !v.IsPositive() {
		return fmt.Errorf("markup must be positive, got %s", raw)
	}
	a.Tracker.Markups.Set(item, v)
	a.Tracker.Note(fmt.Sprintf("Markup for %s set to %s", item, v.String()))
	return nil
}
