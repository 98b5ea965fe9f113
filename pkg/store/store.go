// Package store persists sessions, loadouts and markups in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hunttrack/pkg/session"

	_ "modernc.org/sqlite"
)

// timeLayout is the TEXT encoding of timestamps. Fixed width so that
// ORDER BY on the text sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps the hunttrack SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path with WAL journaling
// and a 5-second busy timeout, then applies SchemaDDL. ":memory:" is
// accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// shared across queries.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, SchemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema on %s: %w", path, err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionInfo is a session row without its tallies.
type SessionInfo struct {
	ID        uuid.UUID
	Name      string
	Elapsed   time.Duration
	Loadout   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveSession writes s and replaces its loot and skill tallies. The
// stopwatch is stored by its elapsed time; a running session is reloaded
// stopped.
func (s *Store) SaveSession(ctx context.Context, sess *session.Session) error {
	stats, err := json.Marshal(sess.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := sess.ID.String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, name, elapsed_ms, stats, loadout, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     name = excluded.name,
		     elapsed_ms = excluded.elapsed_ms,
		     stats = excluded.stats,
		     loadout = excluded.loadout,
		     updated_at = excluded.updated_at`,
		id, sess.Name, sess.Elapsed().Milliseconds(), string(stats), sess.Loadout.Name,
		formatTime(sess.CreatedAt), formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_loot WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clear loot: %w", err)
	}
	for _, l := range sess.Loot {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_loot (session_id, name, tt_value, count) VALUES (?, ?, ?, ?)`,
			id, l.Name, l.TTValue.String(), l.Count,
		); err != nil {
			return fmt.Errorf("save loot %s: %w", l.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_skills WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clear skills: %w", err)
	}
	for _, sk := range sess.Skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_skills (session_id, name, exp_gain) VALUES (?, ?, ?)`,
			id, sk.Name, sk.ExpGain.String(),
		); err != nil {
			return fmt.Errorf("save skill %s: %w", sk.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save session: %w", err)
	}
	return nil
}

// LoadSession reads the named session in the stopped state, with its
// loadout refreshed from the loadouts table. A loadout that no longer
// exists is replaced by an empty one of the same name.
func (s *Store) LoadSession(ctx context.Context, name string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, elapsed_ms, stats, loadout, created_at FROM sessions WHERE name = ?`, name)
	return s.loadSessionRow(ctx, row, name)
}

// LatestSession returns the most recently saved session.
func (s *Store) LatestSession(ctx context.Context) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, elapsed_ms, stats, loadout, created_at FROM sessions
		 ORDER BY updated_at DESC, created_at DESC LIMIT 1`)
	return s.loadSessionRow(ctx, row, "")
}

func (s *Store) loadSessionRow(ctx context.Context, row *sql.Row, name string) (*session.Session, error) {
	var (
		id, statsJSON, loadoutName, created string
		elapsedMS                           int64
		sess                                = session.New("", nil)
	)
	err := row.Scan(&id, &sess.Name, &elapsedMS, &statsJSON, &loadoutName, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "session", Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if sess.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session %s: bad id: %w", sess.Name, err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &sess.Stats); err != nil {
		return nil, fmt.Errorf("session %s: decode stats: %w", sess.Name, err)
	}
	if sess.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("session %s: %w", sess.Name, err)
	}
	sess.Restore(time.Duration(elapsedMS) * time.Millisecond)

	if err := s.loadTallies(ctx, id, sess); err != nil {
		return nil, err
	}

	lo, err := s.LoadLoadout(ctx, loadoutName)
	switch {
	case errors.Is(err, ErrNotFound):
		lo = session.NewLoadout(loadoutName, s.now())
	case err != nil:
		return nil, err
	}
	sess.Loadout = lo
	return sess, nil
}

func (s *Store) loadTallies(ctx context.Context, id string, sess *session.Session) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, tt_value, count FROM session_loot WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("load loot: %w", err)
	}
	for rows.Next() {
		var e session.LootEntry
		if err := rows.Scan(&e.Name, &e.TTValue, &e.Count); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan loot: %w", err)
		}
		sess.Loot[e.Name] = &e
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("load loot: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT name, exp_gain FROM session_skills WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	for rows.Next() {
		var e session.SkillEntry
		if err := rows.Scan(&e.Name, &e.ExpGain); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan skill: %w", err)
		}
		sess.Skills[e.Name] = &e
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	return nil
}

// ListSessions returns every session, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, elapsed_ms, loadout, created_at, updated_at FROM sessions
		 ORDER BY created_at DESC, name DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var (
			info             SessionInfo
			id, created, upd string
			elapsedMS        int64
		)
		if err := rows.Scan(&id, &info.Name, &elapsedMS, &info.Loadout, &created, &upd); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if info.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("session %s: bad id: %w", info.Name, err)
		}
		if info.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if info.UpdatedAt, err = parseTime(upd); err != nil {
			return nil, err
		}
		info.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSession removes the named session and its tallies.
func (s *Store) DeleteSession(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Kind: "session", Name: name}
	}
	if err != nil {
		return fmt.Errorf("delete session %s: %w", name, err)
	}

	for _, q := range []string{
		`DELETE FROM session_loot WHERE session_id = ?`,
		`DELETE FROM session_skills WHERE session_id = ?`,
		`DELETE FROM sessions WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete session %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// SaveLoadout inserts or replaces l, keyed by its normalized name.
func (s *Store) SaveLoadout(ctx context.Context, l session.Loadout) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO loadouts (key, name, weapon, amp, scope, sight_one, sight_two, decay, burn, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		     name = excluded.name,
		     weapon = excluded.weapon,
		     amp = excluded.amp,
		     scope = excluded.scope,
		     sight_one = excluded.sight_one,
		     sight_two = excluded.sight_two,
		     decay = excluded.decay,
		     burn = excluded.burn`,
		l.Key(), l.Name, l.Weapon, l.Amp, l.Scope, l.SightOne, l.SightTwo,
		l.Decay.String(), l.Burn, formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save loadout %s: %w", l.Name, err)
	}
	return nil
}

const loadoutColumns = `name, weapon, amp, scope, sight_one, sight_two, decay, burn, created_at`

// LoadLoadout reads the loadout whose normalized name matches name.
func (s *Store) LoadLoadout(ctx context.Context, name string) (session.Loadout, error) {
	key := session.Loadout{Name: name}.Key()
	row := s.db.QueryRowContext(ctx, `SELECT `+loadoutColumns+` FROM loadouts WHERE key = ?`, key)
	l, err := scanLoadout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Loadout{}, &NotFoundError{Kind: "loadout", Name: name}
	}
	if err != nil {
		return session.Loadout{}, fmt.Errorf("load loadout %s: %w", name, err)
	}
	return l, nil
}

// ListLoadouts returns every loadout, newest first.
func (s *Store) ListLoadouts(ctx context.Context) ([]session.Loadout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loadoutColumns+` FROM loadouts ORDER BY created_at DESC, name DESC`)
	if err != nil {
		return nil, fmt.Errorf("list loadouts: %w", err)
	}
	defer rows.Close()

	var out []session.Loadout
	for rows.Next() {
		l, err := scanLoadout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loadout: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLoadout(sc scanner) (session.Loadout, error) {
	var (
		l       session.Loadout
		created string
	)
	if err := sc.Scan(&l.Name, &l.Weapon, &l.Amp, &l.Scope, &l.SightOne, &l.SightTwo,
		&l.Decay, &l.Burn, &created); err != nil {
		return session.Loadout{}, err
	}
	t, err := parseTime(created)
	if err != nil {
		return session.Loadout{}, err
	}
	l.CreatedAt = t
	return l, nil
}

// SaveMarkups replaces the stored markup table with m.
func (s *Store) SaveMarkups(ctx context.Context, m session.Markups) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save markups: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM markups`); err != nil {
		return fmt.Errorf("clear markups: %w", err)
	}
	for _, mu := range m {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO markups (name, value, created_at) VALUES (?, ?, ?)`,
			mu.Name, mu.Value.String(), formatTime(mu.CreatedAt),
		); err != nil {
			return fmt.Errorf("save markup %s: %w", mu.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save markups: %w", err)
	}
	return nil
}

// LoadMarkups returns the stored markup table. An empty table yields an
// empty, non-nil map.
func (s *Store) LoadMarkups(ctx context.Context) (session.Markups, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value, created_at FROM markups`)
	if err != nil {
		return nil, fmt.Errorf("load markups: %w", err)
	}
	defer rows.Close()

	out := session.Markups{}
	for rows.Next() {
		var (
			mu      session.Markup
			value   string
			created string
		)
		if err := rows.Scan(&mu.Name, &value, &created); err != nil {
			return nil, fmt.Errorf("scan markup: %w", err)
		}
		if mu.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("markup %s: %w", mu.Name, err)
		}
		if mu.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out[mu.Name] = mu
	}
	return out, rows.Err()
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
