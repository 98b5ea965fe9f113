package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hunttrack/pkg/session"
)

// Resume returns the most recently saved session, stopped. When the store
// holds no sessions it creates one named after now, equipped with the
// default loadout (created if missing).
func (s *Store) Resume(ctx context.Context, now time.Time) (*session.Session, error) {
	sess, err := s.LatestSession(ctx)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	lo, err := s.EnsureLoadout(ctx, session.DefaultLoadoutName)
	if err != nil {
		return nil, err
	}
	return s.CreateSession(ctx, session.GenerateName(now), lo)
}

// CreateSession saves and returns a new stopped session equipped with lo.
// Names must be unique.
func (s *Store) CreateSession(ctx context.Context, name string, lo session.Loadout) (*session.Session, error) {
	sess := session.New(name, nil)
	sess.CreatedAt = s.now().UTC()
	sess.Loadout = lo
	if err := s.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// EnsureLoadout loads the named loadout, creating an empty one if missing.
func (s *Store) EnsureLoadout(ctx context.Context, name string) (session.Loadout, error) {
	lo, err := s.LoadLoadout(ctx, name)
	if err == nil {
		return lo, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return session.Loadout{}, err
	}
	lo = session.NewLoadout(name, s.now())
	if err := s.SaveLoadout(ctx, lo); err != nil {
		return session.Loadout{}, err
	}
	return lo, nil
}
