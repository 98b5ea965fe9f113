package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"hunttrack/pkg/session"
)

// setupTestStore opens an in-memory store with a fixed, advanceable clock.
func setupTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	return st, &now
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOpenFileCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hunttrack.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	var n int
	if err := st.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table'`).Scan(&n); err != nil {
		t.Fatalf("query tables: %v", err)
	}
	if n != 5 {
		t.Errorf("tables = %d, want 5", n)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	lo := session.NewLoadout("Opalo Kit", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	lo.Weapon = "Opalo"
	lo.Decay = dec("2.5")
	lo.Burn = 104
	if err := st.SaveLoadout(ctx, lo); err != nil {
		t.Fatalf("save loadout: %v", err)
	}

	clock := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	sess := session.New("2026-10-17_10-00-00_session", func() time.Time { return clock })
	sess.Loadout = lo
	sess.Start()
	sess.Stats.AttackCount = 12
	sess.Stats.TotalDamage = dec("123.4567")
	sess.Stats.TotalCost = dec("0.0104")
	sess.AddLoot("Animal Hide", 3, dec("1.5"))
	sess.AddSkill("Rifle", dec("0.25"))
	clock = clock.Add(90 * time.Minute)

	if err := st.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, err := st.LoadSession(ctx, sess.Name)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got.ID != sess.ID || got.Name != sess.Name {
		t.Errorf("identity mismatch: %v %q", got.ID, got.Name)
	}
	if got.Running() {
		t.Error("loaded session should be stopped")
	}
	if got.Elapsed() != 90*time.Minute {
		t.Errorf("Elapsed = %v, want 90m", got.Elapsed())
	}
	if got.Stats.AttackCount != 12 || !got.Stats.TotalDamage.Equal(dec("123.4567")) {
		t.Errorf("stats mismatch: %+v", got.Stats)
	}
	hide := got.Loot["Animal Hide"]
	if hide == nil || hide.Count != 3 || !hide.TTValue.Equal(dec("1.5")) {
		t.Errorf("loot mismatch: %+v", hide)
	}
	if sk := got.Skills["Rifle"]; sk == nil || !sk.ExpGain.Equal(dec("0.25")) {
		t.Errorf("skill mismatch: %+v", sk)
	}
	if got.Loadout.Weapon != "Opalo" || got.Loadout.Burn != 104 || !got.Loadout.Decay.Equal(dec("2.5")) {
		t.Errorf("loadout not refreshed: %+v", got.Loadout)
	}
	if !got.CreatedAt.Equal(sess.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, sess.CreatedAt)
	}
}

func TestSaveSessionReplacesTallies(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	sess := session.New("s", nil)
	sess.AddLoot("Animal Hide", 1, dec("0.5"))
	sess.AddLoot("Animal Oil", 1, dec("0.1"))
	if err := st.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}

	delete(sess.Loot, "Animal Oil")
	sess.AddLoot("Animal Hide", 1, dec("0.5"))
	if err := st.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}

	got, err := st.LoadSession(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Loot) != 1 || got.Loot["Animal Hide"].Count != 2 {
		t.Errorf("loot = %+v", got.Loot)
	}
}

func TestLoadSessionMissingLoadout(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	sess := session.New("s", nil)
	sess.Loadout = session.NewLoadout("gone", time.Now())
	if err := st.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, err := st.LoadSession(ctx, "s")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Loadout.Name != "gone" || got.Loadout.Burn != 0 {
		t.Errorf("loadout = %+v", got.Loadout)
	}
}

func TestNotFound(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := st.LoadSession(ctx, "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "session" {
		t.Fatalf("expected session NotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false")
	}
	if _, err := st.LatestSession(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestSession on empty store: %v", err)
	}
	if _, err := st.LoadLoadout(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadLoadout: %v", err)
	}
	if err := st.DeleteSession(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteSession: %v", err)
	}
}

func TestListAndLatestSessions(t *testing.T) {
	st, now := setupTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"first", "second", "third"} {
		created := time.Date(2026, 10, 1+i, 0, 0, 0, 0, time.UTC)
		sess := session.New(name, func() time.Time { return created })
		*now = created
		if err := st.SaveSession(ctx, sess); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	list, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, info := range list {
		names = append(names, info.Name)
	}
	if diff := cmp.Diff([]string{"third", "second", "first"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	// Re-saving the oldest makes it the latest.
	first, err := st.LoadSession(ctx, "first")
	if err != nil {
		t.Fatal(err)
	}
	*now = now.Add(time.Hour)
	if err := st.SaveSession(ctx, first); err != nil {
		t.Fatal(err)
	}
	latest, err := st.LatestSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Name != "first" {
		t.Errorf("latest = %q, want first", latest.Name)
	}
}

func TestDeleteSession(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	sess := session.New("doomed", nil)
	sess.AddLoot("Animal Hide", 1, dec("0.5"))
	sess.AddSkill("Rifle", dec("1"))
	if err := st.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteSession(ctx, "doomed"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.LoadSession(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("session still loadable: %v", err)
	}

	var n int
	if err := st.db.QueryRow(`SELECT count(*) FROM session_loot`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("orphaned loot rows: %d", n)
	}
}

func TestLoadouts(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	older := session.NewLoadout("Old Kit", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := session.NewLoadout("New Kit", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	for _, l := range []session.Loadout{older, newer} {
		if err := st.SaveLoadout(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	// Lookup is by normalized name.
	got, err := st.LoadLoadout(ctx, "old kit")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "Old Kit" {
		t.Errorf("Name = %q", got.Name)
	}

	got.Burn = 250
	got.Decay = dec("7.125")
	if err := st.SaveLoadout(ctx, got); err != nil {
		t.Fatal(err)
	}
	list, err := st.ListLoadouts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "New Kit" {
		t.Fatalf("list = %+v", list)
	}
	if list[1].Burn != 250 || !list[1].Decay.Equal(dec("7.125")) {
		t.Errorf("update lost: %+v", list[1])
	}
}

func TestMarkups(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	empty, err := st.LoadMarkups(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty markups = %v, %v", empty, err)
	}

	m := session.Markups{}
	m.Set("Animal Hide", dec("1.05"))
	m.Set("Animal Oil", dec("1.20"))
	if err := st.SaveMarkups(ctx, m); err != nil {
		t.Fatalf("save: %v", err)
	}

	delete(m, "Animal Oil")
	if err := st.SaveMarkups(ctx, m); err != nil {
		t.Fatal(err)
	}
	got, err := st.LoadMarkups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got.Value("Animal Hide").Equal(dec("1.05")) {
		t.Errorf("markups = %+v", got)
	}
}

func TestResume(t *testing.T) {
	st, now := setupTestStore(t)
	ctx := context.Background()

	sess, err := st.Resume(ctx, *now)
	if err != nil {
		t.Fatalf("resume empty: %v", err)
	}
	if sess.Name != "2026-10-17_09-00-00_session" {
		t.Errorf("Name = %q", sess.Name)
	}
	if sess.Loadout.Name != session.DefaultLoadoutName {
		t.Errorf("Loadout = %q", sess.Loadout.Name)
	}
	if _, err := st.LoadLoadout(ctx, session.DefaultLoadoutName); err != nil {
		t.Errorf("default loadout not saved: %v", err)
	}

	sess.Stats.DeathCount = 2
	if err := st.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(time.Hour)

	again, err := st.Resume(ctx, *now)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if again.ID != sess.ID || again.Stats.DeathCount != 2 || again.Running() {
		t.Errorf("resumed wrong session: %+v", again)
	}
}
