package tracker

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hunttrack/pkg/classify"
	"hunttrack/pkg/pattern"
	"hunttrack/pkg/session"
	"hunttrack/pkg/tail"
)

func newPump(t *testing.T, path string) (*Pump, *bytes.Buffer) {
	t.Helper()
	s := session.New("pump", nil)
	s.Start()

	var logs bytes.Buffer
	p := &Pump{
		Path:       path,
		Tailer:     tail.New(),
		Classifier: classify.New(pattern.Default()),
		Tracker:    New(player, s, nil),
		Logger:     slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	if err := p.Prime(); err != nil {
		t.Fatalf("prime: %v", err)
	}
	return p, &logs
}

func appendLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func signals(n int) chan struct{} {
	ch := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		ch <- struct{}{}
	}
	return ch
}

func TestPumpIgnoresHistoryAndProcessesAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	appendLines(t, path, "You inflicted 99.0 points of damage", "You missed")

	p, _ := newPump(t, path)

	appendLines(t, path,
		"[System] [] You inflicted 10.5 points of damage",
		"[Rookie] [Bob] hello",
		"[System] [] Critical hit - Additional damage! You inflicted 30.0 points of damage",
		"[System] [] You received Animal Hide x (3) Value: 1.5000 PED",
	)

	res := p.Step(signals(5))
	if res.Err != nil {
		t.Fatalf("step: %v", res.Err)
	}
	if res.Notifications != 5 || !res.Polled {
		t.Errorf("notifications=%d polled=%v, want 5 and true", res.Notifications, res.Polled)
	}
	if res.Lines != 4 || res.Events != 3 || res.Applied != 3 {
		t.Errorf("lines=%d events=%d applied=%d, want 4/3/3", res.Lines, res.Events, res.Applied)
	}

	st := p.Tracker.Session.Stats
	if st.AttackCount != 2 || st.CritCount != 1 {
		t.Errorf("AttackCount=%d CritCount=%d, want 2 and 1", st.AttackCount, st.CritCount)
	}
	if !st.TotalDamage.Equal(dec("40.5")) {
		t.Errorf("TotalDamage = %s, want 40.5", st.TotalDamage)
	}
	if p.Tracker.Session.Loot["Animal Hide"] == nil {
		t.Error("loot not recorded")
	}
}

func TestPumpWithoutNotificationsDoesNotPoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	appendLines(t, path, "start")
	p, _ := newPump(t, path)

	appendLines(t, path, "You missed")
	if res := p.Step(make(chan struct{})); res.Polled {
		t.Error("polled without notification")
	}
	if res := p.Step(nil); res.Polled {
		t.Error("polled with nil channel")
	}

	res := p.Step(signals(1))
	if res.Applied != 1 {
		t.Errorf("applied = %d, want 1", res.Applied)
	}
}

func TestPumpFallbackPoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	appendLines(t, path, "start")

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	p, _ := newPump(t, path)
	p.Now = func() time.Time { return now }
	p.FallbackPoll = 5 * time.Second
	if err := p.Prime(); err != nil {
		t.Fatal(err)
	}

	appendLines(t, path, "You missed")
	now = now.Add(time.Second)
	if res := p.Step(nil); res.Polled {
		t.Error("fallback poll fired early")
	}
	now = now.Add(5 * time.Second)
	if res := p.Step(nil); !res.Polled || res.Applied != 1 {
		t.Errorf("fallback poll: polled=%v applied=%d", res.Polled, res.Applied)
	}
}

func TestPumpDropsBadFieldAndContinues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	appendLines(t, path, "start")
	p, logs := newPump(t, path)

	appendLines(t, path,
		"You inflicted lots of points of damage",
		"You inflicted 5 points of damage",
	)
	res := p.Step(signals(1))
	if res.Dropped != 1 || res.Applied != 1 {
		t.Errorf("dropped=%d applied=%d, want 1 and 1", res.Dropped, res.Applied)
	}
	if !strings.Contains(logs.String(), "dropping event") {
		t.Errorf("expected a warning in logs, got:\n%s", logs.String())
	}
}

func TestPumpUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.log")
	appendLines(t, path, "start")
	p, logs := newPump(t, path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	res := p.Step(signals(1))
	if !errors.Is(res.Err, tail.ErrUnreadable) {
		t.Fatalf("err = %v, want ErrUnreadable", res.Err)
	}
	if !strings.Contains(logs.String(), "tail poll failed") {
		t.Errorf("expected warning, got:\n%s", logs.String())
	}
}

func TestPumpClosedChannel(t *testing.T) {
	ch := signals(2)
	close(ch)
	if got := drain(ch); got != 2 {
		t.Errorf("drain = %d, want 2", got)
	}
}
