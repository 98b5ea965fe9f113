package tail

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func appendLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := f.WriteString(l + "\n"); err != nil {
			t.Fatalf("append log: %v", err)
		}
	}
}

func TestPollFirstCallDoesNotReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	writeLog(t, path, "old 1", "old 2", "old 3")

	tl := New()
	got, err := tl.Poll(path)
	if err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("first poll returned %v, want nothing", got)
	}

	cur, ok := tl.Cursor(path)
	if !ok || !cur.Initialized || cur.Lines != 3 {
		t.Fatalf("cursor = %+v (ok=%v), want initialized at 3", cur, ok)
	}

	appendLog(t, path, "new 1", "new 2")
	got, err = tl.Poll(path)
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if diff := cmp.Diff([]string{"new 1", "new 2"}, got); diff != "" {
		t.Errorf("second poll (-want +got):\n%s", diff)
	}
}

func TestPollUnchangedReturnsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	writeLog(t, path, "a")

	tl := New()
	if _, err := tl.Poll(path); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		got, err := tl.Poll(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("poll %d returned %v, want nothing", i, got)
		}
	}
}

func TestPollTruncationResetsBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	writeLog(t, path, "a", "b", "c", "d")

	tl := New()
	if _, err := tl.Poll(path); err != nil {
		t.Fatal(err)
	}

	writeLog(t, path, "rotated")
	got, err := tl.Poll(path)
	if err != nil {
		t.Fatalf("poll after truncation: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("poll after truncation returned %v, want nothing", got)
	}
	if cur, _ := tl.Cursor(path); cur.Lines != 1 {
		t.Errorf("baseline = %d, want 1", cur.Lines)
	}
	if tl.Resets() != 1 {
		t.Errorf("Resets() = %d, want 1", tl.Resets())
	}

	appendLog(t, path, "after")
	got, err = tl.Poll(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"after"}, got); diff != "" {
		t.Errorf("poll after rotation (-want +got):\n%s", diff)
	}
}

func TestPollUnreadableKeepsBaseline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.log")
	writeLog(t, path, "a", "b")

	tl := New()
	if _, err := tl.Poll(path); err != nil {
		t.Fatal(err)
	}

	moved := filepath.Join(dir, "moved.log")
	if err := os.Rename(path, moved); err != nil {
		t.Fatal(err)
	}
	if _, err := tl.Poll(path); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("poll on missing file: err = %v, want ErrUnreadable", err)
	}
	if cur, _ := tl.Cursor(path); cur.Lines != 2 {
		t.Errorf("baseline changed to %d after failed poll", cur.Lines)
	}

	if err := os.Rename(moved, path); err != nil {
		t.Fatal(err)
	}
	appendLog(t, path, "c")
	got, err := tl.Poll(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"c"}, got); diff != "" {
		t.Errorf("poll after recovery (-want +got):\n%s", diff)
	}
}

func TestPollLargeBacklog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	writeLog(t, path)

	tl := New()
	if _, err := tl.Poll(path); err != nil {
		t.Fatal(err)
	}

	backlog := make([]string, 5000)
	for i := range backlog {
		backlog[i] = "You inflicted 1.0 points of damage"
	}
	appendLog(t, path, backlog...)

	got, err := tl.Poll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(backlog) {
		t.Errorf("got %d lines, want %d", len(got), len(backlog))
	}
}

func TestResetRebaselines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	writeLog(t, path, "a")

	tl := New()
	if _, err := tl.Poll(path); err != nil {
		t.Fatal(err)
	}
	appendLog(t, path, "b")
	tl.Reset(path)

	got, err := tl.Poll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("poll after Reset returned %v, want nothing", got)
	}
}
