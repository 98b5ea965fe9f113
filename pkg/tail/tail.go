// Package tail returns the lines appended to a file since the previous poll.
package tail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrUnreadable wraps failures to open or read the watched file. The cursor is
// left untouched so the next poll retries from the same baseline.
var ErrUnreadable = errors.New("log file unreadable")

// maxLineSize bounds a single log line.
const maxLineSize = 1 << 20

// Cursor records how many lines of a file were visible at the last poll.
type Cursor struct {
	Lines       int
	Initialized bool
}

// Tailer tracks one cursor per watched path.
type Tailer struct {
	mu      sync.Mutex
	cursors map[string]*Cursor
	resets  int
}

// New returns an empty Tailer.
func New() *Tailer {
	return &Tailer{cursors: make(map[string]*Cursor)}
}

// Poll returns the lines appended to path since the previous call.
//
// The first call for a path records its current line count and returns
// nothing: content written before watching began is never replayed. When the
// file is shorter than the recorded baseline (rotated or truncated) the
// baseline is reset to the new count and nothing is returned.
func (t *Tailer) Poll(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.cursors[path]
	if !ok {
		cur = &Cursor{}
		t.cursors[path] = cur
	}

	count := len(lines)
	switch {
	case !cur.Initialized:
		cur.Lines = count
		cur.Initialized = true
		return nil, nil
	case count == cur.Lines:
		return nil, nil
	case count < cur.Lines:
		cur.Lines = count
		t.resets++
		return nil, nil
	}

	fresh := lines[cur.Lines:]
	cur.Lines = count
	return fresh, nil
}

// Cursor returns a copy of the cursor for path.
func (t *Tailer) Cursor(path string) (Cursor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.cursors[path]
	if !ok {
		return Cursor{}, false
	}
	return *cur, true
}

// Reset forgets path; the next poll re-baselines it.
func (t *Tailer) Reset(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.cursors, path)
}

// Resets reports how many times a shrinking file forced a baseline reset.
func (t *Tailer) Resets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resets
}

// readLines reads the whole file. A trailing line without a newline counts as
// a line; CRLF endings are stripped.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from user config
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return lines, nil
}
