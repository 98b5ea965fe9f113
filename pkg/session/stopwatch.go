package session

import (
	"fmt"
	"time"
)

// Stopwatch measures how long a session has been running. It is either
// stopped (only accumulated time) or running (accumulated time plus the
// interval since it was started). The zero value is a stopped stopwatch
// reading the wall clock.
type Stopwatch struct {
	accumulated  time.Duration
	runningSince time.Time
	running      bool
	now          func() time.Time
}

// NewStopwatch returns a stopped stopwatch using now as its clock.
// A nil now means time.Now.
func NewStopwatch(now func() time.Time) Stopwatch {
	return Stopwatch{now: now}
}

func (w *Stopwatch) clock() time.Time {
	if w.now == nil {
		return time.Now()
	}
	return w.now()
}

// SetClock replaces the clock. Intended for restoring persisted sessions in
// tests; the running interval is not adjusted.
func (w *Stopwatch) SetClock(now func() time.Time) {
	w.now = now
}

// Start resumes the stopwatch from its accumulated time. Starting a running
// stopwatch is a no-op and returns false.
func (w *Stopwatch) Start() bool {
	if w.running {
		return false
	}
	w.runningSince = w.clock()
	w.running = true
	return true
}

// Pause folds the running interval into the accumulated time. Pausing a
// stopped stopwatch is a no-op and returns false.
func (w *Stopwatch) Pause() bool {
	if !w.running {
		return false
	}
	w.accumulated += w.clock().Sub(w.runningSince)
	w.runningSince = time.Time{}
	w.running = false
	return true
}

// Reset stops the stopwatch and clears the accumulated time.
func (w *Stopwatch) Reset() {
	w.accumulated = 0
	w.runningSince = time.Time{}
	w.running = false
}

// Running reports whether the stopwatch is running.
func (w *Stopwatch) Running() bool {
	return w.running
}

// Elapsed returns accumulated time plus the live interval when running.
func (w *Stopwatch) Elapsed() time.Duration {
	if !w.running {
		return w.accumulated
	}
	return w.accumulated + w.clock().Sub(w.runningSince)
}

// Restore sets the accumulated time of a stopped stopwatch, used when a
// session is loaded from storage.
func (w *Stopwatch) Restore(accumulated time.Duration) {
	w.Reset()
	w.accumulated = accumulated
}

// PrettyElapsed formats Elapsed as "01h 02m 03s 004ms".
func (w *Stopwatch) PrettyElapsed() string {
	return FormatElapsed(w.Elapsed())
}

// FormatElapsed formats d as "01h 02m 03s 004ms".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02dh %02dm %02ds %03dms",
		ms/3_600_000, (ms/60_000)%60, (ms/1000)%60, ms%1000)
}
