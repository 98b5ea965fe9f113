package tracker

import (
	"errors"
	"log/slog"
	"time"

	"hunttrack/pkg/classify"
	"hunttrack/pkg/tail"
)

// StepResult reports what one Pump.Step did.
type StepResult struct {
	Notifications int // pending change signals drained
	Polled        bool
	Lines         int // new lines read
	Events        int // lines classified to an event
	Applied       int // events that mutated the session
	Dropped       int // events dropped for unparseable fields
	Err           error
}

// Pump connects the tailer, classifier and tracker for one log file. Each
// Step drains every pending change notification without blocking and, if
// any arrived, tails the file once and processes all new lines in order.
type Pump struct {
	Path       string
	Tailer     *tail.Tailer
	Classifier *classify.Classifier
	Tracker    *Tracker

	// FallbackPoll forces a poll when no notification arrived for this
	// long. Zero disables it.
	FallbackPoll time.Duration

	Logger *slog.Logger
	Now    func() time.Time

	lastPoll time.Time
}

func (p *Pump) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Pump) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Prime records the file's current length as the baseline so that history
// written before the tracker started is never replayed.
func (p *Pump) Prime() error {
	p.lastPoll = p.now()
	_, err := p.Tailer.Poll(p.Path)
	return err
}

// Step drains notify and processes any new lines.
func (p *Pump) Step(notify <-chan struct{}) StepResult {
	var res StepResult
	res.Notifications = drain(notify)

	due := p.FallbackPoll > 0 && p.now().Sub(p.lastPoll) >= p.FallbackPoll
	if res.Notifications == 0 && !due {
		return res
	}

	p.lastPoll = p.now()
	res.Polled = true

	resetsBefore := p.Tailer.Resets()
	lines, err := p.Tailer.Poll(p.Path)
	if err != nil {
		if errors.Is(err, tail.ErrUnreadable) {
			p.logger().Warn("tail poll failed, retrying next tick", "path", p.Path, "err", err)
		}
		res.Err = err
		return res
	}
	if p.Tailer.Resets() != resetsBefore {
		p.logger().Info("log file shrank, tailing from new end", "path", p.Path)
	}

	res.Lines = len(lines)
	for _, line := range lines {
		ev, ok := p.Classifier.Classify(line)
		if !ok {
			continue
		}
		res.Events++

		applied, err := p.Tracker.Track(ev)
		if err != nil {
			res.Dropped++
			p.logger().Warn("dropping event with bad field", "kind", ev.Kind.String(), "err", err)
			continue
		}
		if applied {
			res.Applied++
		}
	}

	if res.Applied > 0 {
		p.logger().Debug("events applied", "applied", res.Applied, "lines", res.Lines)
	}
	return res
}

// drain empties ch without blocking and returns how many signals it held.
// A nil channel holds none.
func drain(ch <-chan struct{}) int {
	if ch == nil {
		return 0
	}
	n := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}
