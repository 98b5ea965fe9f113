// Package watch turns filesystem change events for a single log file into
// a queue of coalescable notifications.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// QueueSize bounds the number of undelivered notifications. Signals beyond
// it are dropped since one pending signal already forces a poll.
const QueueSize = 64

// Watcher watches the directory containing a log file and signals on every
// event naming that file. Watching the directory keeps notifications
// flowing when the game recreates or rotates the file.
type Watcher struct {
	fs     *fsnotify.Watcher
	name   string
	ch     chan struct{}
	logger *slog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts watching path. The containing directory must exist. A nil
// logger means slog.Default().
func New(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:     fw,
		name:   filepath.Base(path),
		ch:     make(chan struct{}, QueueSize),
		logger: logger,
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Notify returns the notification queue. It is closed after Close.
func (w *Watcher) Notify() <-chan struct{} {
	return w.ch
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.ch)

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.name || ev.Op == fsnotify.Chmod {
				continue
			}
			w.signal()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Overflow means events were lost; a signal makes the next tick
			// poll and catch up.
			w.logger.Warn("fsnotify watcher error", "err", err)
			w.signal()
		}
	}
}

func (w *Watcher) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}
