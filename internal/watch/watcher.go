// Package watch re-runs a handler whenever a program file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"aspforge/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Handler is called with the program path once a burst of changes settles.
// A returned error is logged and counted; watching continues.
type Handler func(ctx context.Context, path string) error

// ProgramWatcher watches one program file. It watches the file's directory
// rather than the file itself so editors that save by rename are still seen.
type ProgramWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	path        string
	handler     Handler
	pending     bool
	lastEvent   time.Time
	debounceDur time.Duration
	tick        time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Runs          int
	Errors        int
	LastEventTime time.Time
	LastEventType string
	LastRunError  string
}

// Option configures a ProgramWatcher.
type Option func(*ProgramWatcher)

// WithDebounce sets how long the file must stay quiet before the handler
// runs. The default is 500ms.
func WithDebounce(d time.Duration) Option {
	return func(pw *ProgramWatcher) {
		pw.debounceDur = d
		if d/5 < pw.tick {
			pw.tick = d / 5
		}
		if pw.tick <= 0 {
			pw.tick = time.Millisecond
		}
	}
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, handler Handler, opts ...Option) (*ProgramWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	pw := &ProgramWatcher{
		watcher:     watcher,
		path:        abs,
		handler:     handler,
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		tick:        100 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(pw)
	}
	return pw, nil
}

// Start begins watching. It is non-blocking; events are handled on a
// separate goroutine until Stop is called or ctx is done.
func (pw *ProgramWatcher) Start(ctx context.Context) error {
	pw.mu.Lock()
	if pw.running {
		pw.mu.Unlock()
		return nil // Already running
	}
	pw.running = true
	pw.mu.Unlock()

	dir := filepath.Dir(pw.path)
	if err := pw.watcher.Add(dir); err != nil {
		pw.mu.Lock()
		pw.running = false
		pw.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.Watch("Watching %s", pw.path)

	go pw.run(ctx)

	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (pw *ProgramWatcher) Stop() {
	pw.mu.Lock()
	wasRunning := pw.running
	pw.running = false
	pw.mu.Unlock()

	if wasRunning {
		select {
		case <-pw.stopCh:
		default:
			close(pw.stopCh)
		}
		<-pw.doneCh
	}

	if err := pw.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("Error closing watcher: %v", err)
	}
	logging.Watch("Stopped")
}

// Done is closed once the event loop has exited.
func (pw *ProgramWatcher) Done() <-chan struct{} {
	return pw.doneCh
}

func (pw *ProgramWatcher) run(ctx context.Context) {
	defer close(pw.doneCh)

	debounceTicker := time.NewTicker(pw.tick)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("Context cancelled")
			return

		case <-pw.stopCh:
			logging.WatchDebug("Stop signal received")
			return

		case event, ok := <-pw.watcher.Events:
			if !ok {
				logging.WatchDebug("Event channel closed")
				return
			}
			pw.handleEvent(event)

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				logging.WatchDebug("Error channel closed")
				return
			}
			logging.Get(logging.CategoryWatch).Error("Watcher error: %v", err)
			pw.mu.Lock()
			pw.stats.Errors++
			pw.mu.Unlock()

		case <-debounceTicker.C:
			pw.processDebounced(ctx)
		}
	}
}

func (pw *ProgramWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != pw.path {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	default:
		return // Remove, rename and chmod leave nothing to read
	}

	logging.WatchDebug("%s event for %s", eventType, event.Name)

	pw.mu.Lock()
	pw.stats.Events++
	pw.stats.LastEventTime = time.Now()
	pw.stats.LastEventType = eventType
	pw.pending = true
	pw.lastEvent = time.Now()
	pw.mu.Unlock()
}

func (pw *ProgramWatcher) processDebounced(ctx context.Context) {
	pw.mu.Lock()
	if !pw.pending || time.Since(pw.lastEvent) < pw.debounceDur {
		pw.mu.Unlock()
		return
	}
	pw.pending = false
	pw.mu.Unlock()

	logging.Watch("Change settled, regenerating from %s", pw.path)
	err := pw.handler(ctx, pw.path)

	pw.mu.Lock()
	pw.stats.Runs++
	if err != nil {
		pw.stats.Errors++
		pw.stats.LastRunError = err.Error()
	} else {
		pw.stats.LastRunError = ""
	}
	pw.mu.Unlock()

	if err != nil {
		logging.Get(logging.CategoryWatch).Warn("Regeneration failed: %v", err)
	}
}

// GetStats returns the current watcher statistics.
func (pw *ProgramWatcher) GetStats() Stats {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.stats
}

// IsWatching returns true if the watcher is currently running.
func (pw *ProgramWatcher) IsWatching() bool {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.running
}

// Path returns the absolute path being watched.
func (pw *ProgramWatcher) Path() string {
	return pw.path
}
