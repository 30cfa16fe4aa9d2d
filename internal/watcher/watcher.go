// Package watcher emits a change event whenever a location's transcript
// files are created, rewritten or removed under the watch root.
//
// Changes are detected by polling directory snapshots rather than kernel
// notification, which keeps behavior identical across local disks and the
// network mounts the upstream video processor typically writes to.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"trailscribe/internal/logging"
)

// Event reports a changed transcript file inside one location.
type Event struct {
	Location string
	Path     string
}

type fileStat struct {
	modTime time.Time
	size    int64
}

// Watcher polls the watch root and publishes per-file change events. A
// stopped watcher cannot be restarted; build a new one.
type Watcher struct {
	root         string
	pollInterval time.Duration
	logger       *slog.Logger

	events   chan Event
	snapshot map[string]fileStat

	mu      sync.Mutex
	running bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a watcher for root. pollInterval must be positive.
func New(root string, pollInterval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		root:         root,
		pollInterval: pollInterval,
		logger:       logger.With(logging.String(logging.FieldComponent, "watcher")),
		events:       make(chan Event, 64),
		snapshot:     make(map[string]fileStat),
	}
}

// Events is the change stream. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling. The first sweep primes the snapshot without emitting
// events, so a restart over an unchanged tree stays quiet.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	if w.stopped {
		return errors.New("watcher cannot be restarted")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.ctx = runCtx
	w.cancel = cancel
	w.running = true

	w.snapshot = w.sweep()

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop halts polling, waits for the loop to exit and closes Events.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.stopped = true
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	close(w.events)
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	current := w.sweep()

	for path, stat := range current {
		previous, seen := w.snapshot[path]
		if seen && previous == stat {
			continue
		}
		w.emit(path)
	}
	for path := range w.snapshot {
		if _, still := current[path]; !still {
			w.emit(path)
		}
	}
	w.snapshot = current
}

func (w *Watcher) emit(path string) {
	event := Event{Location: w.locationOf(path), Path: path}
	select {
	case w.events <- event:
	case <-w.ctx.Done():
	}
}

// locationOf maps a transcript path back to its location directory, the
// first path element under the watch root.
func (w *Watcher) locationOf(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return ""
	}
	parts := strings.SplitN(filepath.ToSlash(rel), "/", 2)
	return parts[0]
}

// sweep stats every transcript JSON two levels under the watch root:
// root/<location>/<video folder>/<file>.json.
func (w *Watcher) sweep() map[string]fileStat {
	result := make(map[string]fileStat)

	locations, err := os.ReadDir(w.root)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("watch root unreadable", logging.Error(err))
		}
		return result
	}

	for _, location := range locations {
		if !location.IsDir() {
			continue
		}
		locationDir := filepath.Join(w.root, location.Name())
		videoDirs, err := os.ReadDir(locationDir)
		if err != nil {
			continue
		}
		for _, videoDir := range videoDirs {
			if !videoDir.IsDir() {
				continue
			}
			dir := filepath.Join(locationDir, videoDir.Name())
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
					continue
				}
				info, err := entry.Info()
				if err != nil {
					continue
				}
				result[filepath.Join(dir, entry.Name())] = fileStat{
					modTime: info.ModTime(),
					size:    info.Size(),
				}
			}
		}
	}
	return result
}
