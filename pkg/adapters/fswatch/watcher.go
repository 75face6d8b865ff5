// Package fswatch lets an out-of-process consumer context follow the
// persistent mirror: it watches the snapshot directory and reloads a
// collection whenever its snapshot file changes.
//
// This is the pull side of the self-healing model: a context that missed
// a broadcast converges as soon as it observes the snapshot on disk.
package fswatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/notemirror/notemirror/pkg/core"
)

// Config configures a snapshot watcher.
type Config struct {
	// Dir is the snapshot directory (the disk store's BasePath).
	Dir string

	// Store receives the reloaded collections.
	Store core.Store

	// Events, if set, receives a core.Event per reload.
	Events chan<- core.Event

	// Debounce collapses bursts of writes to the same snapshot file.
	// Defaults to 50ms.
	Debounce time.Duration

	Logger *slog.Logger
}

// Watcher is a lifecycle worker following the snapshot directory.
type Watcher struct {
	*worker.BaseWorker
	dir       string
	store     core.Store
	events    chan<- core.Event
	logger    *slog.Logger
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

// NewWatcher creates a snapshot watcher. Call Start to begin following.
func NewWatcher(cfg Config) *Watcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 50 * time.Millisecond
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("snapshot-watcher"),
		dir:        cfg.Dir,
		store:      cfg.Store,
		events:     cfg.Events,
		logger:     logger,
		debouncer:  newDebouncer(debounce),
	}
}

// Start begins watching the snapshot directory.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.watcher = watcher

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop requests the watcher to shut down.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

// State reports the worker state.
func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// run is the main event loop.
func (w *Watcher) run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.debouncer.stopAndWait(5 * time.Second)
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	kind, ok := snapshotKind(event.Name)
	if !ok {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.debouncer.add(string(kind), func() {
			w.store.Clear(kind)
			w.sendEvent(ctx, core.Event{Type: core.EventCleared, Kind: kind, Timestamp: time.Now().Unix()})
		})
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		w.debouncer.add(string(kind), func() {
			w.reload(ctx, kind, event.Name)
		})
	}
}

// reload reads the snapshot file and replaces the local collection. A
// torn or half-written file is skipped; the next write event retries.
func (w *Watcher) reload(ctx context.Context, kind core.Kind, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("snapshot read failed", "kind", kind, "error", err)
		return
	}
	notes, err := core.DecodeNotes(kind, data)
	if err != nil {
		w.logger.Warn("snapshot decode failed, keeping current view", "kind", kind, "error", err)
		return
	}

	w.store.Replace(kind, notes)
	w.logger.Debug("snapshot reloaded", "kind", kind, "count", len(notes))
	w.sendEvent(ctx, core.Event{Type: core.EventReplaced, Kind: kind, Timestamp: time.Now().Unix()})
}

func (w *Watcher) sendEvent(ctx context.Context, e core.Event) {
	if w.events == nil {
		return
	}
	select {
	case w.events <- e:
	case <-ctx.Done():
	}
}

// snapshotKind maps a snapshot file path back to its collection kind.
func snapshotKind(path string) (core.Kind, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".json") {
		return "", false
	}
	kind := core.Kind(strings.TrimSuffix(name, ".json"))
	if !kind.Valid() {
		return "", false
	}
	return kind, true
}
