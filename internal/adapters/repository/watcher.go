package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/axioma/trendboard/pkg/logger"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a SnapshotStore whenever its dataset file changes.
//
// The parent directory is watched rather than the file itself, because
// editors and deploy tools usually replace the file with a rename.
type Watcher struct {
	store    *SnapshotStore
	path     string
	debounce time.Duration
	logger   logger.Logger
	onReload func(*Snapshot)

	fs *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	pending time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for path. Call Start to begin watching.
func NewWatcher(store *SnapshotStore, path string, opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &Watcher{
		store:    store,
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		fs:       fs,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named("repository")
	}
	return w, nil
}

// Start begins watching in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.running = true
	go w.run(ctx)
	w.logger.Info(ctx, "watching dataset", logger.String("path", w.path))
	return nil
}

// Stop ends the watch loop and releases the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.fs.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "dataset watcher error", logger.Error(err))
		case <-tick.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
	if due {
		w.pending = time.Time{}
	}
	w.mu.Unlock()
	if !due {
		return
	}

	snap, err := w.store.Load(ctx, w.path)
	if err != nil {
		// Half-written files fail to decode; the next write event retries.
		w.logger.Warn(ctx, "dataset reload failed, keeping previous snapshot",
			logger.String("path", w.path), logger.Error(err))
		return
	}
	w.logger.Info(ctx, "dataset reloaded",
		logger.String("path", w.path),
		logger.Int("version", int(snap.Version)),
		logger.Int("graphs", len(snap.Dataset.Graphs)),
		logger.Int("platforms", len(snap.Dataset.Platforms)),
	)
	if w.onReload != nil {
		w.onReload(snap)
	}
}
