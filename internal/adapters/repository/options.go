package repository

import (
	"time"

	"github.com/axioma/trendboard/pkg/logger"
)

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOnReload registers a callback run after every successful reload.
func WithOnReload(fn func(*Snapshot)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}
