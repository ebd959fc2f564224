// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/axioma/trendboard/internal/adapters/identity"
	"github.com/axioma/trendboard/internal/adapters/repository"
	"github.com/axioma/trendboard/internal/config"
	"github.com/axioma/trendboard/internal/domain/classify"
	"github.com/axioma/trendboard/internal/domain/dataset"
	"github.com/axioma/trendboard/internal/domain/insights"
	"github.com/axioma/trendboard/internal/domain/overlap"
	"github.com/axioma/trendboard/pkg/logger"
	"github.com/axioma/trendboard/pkg/metrics"
)

// Service serves engine results over the active dataset snapshot and
// handles signup and login.
type Service struct {
	mu sync.RWMutex

	// Core components
	snapshots *repository.SnapshotStore
	watcher   *repository.Watcher
	identity  identity.Store

	// Configuration
	datasetPath     string
	initial         *dataset.Dataset
	watch           bool
	defaultTopN     int
	classifyOpts    []classify.Option
	referenceGraph  string
	influenceGraph  string
	defaultMonth    string
	identityBackend string
	identityDSN     string
	bcryptCost      int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		snapshots:       repository.NewSnapshotStore(),
		defaultTopN:     5,
		referenceGraph:  overlap.DefaultReferenceGraph,
		influenceGraph:  insights.DefaultInfluenceGraph,
		defaultMonth:    insights.DefaultMonth,
		identityBackend: config.IdentityMemory,
		bcryptCost:      identity.DefaultCost,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset, opens the identity store and, when enabled,
// starts watching the dataset file.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting trendboard service...")

	if err := s.loadInitial(ctx); err != nil {
		return err
	}

	opened := false
	if s.identity == nil {
		store, err := s.openIdentity(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStart, err)
		}
		s.identity = store
		opened = true
	}

	if s.watch && s.datasetPath != "" {
		if err := s.startWatcher(ctx); err != nil {
			// An injected store stays with the caller until Start succeeds.
			if opened {
				s.closeIdentity(ctx)
			}
			return fmt.Errorf("%w: %w", ErrStart, err)
		}
	}

	s.started = true
	snap, _ := s.snapshots.Current()
	s.logger.Info(ctx, "trendboard service started",
		logger.String("dataset", snap.Path),
		logger.Int("graphs", len(snap.Dataset.Graphs)),
		logger.Int("platforms", len(snap.Dataset.Platforms)),
		logger.String("identity", s.identityBackend),
		logger.Bool("watch", s.watcher != nil),
	)

	return nil
}

func (s *Service) startWatcher(ctx context.Context) error {
	w, err := repository.NewWatcher(s.snapshots, s.datasetPath,
		repository.WithLogger(s.logger.Named("repository")),
	)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}
	s.watcher = w
	return nil
}

// closeIdentity closes and forgets the identity store. Callers hold s.mu.
func (s *Service) closeIdentity(ctx context.Context) {
	if s.identity == nil {
		return
	}
	if err := s.identity.Close(); err != nil {
		s.logger.Warn(ctx, "identity store close failed", logger.Error(err))
	}
	s.identity = nil
}

func (s *Service) loadInitial(ctx context.Context) error {
	if s.initial != nil {
		s.snapshots.Publish(s.initial, "")
		return nil
	}
	if _, err := s.snapshots.Load(ctx, s.datasetPath); err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}
	return nil
}

func (s *Service) openIdentity(ctx context.Context) (identity.Store, error) {
	opts := []identity.Option{identity.WithCost(s.bcryptCost)}
	switch s.identityBackend {
	case config.IdentitySQLite:
		return identity.OpenSQLStore(ctx, s.identityDSN, opts...)
	case config.IdentityMemory, "":
		return identity.NewMemoryStore(opts...), nil
	default:
		return nil, fmt.Errorf("unknown identity backend %q", s.identityBackend)
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping trendboard service...")

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Warn(context.Background(), "dataset watcher stop failed", logger.Error(err))
		}
		s.watcher = nil
	}
	s.closeIdentity(context.Background())

	s.started = false
	s.logger.Info(context.Background(), "trendboard service stopped")
}

// Reload re-reads the dataset file and publishes it. A failed reload
// keeps the current snapshot.
func (s *Service) Reload(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	path, l := s.datasetPath, s.logger
	s.mu.RUnlock()
	if l == nil {
		l = logger.Get()
	}

	if path == "" {
		return 0, fmt.Errorf("%w: no dataset path configured", repository.ErrLoad)
	}
	snap, err := s.snapshots.Load(ctx, path)
	if err != nil {
		l.Warn(ctx, "dataset reload failed", logger.String("path", path), logger.Error(err))
		return 0, err
	}
	l.Info(ctx, "dataset reloaded", logger.Int("version", int(snap.Version)))
	return snap.Version, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"datasetPath":     s.datasetPath,
		"watch":           s.watcher != nil,
		"identityBackend": s.identityBackend,
		"defaultTopN":     s.defaultTopN,
	}

	if snap, err := s.snapshots.Current(); err == nil {
		stats["snapshotVersion"] = snap.Version
		stats["snapshotLoadedAt"] = snap.LoadedAt.UTC().Format(time.RFC3339)
		stats["graphs"] = len(snap.Dataset.Graphs)
		stats["platforms"] = len(snap.Dataset.Platforms)
	}

	if s.started && s.identity != nil {
		if n, err := s.identity.Count(context.Background()); err == nil {
			stats["users"] = n
		}
	}

	return stats
}

// timed runs fn and records its latency under stage.
func timed(stage string, fn func()) {
	start := time.Now()
	fn()
	metrics.RecordStage(stage, float64(time.Since(start).Microseconds())/1000)
}
