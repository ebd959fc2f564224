// Package repository holds the active dataset snapshot and keeps it loaded
// from disk.
package repository

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/axioma/trendboard/internal/domain/dataset"
	"github.com/axioma/trendboard/pkg/metrics"
)

// Snapshot is an immutable, versioned dataset. Readers must not modify it.
type Snapshot struct {
	Dataset  *dataset.Dataset
	Path     string
	LoadedAt time.Time
	Version  uint64
}

// SnapshotStore publishes snapshots with an atomic pointer swap so readers
// never block and always see a complete dataset.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Current returns the active snapshot.
func (s *SnapshotStore) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Publish makes ds the active snapshot and returns it.
func (s *SnapshotStore) Publish(ds *dataset.Dataset, path string) *Snapshot {
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	snap := &Snapshot{
		Dataset:  ds,
		Path:     path,
		LoadedAt: time.Now(),
		Version:  s.version.Add(1),
	}
	s.current.Store(snap)
	metrics.UpdateSnapshotShape(snap.LoadedAt.Unix(), len(ds.Graphs), len(ds.Platforms))
	return snap
}

// Load reads path and publishes it. On failure the previous snapshot stays active.
func (s *SnapshotStore) Load(ctx context.Context, path string) (*Snapshot, error) {
	start := time.Now()
	ds, err := LoadFile(ctx, path)
	ms := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordSnapshotLoad("error", ms)
		return nil, err
	}
	metrics.RecordSnapshotLoad("success", ms)
	return s.Publish(ds, path), nil
}

// LoadFile decodes the dataset stored at path.
func LoadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	ds, err := dataset.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return ds, nil
}
