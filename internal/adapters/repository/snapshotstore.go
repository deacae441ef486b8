package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/metrics"
)

// SnapshotStore keeps the current dataset behind an atomic pointer.
// Readers never block; writers are serialized so generations only grow.
type SnapshotStore struct {
	mu       sync.Mutex // serializes Swap
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current implements Store.Current.
func (s *SnapshotStore) Current(ctx context.Context) (*model.Dataset, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Dataset, nil
}

// Snapshot implements Store.Snapshot.
func (s *SnapshotStore) Snapshot(_ context.Context) (Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "not_loaded")
		return Snapshot{}, ErrNotLoaded
	}
	return *snap, nil
}

// Swap implements Store.Swap.
func (s *SnapshotStore) Swap(_ context.Context, ds *model.Dataset) (uint64, error) {
	if ds == nil {
		return 0, fmt.Errorf("swap: %w", ErrNilDataset)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var gen uint64 = 1
	if prev := s.snapshot.Load(); prev != nil {
		gen = prev.Generation + 1
	}
	s.snapshot.Store(&Snapshot{Dataset: ds, Generation: gen, SwappedAt: s.now()})

	metrics.UpdateDatasetGeneration(gen)
	for table, n := range ds.Rows() {
		metrics.UpdateDatasetRows(table, n)
	}
	return gen, nil
}

// Generation implements Store.Generation.
func (s *SnapshotStore) Generation(_ context.Context) uint64 {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.Generation
	}
	return 0
}
