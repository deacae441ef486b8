// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/medalboard/internal/adapters/loader"
	"github.com/okian/medalboard/internal/adapters/mq/queue"
	"github.com/okian/medalboard/internal/adapters/mq/worker"
	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/adapters/repository"
	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/internal/domain/cache"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// Loader reads a dataset.
type Loader interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Health is the dataset state reported by /healthz.
type Health struct {
	Loaded     bool      `json:"loaded"`
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at,omitzero"`
	DataDir    string    `json:"data_dir,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

// Service serves dashboard views over the current dataset snapshot.
type Service struct {
	mu       sync.RWMutex
	reloadMu sync.Mutex

	// Core components
	loader   Loader
	store    repository.Store
	engine   *analytics.Engine
	cache    cache.Cache
	renderer *render.Renderer
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	// Configuration
	dataDir     string
	cacheSize   int
	workerCount int
	queueSize   int
	warmup      bool

	// State
	started  bool
	lastErr  error
	reloads  int
	runCtx   context.Context //nolint:containedctx // workers outlive the Start call
	stopPool context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:     "data",
		cacheSize:   512,
		workerCount: runtime.NumCPU(),
		queueSize:   64,
		warmup:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = loader.New(s.dataDir)
	}
	if s.engine == nil {
		s.engine = analytics.New()
	}
	if s.renderer == nil {
		s.renderer = render.New()
	}
	s.store = repository.NewSnapshotStore()
	s.cache = cache.NewInMemoryCache(
		cache.WithMaxSize(s.cacheSize),
		cache.WithEvictHook(func(cache.Key) { metrics.RecordCacheEviction() }),
	)
	return s
}

// Start starts the warm-up pool and loads the dataset. A failed load is
// not fatal: views report ErrDatasetUnavailable until a reload succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting medalboard service...")

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.cache)
	// workers must outlive the request-scoped ctx that Start may be called with
	s.runCtx, s.stopPool = context.WithCancel(context.WithoutCancel(ctx))
	s.pool.Start(s.runCtx)
	s.started = true
	s.mu.Unlock()

	gen, err := s.Reload(ctx)
	if err != nil {
		s.logger.Error(ctx, "initial dataset load failed; serving without data", logger.Error(err))
	}
	s.logger.Info(ctx, "medalboard service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
		logger.Uint64("generation", gen),
	)
	return nil
}

// Stop drains the warm-up pool.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping medalboard service...")

	err := s.pool.Shutdown(ctx)
	s.stopPool()
	s.started = false
	s.logger.Info(ctx, "medalboard service stopped")
	return err
}

// Reload reads the dataset again and publishes it as a new generation. On
// failure the previous generation keeps serving.
func (s *Service) Reload(ctx context.Context) (uint64, error) {
	if !s.isStarted() {
		return 0, ErrNotStarted
	}
	if !s.reloadMu.TryLock() {
		return 0, ErrReloadInProgress
	}
	defer s.reloadMu.Unlock()

	ds, err := s.loader.Load(ctx)
	s.mu.Lock()
	s.lastErr = err
	s.reloads++
	s.mu.Unlock()
	if err != nil {
		return s.store.Generation(ctx), fmt.Errorf("reload: %w", err)
	}

	gen, err := s.store.Swap(ctx, ds)
	if err != nil {
		return 0, fmt.Errorf("reload: %w", err)
	}
	s.cache.Purge(ctx)
	metrics.UpdateCacheSize(0)
	if dropped := s.queue.Drain(ctx); dropped > 0 {
		s.logger.Debug(ctx, "dropped stale warm-up jobs", logger.Int("jobs", dropped))
	}
	if s.warmup {
		s.enqueueWarmup(ctx, gen, ds)
	}
	s.logger.Info(ctx, "dataset published", logger.Uint64("generation", gen))
	return gen, nil
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Health reports whether a dataset is being served.
func (s *Service) Health(ctx context.Context) Health {
	s.mu.RLock()
	lastErr := s.lastErr
	s.mu.RUnlock()

	h := Health{DataDir: s.dataDir}
	if lastErr != nil {
		h.LastError = lastErr.Error()
	}
	if snap, err := s.store.Snapshot(ctx); err == nil {
		h.Loaded = true
		h.Generation = snap.Generation
		h.LoadedAt = snap.Dataset.LoadedAt
	}
	return h
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"cacheSize":   s.cacheSize,
		"generation":  s.store.Generation(ctx),
		"reloads":     s.reloads,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["cacheEntries"] = s.cache.Len()
		stats["warmedViews"] = s.pool.Processed()
		stats["warmupFailures"] = s.pool.Failed()
	}
	if ds, err := s.store.Current(ctx); err == nil {
		stats["rows"] = ds.Rows()
	}
	return stats
}

// Render draws a figure as an image.
func (s *Service) Render(ctx context.Context, f types.Figure, format render.Format) ([]byte, error) {
	return s.renderer.Render(ctx, f, format)
}

// snapshot returns the current dataset or ErrDatasetUnavailable.
func (s *Service) snapshot(ctx context.Context) (repository.Snapshot, error) {
	snap, err := s.store.Snapshot(ctx)
	if errors.Is(err, repository.ErrNotLoaded) {
		s.mu.RLock()
		lastErr := s.lastErr
		s.mu.RUnlock()
		if lastErr != nil {
			return snap, fmt.Errorf("%w: %w", ErrDatasetUnavailable, lastErr)
		}
		return snap, ErrDatasetUnavailable
	}
	return snap, err
}
