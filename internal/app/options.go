package service

import (
	"github.com/okian/medalboard/internal/adapters/loader"
	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir loads the dataset from dir.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.loader = loader.New(dir)
			s.dataDir = dir
		}
	}
}

// WithLoader replaces the CSV loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithEngine sets the analytics engine.
func WithEngine(e *analytics.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithRenderer sets the chart image renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithCacheSize bounds the view cache. Zero or less keeps it unbounded.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithWorkerCount sets the number of warm-up workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending warm-up jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWarmup enables or disables pre-computing default views after a load.
func WithWarmup(enabled bool) Option {
	return func(s *Service) {
		s.warmup = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
