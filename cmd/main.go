package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/medalboard/internal/adapters/http/api"
	"github.com/okian/medalboard/internal/adapters/http/site"
	"github.com/okian/medalboard/internal/adapters/http/swagger"
	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/adapters/watch"
	app "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/config"
	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	corsMaxAge                = 300
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "medalboard stopped", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// defaults -> optional file -> env
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.InitWith(os.Stdout, logger.Format(cfg.LogFormat)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	// A missing dataset is not fatal: views answer 503 until a reload succeeds.
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(ctx, "service stop failed", logger.Error(err))
		}
	}()

	if cfg.WatchData {
		w := watch.New(cfg.DataDir, func(ctx context.Context) {
			if _, err := svc.Reload(ctx); err != nil {
				log.Warn(ctx, "reload after data change failed", logger.Error(err))
			}
		})
		if err := w.Start(ctx); err != nil {
			log.Warn(ctx, "data directory watch disabled", logger.String("dir", cfg.DataDir), logger.Error(err))
		} else {
			defer func() { _ = w.Stop() }()
		}
	}

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("data_dir", cfg.DataDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the dashboard service from cfg.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	reference, err := cfg.Reference()
	if err != nil {
		return nil, err
	}
	start, err := cfg.Start()
	if err != nil {
		return nil, err
	}
	engine := analytics.New(
		analytics.WithTopCountries(cfg.TopCountries),
		analytics.WithTopAthletes(cfg.TopAthletes),
		analytics.WithRankingLimit(cfg.RankingLimit),
		analytics.WithSchedule(cfg.ScheduleSports, cfg.ScheduleDefaultSports),
		analytics.WithScheduleSeed(cfg.ScheduleSeed),
		analytics.WithReferenceDate(reference),
		analytics.WithGamesStart(start),
	)
	return app.New(
		app.WithLogger(log),
		app.WithDataDir(cfg.DataDir),
		app.WithEngine(engine),
		app.WithRenderer(render.New(render.WithSize(cfg.ChartWidth, cfg.ChartHeight))),
		app.WithCacheSize(cfg.CacheSize),
		app.WithWorkerCount(cfg.WarmupWorkers),
		app.WithQueueSize(cfg.WarmupQueueSize),
	), nil
}

// newHandler registers every route on a ServeMux and wraps it in the
// shared middleware chain.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithRenderLimit(cfg.RenderRate, cfg.RenderBurst)).Register(ctx, mux)
	site.Register(ctx, mux)

	var h http.Handler = mux
	h = api.RequestID(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", api.RequestIDHeader},
		ExposedHeaders: []string{api.RequestIDHeader, "Retry-After"},
		MaxAge:         corsMaxAge,
	})(h)
	h = middleware.Recoverer(h)
	h = middleware.RealIP(h)
	return h
}

func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics resyncs gauges that only change on reload, so a
// scrape between reloads still reads current values.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if gen, ok := stats["generation"].(uint64); ok {
		metrics.UpdateDatasetGeneration(gen)
	}
	if entries, ok := stats["cacheEntries"].(int64); ok {
		metrics.UpdateCacheSize(int(entries))
	}
	queueLen, okLen := stats["queueLength"].(int)
	queueCap, okCap := stats["queueSize"].(int)
	if okLen && okCap {
		metrics.UpdateQueueSize(queueLen, queueCap)
	}
	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
