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

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/http/api"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/http/site"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/http/swagger"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/mq/queue"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/mq/worker"
	app "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/config"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/dedupe"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		// Use stderr since the logger may not be available
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	// Initialize logging
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the service with configuration options
	svc := app.New(append(app.OptionsFromConfig(cfg), app.WithLogger(log))...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	// Reloads requested over HTTP run one at a time on a single worker.
	reloads := queue.NewInMemoryQueue(queue.WithCapacity(cfg.ReloadQueueCapacity))
	reloader := worker.NewInMemoryWorker(reloads, svc,
		worker.WithLogger(log.Named("reload")),
		worker.WithTimeout(cfg.ReloadTimeout))
	go reloader.Run(ctx)
	keys := dedupe.NewInMemoryDeduper(dedupe.WithTTL(cfg.ReloadKeyTTL))

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, api.NewReloadHandler(reloads, reloader, keys)),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	_ = reloads.Close()
	if err := reloader.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "reload worker shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newHandler registers every route and wraps the mux in the request id middleware.
func newHandler(ctx context.Context, svc *app.Service, reloads *api.ReloadHandler) http.Handler {
	mux := http.NewServeMux()

	// Register ReDoc under /api-docs and the spec under /openapi.yaml
	swagger.Register(ctx, mux)

	// Register analysis routes with the service dependency.
	api.NewServer(svc, api.WithReloads(reloads)).Register(ctx, mux)

	// Dashboard page on every remaining path
	site.Register(ctx, mux)

	return api.RequestIDMiddleware(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
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

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
