// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (DB pool, Redis client, blob store,
// metrics registry, Echo instance) and wires the plugins together.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/stockroom/internal/config"
	"github.com/keyxmakerx/stockroom/internal/middleware"
	"github.com/keyxmakerx/stockroom/internal/plugins/media"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB connection pool shared by all plugins.
	DB *sql.DB

	// Redis backs the product list cache. Nil when caching is disabled.
	Redis *redis.Client

	// Store receives uploaded images.
	Store media.BlobStore

	// Metrics holds the HTTP collectors served on /metrics.
	Metrics *middleware.Metrics

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling. rdb may be nil.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client, store media.BlobStore) (*App, error) {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Make c.RealIP() report the client, not the reverse proxy.
	if err := middleware.TrustedProxies(e, cfg.TrustedProxies); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		registry.MustRegister(collectors.NewDBStatsCollector(db, "stockroom"))
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Store:   store,
		Metrics: middleware.NewMetrics(registry),
		Echo:    e,
	}

	// Register global middleware in order of execution.
	app.setupMiddleware()

	// Map AppErrors and framework errors onto the JSON envelope.
	e.HTTPErrorHandler = middleware.ErrorHandler

	return app, nil
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request id -- before logging so every log line carries it.
	a.Echo.Use(middleware.RequestID())

	// Metrics -- outside the logger, which renders errors, so the recorded
	// status is the final one.
	a.Echo.Use(a.Metrics.Middleware())

	// Request logging -- log every request with method, path, status, latency.
	a.Echo.Use(middleware.RequestLogger())

	// Security headers for a JSON-only API.
	a.Echo.Use(middleware.SecurityHeaders())

	// CORS -- only when browser origins are configured.
	if len(a.Config.CORSOrigins) > 0 {
		a.Echo.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: a.Config.CORSOrigins,
		}))
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting Stockroom server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then gives in-flight requests up to
// drain to finish. It returns only once they have, so callers may close
// the database afterwards.
func (a *App) Run(ctx context.Context, drain time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.Start()
	}()

	select {
	case err := <-serveErr:
		// Listener failed before any shutdown was requested.
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server...", slog.Duration("drain", drain))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	// Start returns ErrServerClosed as soon as Shutdown begins; Shutdown
	// itself blocks until active connections are idle.
	if err := a.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("draining requests: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
