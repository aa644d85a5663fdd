// Package main is the entry point for the Stockroom API server. It loads
// configuration, establishes database connections, wires the plugins
// together, and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/stockroom/internal/app"
	"github.com/keyxmakerx/stockroom/internal/config"
	"github.com/keyxmakerx/stockroom/internal/database"
	"github.com/keyxmakerx/stockroom/internal/plugins/media"
)

// shutdownTimeout is how long in-flight requests get to finish on SIGTERM.
const shutdownTimeout = 10 * time.Second

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	// Cancelled on SIGINT/SIGTERM so a slow startup can be interrupted too.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to MariaDB ---
	db, err := database.NewMariaDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to MariaDB", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to MariaDB")

	if cfg.Database.Migrate {
		if err := database.RunMigrations(db); err != nil {
			slog.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// --- Connect to Redis (optional) ---
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Info("connected to Redis")
	} else {
		slog.Info("REDIS_URL not set, product list cache disabled")
	}

	// --- Upload Storage ---
	store, err := media.NewBlobStore(ctx, cfg.Upload)
	if err != nil {
		slog.Error("failed to set up upload storage", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("upload storage ready",
		slog.String("backend", cfg.Upload.Backend),
		slog.String("destination", store.Destination()),
	)

	// --- Create Application ---
	application, err := app.New(cfg, db, rdb, store)
	if err != nil {
		slog.Error("failed to create application", slog.Any("error", err))
		os.Exit(1)
	}
	application.RegisterRoutes()

	// --- Serve until SIGINT/SIGTERM, then drain in-flight requests ---
	if err := application.Run(ctx, shutdownTimeout); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// setupLogging configures the global slog logger. Development uses text
// format for readability. Everything else uses JSON for log aggregation.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
