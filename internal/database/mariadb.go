// Package database provides connection setup for MariaDB and Redis and runs
// the embedded schema migrations. Connections are created once at startup and
// shared across the application via dependency injection.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	// MariaDB driver -- imported for side effect of registering the driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/keyxmakerx/stockroom/internal/config"
)

// Connection retry policy. MariaDB may still be starting when the API
// container launches, so startup waits instead of crash-looping.
const (
	pingAttempts   = 10
	pingTimeout    = 5 * time.Second
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// pinger is the subset of *sql.DB needed to wait for the server.
type pinger interface {
	PingContext(ctx context.Context) error
}

// NewMariaDB opens a MariaDB pool with the configured limits and blocks until
// the server answers a ping or the retry budget is exhausted.
func NewMariaDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForDB(ctx, db, pingAttempts, initialBackoff); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// waitForDB pings with exponential backoff until the server answers, the
// attempts run out, or ctx ends.
func waitForDB(ctx context.Context, db pinger, attempts int, initial time.Duration) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initial
	policy.MaxInterval = maxBackoff
	policy.MaxElapsedTime = 0 // bounded by attempts instead

	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("mariadb not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", wait),
			slog.Any("error", err),
		)
	}

	retries := uint64(max(attempts-1, 0))
	err := backoff.RetryNotify(ping, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx), notify)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("waiting for mariadb: %w", ctx.Err())
	}
	return fmt.Errorf("pinging mariadb after %d attempts: %w", attempt, err)
}
