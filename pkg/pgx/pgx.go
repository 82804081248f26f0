package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/fawazbook/pkg/config"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"github.com/orgball2608/fawazbook/pkg/retry"
)

// Connect opens a pool against the fixture database and waits until it answers a ping.
// The caller owns the pool and must Close it.
func Connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	err = retry.Do(ctx, log, "postgres ping", retry.Postgres, func() error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Info("Connected to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.Name)
	return pool, nil
}
