// Package postgres persists indexed blocks and transactions in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DefaultMaxConns bounds the pool shared by the sync engine and the API.
const DefaultMaxConns = 5

// Config configures the connection pool.
type Config struct {
	URL      string
	MaxConns int32
	Logger   *zap.Logger
}

// Repository is the persistence gateway. Block writes are last-write-wins upserts,
// transaction writes are first-write-wins inserts.
type Repository struct {
	db      DB
	pool    *pgxpool.Pool
	metrics Metrics
	logger  *zap.Logger
}

// NewRepository opens a pool and verifies connectivity.
func NewRepository(ctx context.Context, cfg Config, metrics Metrics) (*Repository, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres url is required")
	}
	if metrics == nil {
		return nil, errors.New("repository metrics is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	poolCfg.MaxConns = DefaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{db: pool, pool: pool, metrics: metrics, logger: cfg.Logger}, nil
}

func (r *Repository) log() *zap.Logger {
	if r.logger == nil {
		return zap.NewNop()
	}
	return r.logger
}

// Close releases the pool.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
