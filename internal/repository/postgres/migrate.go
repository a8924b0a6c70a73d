package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/goodnatureofminers/penumbra-indexer/migrations"
	"github.com/jackc/pgx/v5/stdlib"
)

// EnsureSchema applies pending migrations. It is a no-op on an up-to-date schema
// and is safe to run from several processes at once.
func (r *Repository) EnsureSchema(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ensure_schema", err, start)
	}()

	m, err := r.migrator()
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	err = ctx.Err()
	return err
}

func (r *Repository) migrator() (*migrate.Migrate, error) {
	if r.pool == nil {
		return nil, errors.New("repository has no connection pool")
	}

	src, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(r.pool), &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
