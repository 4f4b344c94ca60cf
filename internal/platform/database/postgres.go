package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type PostgresOptions struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MaxRetries      uint64
}

// OpenPostgres opens the pool and waits for the server to answer a ping.
func OpenPostgres(ctx context.Context, opts PostgresOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), opts.MaxRetries), ctx)
	if err := pingWithRetry(ctx, "postgres", db.PingContext, b); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logrus.Info("Postgres connection established")
	return db, nil
}

func pingWithRetry(ctx context.Context, name string, ping func(context.Context) error, b backoff.BackOff) error {
	return backoff.Retry(
		func() error {
			if err := ping(ctx); err != nil {
				logrus.Warnf("%s connection failed: %v, retrying...", name, err)
				return err
			}
			return nil
		},
		b,
	)
}
