package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type RedisOptions struct {
	Addr       string
	Password   string
	MaxRetries uint64
}

// OpenRedis returns a client once the server answers PING.
func OpenRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           0,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ping := func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), opts.MaxRetries), ctx)
	if err := pingWithRetry(ctx, "Redis", ping, b); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logrus.Info("Redis client initialized")
	return client, nil
}
