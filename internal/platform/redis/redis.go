// Package redis dials the shared Redis client used by cache adapters.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect parses redisURL, applies pool settings and verifies the connection.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

// ConnectOrDisable returns nil and a no-op cleanup when redisURL is blank or unreachable.
func ConnectOrDisable(ctx context.Context, redisURL string, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(redisURL) == "" {
		if logger != nil {
			logger.Info("REDIS_URL not set, list cache disabled")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, redisURL)
	if err != nil {
		if logger != nil {
			logger.Warn("redis unavailable, list cache disabled", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established")
	}
	return client, func() { _ = client.Close() }
}
