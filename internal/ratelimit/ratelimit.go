// Package ratelimit throttles callers per key. The in-process limiter serves a
// single instance; the Redis limiter shares counters between instances.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mariustrier/TimeTrack-sub004/internal"
)

// Limiter decides whether one more request for key fits into max requests
// per window.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (bool, error)
}

// NewRedisClient connects and pings the configured server.
func NewRedisClient(ctx context.Context, cfg internal.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ratelimit: redis ping: %w", err)
	}
	return client, nil
}

// New builds the limiter selected by cfg.Backend. The returned close function
// releases the Redis connection or stops the in-process sweeper.
func New(ctx context.Context, cfg internal.RateLimitConfig, redisCfg internal.RedisConfig, logger *slog.Logger) (Limiter, func() error, error) {
	switch cfg.Backend {
	case "redis":
		client, err := NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("rate limiter using redis", "addr", redisCfg.Addr)
		return NewRedisLimiter(client, "ratelimit"), client.Close, nil
	default:
		mem := NewMemoryLimiter()
		sweepCtx, cancel := context.WithCancel(ctx)
		go mem.Run(sweepCtx, time.Minute, 10*time.Minute)
		logger.Info("rate limiter using process memory")
		return mem, func() error { cancel(); return nil }, nil
	}
}
