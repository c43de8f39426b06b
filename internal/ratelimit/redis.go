package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests in fixed windows shared by every instance.
// A counter without an expiry, new or left behind by a lost PEXPIRE, is
// re-armed with the window on the next hit.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
}

func NewRedisLimiter(client redis.Cmdable, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, error) {
	if max <= 0 || window <= 0 {
		return true, nil
	}

	k := l.prefix + ":" + key
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ratelimit: incr %s: %w", k, err)
	}

	if ttl.Val() < 0 {
		if err := l.client.PExpire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit: expire %s: %w", k, err)
		}
	}
	return incr.Val() <= int64(max), nil
}

// Ping reports whether the Redis server answers.
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
