package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// redisLimiter implements a fixed-window counter in Redis. The webhook
// endpoint sits behind it so a misbehaving gateway retry storm cannot
// saturate the database.
type redisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a limiter allowing limit requests per window.
func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) Limiter {
	return &redisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit",
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := time.Now().Unix() / int64(l.window.Seconds())
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, window)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		// Best effort; a lost expiry only widens one window.
		l.client.Expire(ctx, redisKey, l.window)
	}

	return count <= l.limit, nil
}

// noopLimiter always allows. Used when Redis is not configured.
type noopLimiter struct{}

// NewNoopLimiter creates a limiter that never rejects.
func NewNoopLimiter() Limiter {
	return noopLimiter{}
}

func (noopLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}
