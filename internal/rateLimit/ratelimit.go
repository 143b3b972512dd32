package rateLimit

import (
	"context"
	"time"

	redisadapter "github.com/mdsaif2022/ntb-booking-server/internal/adapters/redis"
)

type RateLimiter struct {
	redis *redisadapter.Cache
}

func NewRateLimiter(redis *redisadapter.Cache) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow counts one hit in a fixed window and reports whether the caller is
// still under rate. Redis errors fail open so the limiter can never take
// the booking API down with it.
func (rl *RateLimiter) Allow(ctx context.Context, key string, rate int, period time.Duration) bool {
	fullKey := "rl:" + key

	pipe := rl.redis.Client().Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, period)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return true
	}

	return incr.Val() <= int64(rate)
}
