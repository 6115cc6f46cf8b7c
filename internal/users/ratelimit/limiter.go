// Package ratelimit provides a Redis-backed fixed-window counter used to
// throttle login attempts per username and client IP.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

const keyPrefix = "login_attempts:"

// LoginLimiter counts attempts in a fixed window. When Redis is unreachable
// the limiter fails open: availability of login wins over throttling.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	logger logging.Logger
}

func NewLoginLimiter(rdb *redis.Client, limit int64, window time.Duration, logger logging.Logger) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, limit: limit, window: window, logger: logger}
}

// Allow records one attempt for key and reports whether it is within the
// window limit.
func (l *LoginLimiter) Allow(ctx context.Context, key string) bool {
	k := keyPrefix + key

	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		l.logger.Warn(ctx, "rate limiter unavailable, failing open", "error", err)
		return true
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			l.logger.Warn(ctx, "rate limiter expire failed", "error", err)
		}
	}

	return n <= l.limit
}

// Reset clears the counter for key. Called after a successful login so a
// user who eventually signs in does not stay penalized.
func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if err := l.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		l.logger.Warn(ctx, "rate limiter reset failed", "error", err)
	}
}
