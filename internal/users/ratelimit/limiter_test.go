package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

func newTestLimiter(t *testing.T, limit int64, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLoginLimiter(rdb, limit, window, logging.NewJSONLogger()), mr
}

func TestAllow_WithinLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
	require.False(t, l.Allow(ctx, "alice:127.0.0.1"))

	// Other keys count independently.
	require.True(t, l.Allow(ctx, "bob:127.0.0.1"))
}

func TestAllow_WindowExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
	require.False(t, l.Allow(ctx, "alice:127.0.0.1"))

	mr.FastForward(time.Minute + time.Second)

	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
}

func TestReset_ClearsCounter(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
	require.False(t, l.Allow(ctx, "alice:127.0.0.1"))

	l.Reset(ctx, "alice:127.0.0.1")

	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
}

func TestAllow_FailsOpenWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	mr.Close()

	require.True(t, l.Allow(ctx, "alice:127.0.0.1"))
}
