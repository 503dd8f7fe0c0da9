package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, now *time.Time) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewRedis(client, nil).WithClock(func() time.Time { return *now })
	return limiter, srv
}

func TestRedisAllowSequence(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter, _ := newRedisLimiter(t, &now)
	ctx := context.Background()

	var got []bool
	for i := 0; i < 4; i++ {
		got = append(got, limiter.Allow(ctx, "client", 3, time.Minute))
	}
	assert.Equal(t, []bool{true, true, true, false}, got)
}

func TestRedisWindowAdvanceReadmits(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter, _ := newRedisLimiter(t, &now)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "client", 1, time.Minute))
	assert.False(t, limiter.Allow(ctx, "client", 1, time.Minute))

	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow(ctx, "client", 1, time.Minute))
}

func TestRedisKeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter, srv := newRedisLimiter(t, &now)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "alpha", 1, time.Minute))
	assert.True(t, limiter.Allow(ctx, "beta", 1, time.Minute))
	require.True(t, srv.Exists("ratelimit:alpha"))
	require.True(t, srv.Exists("ratelimit:beta"))
}

func TestRedisStoreErrorDenies(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter, srv := newRedisLimiter(t, &now)
	srv.Close()

	// An unreachable store fails closed.
	assert.False(t, limiter.Allow(context.Background(), "client", 100, time.Minute))
}
