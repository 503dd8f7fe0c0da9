package ratelimit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// allowScript prunes, checks and records in one round trip so concurrent
// callers across instances cannot both pass a check that should have tripped
// the limit.
var allowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// Redis is a Limiter backed by a Redis sorted set per key, for deployments
// where multiple instances must share one window. Keys expire with the
// window, so stale identities reclaim themselves.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewRedis constructs a Redis-backed limiter.
func NewRedis(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: "ratelimit:",
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source for tests.
func (r *Redis) WithClock(now func() time.Time) *Redis {
	r.now = now
	return r
}

// Allow admits the request if fewer than limit entries remain in the
// trailing window. Store errors deny: when the limiter cannot count, it must
// not let traffic through unchecked.
func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if limit <= 0 {
		return false
	}
	nowMs := r.now().UnixMilli()
	res, err := allowScript.Run(ctx, r.client, []string{r.prefix + key},
		strconv.FormatInt(nowMs, 10),
		strconv.FormatInt(window.Milliseconds(), 10),
		strconv.Itoa(limit),
		uuid.NewString(),
	).Int()
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("rate limit store error", slog.Any("error", err))
		}
		return false
	}
	return res == 1
}

var _ Limiter = (*Redis)(nil)
