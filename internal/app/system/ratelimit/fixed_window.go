package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// FixedWindowLimiter limits requests per key in a fixed window shared
// through Redis, so every replica sees the same counts.
type FixedWindowLimiter struct {
	limit  int
	window time.Duration

	client *redis.Client
	prefix string
	log    *zap.Logger
}

// NewRedisFixedWindowLimiter creates a Redis-backed limiter.
func NewRedisFixedWindowLimiter(client *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) (*FixedWindowLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	if client == nil {
		return nil, errors.New("rate limiter requires a redis client")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "volunteerhub:ratelimit"
	}
	return &FixedWindowLimiter{
		limit:  limit,
		window: window,
		client: client,
		prefix: prefix,
		log:    logger,
	}, nil
}

// Allow returns true when key is within quota. Redis failures let the
// request through and are logged; the limiter protects capacity, not access.
func (l *FixedWindowLimiter) Allow(key string) bool {
	redisKey, windowMs := l.slotKey(key)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		l.log.Warn("redis rate limit check failed; allowing", zap.Error(err))
		return true
	}
	return n <= int64(l.limit)
}

// Remaining returns how many requests key has left in the current window.
// It reports the full quota when Redis cannot be read.
func (l *FixedWindowLimiter) Remaining(key string) int {
	redisKey, _ := l.slotKey(key)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := l.client.Get(ctx, redisKey).Int()
	if errors.Is(err, redis.Nil) {
		return l.limit
	}
	if err != nil {
		l.log.Warn("redis rate limit read failed", zap.Error(err))
		return l.limit
	}
	if n >= l.limit {
		return 0
	}
	return l.limit - n
}

// slotKey names the counter for key in the current window.
func (l *FixedWindowLimiter) slotKey(key string) (string, int64) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	windowMs := l.window.Milliseconds()
	slot := time.Now().UTC().UnixMilli() / windowMs
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, slot), windowMs
}
