package rate_limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter counts requests per client in fixed windows stored in Redis,
// so every replica shares the same budget.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.client == nil {
		return false, l.window, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		key = "unknown"
	}

	raw, err := fixedWindowScript.Run(ctx, l.client, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, l.window, err
	}
	values, ok := raw.([]any)
	if !ok || len(values) != 2 {
		return false, l.window, fmt.Errorf("unexpected redis script response %T", raw)
	}
	count, ok := values[0].(int64)
	if !ok {
		return false, l.window, fmt.Errorf("unexpected redis counter type %T", values[0])
	}
	ttl, ok := values[1].(int64)
	if !ok || ttl <= 0 {
		ttl = l.window.Milliseconds()
	}
	return count <= int64(l.limit), time.Duration(ttl) * time.Millisecond, nil
}
