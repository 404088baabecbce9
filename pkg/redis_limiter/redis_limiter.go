package redis_limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrLimitExceeded the key used up its attempts for the current window
var ErrLimitExceeded = fmt.Errorf("attempt limit exceeded")

// hitScript counts one attempt and starts the window on the first hit.
// Returns the count including this attempt.
var hitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if tonumber(count) == 1 then
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
end
return count`)

// RedisLimiter fixed-window attempt counter shared across server instances
type RedisLimiter struct {
	client      *redis.Client
	maxAttempts int
	keyPrefix   string
	window      time.Duration
}

// NewRedisLimiter creates a limiter allowing maxAttempts per key per window
func NewRedisLimiter(client *redis.Client, maxAttempts int, keyPrefix string, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		keyPrefix:   keyPrefix,
		window:      window,
	}
}

// Allow reports ErrLimitExceeded once key has used every attempt of the window
func (rl *RedisLimiter) Allow(ctx context.Context, key string) error {
	current, err := rl.GetCurrent(ctx, key)
	if err != nil {
		return err
	}
	if current >= rl.maxAttempts {
		logrus.WithFields(logrus.Fields{"key": key, "attempts": current}).Warn("attempt limit reached")
		return ErrLimitExceeded
	}
	return nil
}

// Hit records one failed attempt for key
func (rl *RedisLimiter) Hit(ctx context.Context, key string) (int, error) {
	result, err := hitScript.Run(ctx, rl.client, []string{rl.keyPrefix + key}, int(rl.window.Seconds())).Int()
	if err != nil {
		return 0, fmt.Errorf("record attempt: %w", err)
	}
	return result, nil
}

// Reset clears the counter of key, used after a successful attempt
func (rl *RedisLimiter) Reset(ctx context.Context, key string) {
	if err := rl.client.Del(ctx, rl.keyPrefix+key).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("reset attempt counter")
	}
}

// GetCurrent returns the attempts counted for key in the current window
func (rl *RedisLimiter) GetCurrent(ctx context.Context, key string) (int, error) {
	current, err := rl.client.Get(ctx, rl.keyPrefix+key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read attempt counter: %w", err)
	}
	return current, nil
}

// GetMaxAttempts returns the per-window allowance
func (rl *RedisLimiter) GetMaxAttempts() int {
	return rl.maxAttempts
}
