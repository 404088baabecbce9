package redis_limiter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PM_TEST_REDIS_ADDR points the test at a disposable Redis instance
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("PM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PM_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestLimiterWindow(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	limiter := NewRedisLimiter(client, 2, "pm:test:login:", time.Minute)
	key := uuid.NewString()
	t.Cleanup(func() { limiter.Reset(ctx, key) })

	require.NoError(t, limiter.Allow(ctx, key))
	n, err := limiter.Hit(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, limiter.Allow(ctx, key))

	n, err = limiter.Hit(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, limiter.Allow(ctx, key), ErrLimitExceeded)

	ttl, err := client.TTL(ctx, "pm:test:login:"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	limiter.Reset(ctx, key)
	current, err := limiter.GetCurrent(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, current)
	assert.Equal(t, 2, limiter.GetMaxAttempts())
}

func TestUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := NewRedisLimiter(client, 3, "pm:test:", time.Minute)
	err := limiter.Allow(context.Background(), "10.0.0.1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLimitExceeded)
}
