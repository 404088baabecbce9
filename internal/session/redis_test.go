package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreLifecycle(t *testing.T) {
	addr := os.Getenv("PM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PM_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	s := NewRedisStore(client, "pm:test:session:", time.Minute)
	id, err := s.Create(ctx, 42)
	require.NoError(t, err)

	// shorten the expiry and check Get slides it back
	require.NoError(t, client.Expire(ctx, "pm:test:session:"+id, 5*time.Second).Err())
	userID, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	ttl, err := client.TTL(ctx, "pm:test:session:"+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 5*time.Second)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// every session of a user goes at once
	first, err := s.Create(ctx, 43)
	require.NoError(t, err)
	second, err := s.Create(ctx, 43)
	require.NoError(t, err)
	require.NoError(t, s.DeleteUser(ctx, 43))
	for _, sid := range []string{first, second} {
		_, err = s.Get(ctx, sid)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
	n, err := client.Exists(ctx, "pm:test:session:user:43").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
