package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// touchScript reads a session and slides its expiry, and that of its
// owner's index, in one round trip. ARGV[2] is the user index prefix.
var touchScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v == false then
	return false
end
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
redis.call('EXPIRE', ARGV[2] .. v, tonumber(ARGV[1]))
return v`)

// deleteScript drops a session and its entry in the owner's index
var deleteScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
redis.call('DEL', KEYS[1])
if v then
	redis.call('SREM', ARGV[1] .. v, ARGV[2])
end
return 1`)

// RedisStore Store shared by every server instance. Each user's session
// ids are also kept in the set keyPrefix+"user:"+id.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a RedisStore writing keys under keyPrefix
func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisStore) userPrefix() string {
	return s.keyPrefix + "user:"
}

func (s *RedisStore) userKey(userID uint) string {
	return s.userPrefix() + strconv.FormatUint(uint64(userID), 10)
}

// Create implements Store
func (s *RedisStore) Create(ctx context.Context, userID uint) (string, error) {
	id := uuid.NewString()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.keyPrefix+id, userID, s.ttl)
		pipe.SAdd(ctx, s.userKey(userID), id)
		pipe.Expire(ctx, s.userKey(userID), s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, id string) (uint, error) {
	result, err := touchScript.Run(ctx, s.client, []string{s.keyPrefix + id},
		int(s.ttl.Seconds()), s.userPrefix()).Text()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseUint(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode session: %w", err)
	}
	return uint(userID), nil
}

// Delete implements Store
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	err := deleteScript.Run(ctx, s.client, []string{s.keyPrefix + id}, s.userPrefix(), id).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteUser implements Store
func (s *RedisStore) DeleteUser(ctx context.Context, userID uint) error {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.keyPrefix+id)
	}
	keys = append(keys, s.userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
