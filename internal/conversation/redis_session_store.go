package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in Redis with a TTL, so conversations
// survive process restarts and expire without a sweeper.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if client == nil {
		panic("conversation: redis client required")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(key string) string {
	return fmt.Sprintf("session:%s", key)
}

// Get loads the session for the key.
func (s *RedisSessionStore) Get(ctx context.Context, key string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("conversation: load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("conversation: decode session: %w", err)
	}
	return &sess, nil
}

// Upsert stores the session and refreshes its TTL.
func (s *RedisSessionStore) Upsert(ctx context.Context, sess *Session) error {
	stored := *sess
	stored.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("conversation: encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(stored.Key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("conversation: persist session: %w", err)
	}
	return nil
}

// Expire deletes the session for the key.
func (s *RedisSessionStore) Expire(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, sessionKey(key)).Err(); err != nil {
		return fmt.Errorf("conversation: expire session: %w", err)
	}
	return nil
}
