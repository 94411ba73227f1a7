package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"
)

// RedisStore is a ConversationStore backed by a Redis instance, for
// deployments where the bridge runs more than one replica or must survive
// restarts without losing thread continuity.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance described by redisURL
// (redis://... form accepted by redis.ParseURL) and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) GetContinuationToken(ctx context.Context, key string) (mo.Option[string], error) {
	token, err := s.client.Get(ctx, redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return mo.None[string](), nil
		}
		return mo.None[string](), fmt.Errorf("failed to get continuation token: %w", err)
	}
	return mo.Some(token), nil
}

func (s *RedisStore) SetContinuationToken(ctx context.Context, key, token string) error {
	if err := s.client.Set(ctx, redisKey(key), token, 0).Err(); err != nil {
		return fmt.Errorf("failed to set continuation token: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(key string) string {
	return "conversation:" + key
}
