package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockoutKeyPrefix = "lockout:pin:"

// RedisLockoutStore shares failure counters across instances. The window is
// enforced server-side via key TTL.
type RedisLockoutStore struct {
	client *redis.Client
}

func NewRedisLockoutStore(client *redis.Client) *RedisLockoutStore {
	return &RedisLockoutStore{client: client}
}

func (s *RedisLockoutStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error) {
	key := lockoutKeyPrefix + identifier
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment lockout counter: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("set lockout window: %w", err)
		}
	}
	return int(count), nil
}

func (s *RedisLockoutStore) Failures(ctx context.Context, identifier string) (int, error) {
	count, err := s.client.Get(ctx, lockoutKeyPrefix+identifier).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read lockout counter: %w", err)
	}
	return count, nil
}

func (s *RedisLockoutStore) Clear(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, lockoutKeyPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("clear lockout counter: %w", err)
	}
	return nil
}
