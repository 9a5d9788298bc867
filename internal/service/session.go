package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// sessionKeyPrefix namespaces session tokens in Redis so the keyspace can be
// shared with other uses of the same instance.
const sessionKeyPrefix = "session:"

// redisTokenStore is the Redis-backed TokenStore. Tokens expire after ttl of
// inactivity; every successful Lookup slides the expiry forward.
type redisTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenStore constructs a TokenStore over the given Redis client.
func NewRedisTokenStore(client *redis.Client, ttl time.Duration) TokenStore {
	return &redisTokenStore{client: client, ttl: ttl}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func (s *redisTokenStore) Save(ctx context.Context, token string, userID uuid.UUID) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+token, userID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("service.redisTokenStore.Save: %w", err)
	}
	return nil
}

func (s *redisTokenStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	raw, err := s.client.GetEx(ctx, sessionKeyPrefix+token, s.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, fmt.Errorf("service.redisTokenStore.Lookup: %w", domain.ErrUnauthenticated)
		}
		return uuid.Nil, fmt.Errorf("service.redisTokenStore.Lookup: %w", err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.redisTokenStore.Lookup: corrupt session value: %w", err)
	}
	return userID, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("service.redisTokenStore.Delete: %w", err)
	}
	return nil
}
