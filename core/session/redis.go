package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "websession:"

// RedisStore persists session records as JSON values with a TTL matching the
// record expiration, for deployments that prefer a volatile session backend.
// Redis evicts expired keys itself, so DeleteExpired has nothing to sweep.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(id uuid.UUID) string {
	return redisKeyPrefix + id.String()
}

// Find loads a record by id.
func (s *RedisStore) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	val, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &rec, nil
}

// Save writes a record with a TTL equal to its remaining lifetime.
func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	return s.client.Set(ctx, redisKey(rec.ID), buf, ttl).Err()
}

// Delete removes a record by id. Deleting an absent id is not an error.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, redisKey(id)).Err()
}

// DeleteExpired is a no-op: expiry is delegated to Redis key TTLs.
func (s *RedisStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
