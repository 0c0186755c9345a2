package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idem:checkout:"

// PendingValue marks a key whose request is still being processed.
const PendingValue = "pending"

type redisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

func (r *redisIdempotencyStore) key(k string) string {
	return idempotencyPrefix + k
}

func (r *redisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(key), PendingValue, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; the caller can retry
		return PendingValue, false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, false, nil
}

func (r *redisIdempotencyStore) Complete(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *redisIdempotencyStore) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}
