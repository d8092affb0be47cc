package api

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "board-events"

// pendingOutcome marks a key whose batch is still running.
const pendingOutcome = "-"

// BatchOutcome is what a claimed batch produced. Retries with the same key
// are answered from it.
type BatchOutcome struct {
	Status    int    `json:"status"`
	Processed int    `json:"processed"`
	Error     string `json:"error,omitempty"`
}

// RedisDeduper keeps one entry per namespace and Idempotency-Key. The entry
// holds the batch outcome once the batch has finished.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) redisKey(userID, key string) string {
	return userID + ":" + dedupeKeyPrefix + ":" + key
}

// Claim reserves key. When it was claimed before, claimed is false and prior
// carries the recorded outcome, or nil while that batch is still pending.
func (r *RedisDeduper) Claim(ctx context.Context, userID, key string) (claimed bool, prior *BatchOutcome, err error) {
	rk := r.redisKey(userID, key)
	claimed, err = r.client.SetNX(ctx, rk, pendingOutcome, r.ttl).Result()
	if err != nil || claimed {
		return claimed, nil, err
	}
	raw, err := r.client.Get(ctx, rk).Result()
	if errors.Is(err, redis.Nil) || raw == pendingOutcome {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	var o BatchOutcome
	if err := sonic.UnmarshalString(raw, &o); err != nil {
		return false, nil, err
	}
	return false, &o, nil
}

// Record stores the outcome of a claimed batch and restarts its expiry.
func (r *RedisDeduper) Record(ctx context.Context, userID, key string, o BatchOutcome) error {
	raw, err := sonic.MarshalString(o)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.redisKey(userID, key), raw, r.ttl).Err()
}

// Release frees a claimed key. Only batches that changed nothing are released.
func (r *RedisDeduper) Release(ctx context.Context, userID, key string) error {
	return r.client.Del(ctx, r.redisKey(userID, key)).Err()
}
