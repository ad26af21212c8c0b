package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper answers whether an event key is being seen for the first time.
// It is a best-effort backstop in front of the status-guarded payment
// updates, which stay correct without it.
type Deduper interface {
	// FirstSeen returns true if the key was not seen before and records it.
	FirstSeen(ctx context.Context, key string) (bool, error)

	// Forget releases a recorded key so a later delivery counts as first
	// seen again.
	Forget(ctx context.Context, key string) error
}

// redisDeduper implements Deduper with SET NX and a TTL.
type redisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a Redis-backed deduper. Keys expire after ttl,
// which only needs to outlive the provider's webhook retry window.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) Deduper {
	return &redisDeduper{client: client, ttl: ttl}
}

func (d *redisDeduper) FirstSeen(ctx context.Context, key string) (bool, error) {
	return d.client.SetNX(ctx, key, 1, d.ttl).Result()
}

func (d *redisDeduper) Forget(ctx context.Context, key string) error {
	return d.client.Del(ctx, key).Err()
}

// NopDeduper treats every key as first seen. Used when Redis is disabled.
type NopDeduper struct{}

func (NopDeduper) FirstSeen(context.Context, string) (bool, error) {
	return true, nil
}

func (NopDeduper) Forget(context.Context, string) error {
	return nil
}
