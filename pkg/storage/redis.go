package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nhc-marketplace/storefront/pkg/redis"
)

type redisFields interface {
	GetField(ctx context.Context, sessionID, field string) (string, error)
	SetField(ctx context.Context, sessionID, field, value string, ttl time.Duration) error
	DeleteField(ctx context.Context, sessionID, field string) error
	DeleteWorkspace(ctx context.Context, sessionID string) error
}

// Redis stores each session as one hash so several BFF replicas share state.
type Redis struct {
	client redisFields
	ttl    time.Duration
}

// NewRedis wraps a connected client. ttl bounds how long an untouched session survives.
func NewRedis(client *redis.Client, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := r.client.GetField(ctx, sessionID, key)
	if errors.Is(err, redis.ErrNotFound) {
		return "", ErrNotFound
	}
	return value, err
}

func (r *Redis) Set(ctx context.Context, sessionID, key, value string) error {
	return r.client.SetField(ctx, sessionID, key, value, r.ttl)
}

func (r *Redis) Delete(ctx context.Context, sessionID, key string) error {
	return r.client.DeleteField(ctx, sessionID, key)
}

func (r *Redis) Purge(ctx context.Context, sessionID string) error {
	return r.client.DeleteWorkspace(ctx, sessionID)
}
