package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps each document in a hash: data, content_type, updated_at.
type Redis struct {
	rdb    redis.Cmdable
	prefix string
}

// NewRedis wraps a client. Keys are stored as prefix+key.
func NewRedis(rdb redis.Cmdable, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// OpenRedis parses the URL and verifies connectivity.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("blob redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("blob redis: ping: %w", err)
	}
	return rdb, nil
}

func (s *Redis) Name() string { return "redis" }

func (s *Redis) Get(ctx context.Context, key string) (Object, error) {
	vals, err := s.rdb.HMGet(ctx, s.prefix+key, "data", "content_type", "updated_at").Result()
	if errors.Is(err, redis.Nil) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, fmt.Errorf("blob redis: get %s: %w", key, err)
	}
	data, ok := vals[0].(string)
	if !ok {
		return Object{}, ErrNotFound
	}

	obj := Object{Data: []byte(data)}
	if ct, ok := vals[1].(string); ok {
		obj.ContentType = ct
	}
	if ts, ok := vals[2].(string); ok {
		obj.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return obj, nil
}

func (s *Redis) Put(ctx context.Context, key string, obj Object) error {
	updated := obj.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	err := s.rdb.HSet(ctx, s.prefix+key,
		"data", obj.Data,
		"content_type", obj.ContentType,
		"updated_at", updated.UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("blob redis: put %s: %w", key, err)
	}
	return nil
}
