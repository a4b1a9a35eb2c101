package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// Redis stores each record as a plain string key under a shared prefix.
// Records never expire.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// OpenRedis connects to addr and verifies the server answers PING.
func OpenRedis(ctx context.Context, addr, password string, dbIndex int, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("store.OpenRedis: ping: %w", err)
	}
	return NewRedis(rdb, prefix), nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("store.Redis.Get %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.Redis.Get %s: %w", key, err)
	}
	return b, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("store.Redis.Put %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("store.Redis.Delete %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
