package rds

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by KV.Get when the key does not exist
var ErrMiss = errors.New("store: cache miss")

// Cmdable is the slice of the go-redis client KV needs
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

var _ Cmdable = (*redis.Client)(nil)

// KV is a byte cache over redis; keys and ttls go through untouched
type KV struct {
	c Cmdable
}

// NewKV wraps a client
func NewKV(c Cmdable) *KV { return &KV{c: c} }

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := k.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (k *KV) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return k.c.Set(ctx, key, val, ttl).Err()
}

func (k *KV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return k.c.Del(ctx, keys...).Err()
}

func (k *KV) Ping(ctx context.Context) error { return k.c.Ping(ctx).Err() }

func (k *KV) Close() error { return k.c.Close() }
