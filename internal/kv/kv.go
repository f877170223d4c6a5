package kv

import (
	"context"
	"errors"
	"time"
)

// Store is the ephemeral persistence backend for sessions and carts.
// Implemented by RedisStore in production and MemoryStore in tests.
// Connect must be safe to call more than once.
type Store interface {
	Connect(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

var ErrKeyNotFound = errors.New("key not found")
