package memory

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// Memory is a string key-value store. Values are opaque strings; callers
// own their encoding.
type Memory interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	SetTTL(ttl time.Duration)
}

// Provider names accepted by New.
const (
	ProviderInMemory = "inmemory"
	ProviderRedis    = "redis"
)
