package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisMemory implements Memory on top of Redis. Keys are stored as
// "namespace:key".
type RedisMemory struct {
	client     *redis.Client
	namespace  string
	defaultTTL time.Duration
	mu         sync.RWMutex
}

// NewRedisMemory connects to redisURL and verifies the connection with a ping.
func NewRedisMemory(redisURL, namespace string) (*RedisMemory, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisMemoryWithClient(client, namespace), nil
}

// NewRedisMemoryWithClient wraps an existing client. The default TTL is zero,
// so values never expire unless a TTL is given.
func NewRedisMemoryWithClient(client *redis.Client, namespace string) *RedisMemory {
	if namespace == "" {
		namespace = "storefront"
	}
	return &RedisMemory{
		client:    client,
		namespace: namespace,
	}
}

// Set stores value under key. A zero ttl falls back to the default TTL.
func (r *RedisMemory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	r.mu.RLock()
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	r.mu.RUnlock()

	if err := r.client.Set(ctx, r.buildKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Get retrieves the value for key, or ErrKeyNotFound.
func (r *RedisMemory) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, r.buildKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return data, nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *RedisMemory) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// SetTTL sets the default TTL for future writes
func (r *RedisMemory) SetTTL(ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultTTL = ttl
}

func (r *RedisMemory) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", r.namespace, key)
}

// Close closes the Redis connection
func (r *RedisMemory) Close() error {
	return r.client.Close()
}

// InMemoryStore is a process-local Memory, used for development and tests.
type InMemoryStore struct {
	data       map[string]valueWithExpiry
	defaultTTL time.Duration
	now        func() time.Time
	mu         sync.RWMutex
}

type valueWithExpiry struct {
	value  string
	expiry time.Time // zero means no expiry
}

func (v valueWithExpiry) expired(now time.Time) bool {
	return !v.expiry.IsZero() && now.After(v.expiry)
}

// NewInMemoryStore creates an empty store whose values never expire by default.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string]valueWithExpiry),
		now:  time.Now,
	}
}

// Set stores a key-value pair with TTL
func (m *InMemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl == 0 {
		ttl = m.defaultTTL
	}

	entry := valueWithExpiry{value: value}
	if ttl > 0 {
		entry.expiry = m.now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

// Get retrieves the value for key, or ErrKeyNotFound.
func (m *InMemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if entry.expired(m.now()) {
		delete(m.data, key)
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return entry.value, nil
}

// Delete removes a key
func (m *InMemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// SetTTL sets the default TTL
func (m *InMemoryStore) SetTTL(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultTTL = ttl
}

// New builds a Memory for the named provider.
func New(provider, redisURL, namespace string) (Memory, error) {
	switch provider {
	case "", ProviderInMemory:
		return NewInMemoryStore(), nil
	case ProviderRedis:
		if redisURL == "" {
			return nil, fmt.Errorf("redis provider requires a URL")
		}
		r, err := NewRedisMemory(redisURL, namespace)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown memory provider %q", provider)
	}
}
