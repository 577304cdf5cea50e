// Package memory provides the string key-value store behind all storefront
// persistence.
//
// The package keeps storage concerns out of the cart and auth packages:
// callers encode their own values and hand the store opaque strings.
//
// # Memory Interface
//
// The Memory interface defines the contract for all storage implementations:
//
//	type Memory interface {
//	    Set(ctx context.Context, key, value string, ttl time.Duration) error
//	    Get(ctx context.Context, key string) (string, error)
//	    Delete(ctx context.Context, key string) error
//	    SetTTL(ttl time.Duration)
//	}
//
// Contract:
//   - Get returns an error wrapping ErrKeyNotFound for missing or expired keys
//   - any other Get error is a backend failure, never "absent"
//   - Set overwrites; the last write wins
//   - a zero ttl on Set falls back to the default set by SetTTL
//   - a default of zero means values never expire
//   - Delete of an absent key is not an error
//
// Invariants:
//   - a value read back is byte-identical to the value written
//   - keys are never interpreted; "cart" and "Cart" are different keys
//   - all methods are safe for concurrent use
//
// # Backend Implementations
//
// In-Memory Backend (Local):
//   - process-local map guarded by a RWMutex
//   - expiry is checked lazily on Get against an injectable clock
//   - no external dependencies
//   - the default for development and tests
//
// Redis Backend (Shared):
//   - survives process restarts
//   - keys are namespaced as "namespace:key"
//   - expiry is delegated to Redis
//   - Close releases the connection pool
//
// New picks a backend by provider name:
//
//	mem, err := memory.New(memory.ProviderRedis, "redis://localhost:6379", "storefront")
//	if err != nil {
//	    return err
//	}
//
// # Usage Patterns
//
// Telling a missing key apart from a failing backend:
//
//	raw, err := mem.Get(ctx, "cart")
//	switch {
//	case errors.Is(err, memory.ErrKeyNotFound):
//	    // first visit, start empty
//	case err != nil:
//	    return err
//	}
//
// Writing with an explicit expiry:
//
//	err := mem.Set(ctx, "savedForLater", raw, 30*24*time.Hour)
//
// # Key Namespacing
//
// The storefront uses a handful of fixed keys:
//   - Cart contents: "cart"
//   - User registry: "users"
//   - Signed-in user: "currentUser"
//   - Saved items: "savedForLater"
//
// Run several storefronts against one Redis by giving each its own namespace.
package memory
