package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itsneelabh/storefront/pkg/auth"
	"github.com/itsneelabh/storefront/pkg/cart"
	"github.com/itsneelabh/storefront/pkg/logger"
	"github.com/itsneelabh/storefront/pkg/memory"
)

// Adapter reads and writes the storefront's JSON values in a memory.Memory.
// Absent or undecodable values load as empty defaults.
type Adapter struct {
	mem         memory.Memory
	logger      logger.Logger
	onMalformed MalformedHandler
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMalformedHandler registers h for values that failed to decode.
func WithMalformedHandler(h MalformedHandler) Option {
	return func(a *Adapter) {
		a.onMalformed = h
	}
}

// NewAdapter creates an Adapter over mem.
func NewAdapter(mem memory.Memory, opts ...Option) *Adapter {
	a := &Adapter{
		mem:    mem,
		logger: logger.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadCart returns the persisted cart, or an empty cart.
func (a *Adapter) LoadCart(ctx context.Context) (cart.Cart, error) {
	var c cart.Cart
	if ok, err := a.load(ctx, KeyCart, &c); !ok {
		return cart.Cart{}, err
	}
	return c, nil
}

// SaveCart stores c under KeyCart.
func (a *Adapter) SaveCart(ctx context.Context, c cart.Cart) error {
	return a.save(ctx, KeyCart, c)
}

// LoadSavedForLater returns the saved-for-later list, or an empty list.
func (a *Adapter) LoadSavedForLater(ctx context.Context) (cart.Cart, error) {
	var c cart.Cart
	if ok, err := a.load(ctx, KeySavedForLater, &c); !ok {
		return cart.Cart{}, err
	}
	return c, nil
}

// SaveSavedForLater stores the saved-for-later list.
func (a *Adapter) SaveSavedForLater(ctx context.Context, c cart.Cart) error {
	return a.save(ctx, KeySavedForLater, c)
}

// LoadUsers returns the registry, or an empty registry.
func (a *Adapter) LoadUsers(ctx context.Context) ([]auth.User, error) {
	var users []auth.User
	if ok, err := a.load(ctx, KeyUsers, &users); !ok {
		return []auth.User{}, err
	}
	if users == nil {
		users = []auth.User{}
	}
	return users, nil
}

// SaveUsers stores the registry.
func (a *Adapter) SaveUsers(ctx context.Context, users []auth.User) error {
	if users == nil {
		users = []auth.User{}
	}
	return a.save(ctx, KeyUsers, users)
}

// LoadCurrentUser returns the signed-in user. A JSON null counts as absent.
func (a *Adapter) LoadCurrentUser(ctx context.Context) (auth.User, bool, error) {
	var user *auth.User
	if ok, err := a.load(ctx, KeyCurrentUser, &user); !ok {
		return auth.User{}, false, err
	}
	if user == nil {
		return auth.User{}, false, nil
	}
	return *user, true, nil
}

// SaveCurrentUser stores user as the signed-in user.
func (a *Adapter) SaveCurrentUser(ctx context.Context, user auth.User) error {
	return a.save(ctx, KeyCurrentUser, user)
}

// ClearCurrentUser removes the signed-in user.
func (a *Adapter) ClearCurrentUser(ctx context.Context) error {
	if err := a.mem.Delete(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, KeyCurrentUser, err)
	}
	return nil
}

// load decodes key into v and reports whether v holds a decoded value.
// When it does not, the caller must use its empty default, since a failed
// decode can leave v partially filled.
func (a *Adapter) load(ctx context.Context, key string, v interface{}) (bool, error) {
	raw, err := a.mem.Get(ctx, key)
	if err != nil {
		if errors.Is(err, memory.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s: %v", ErrReadFailed, key, err)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		a.logger.Warn("Discarding malformed persisted value",
			"key", key,
			"error", err.Error())
		if a.onMalformed != nil {
			a.onMalformed(key, fmt.Errorf("%w: %s: %v", ErrReadMalformed, key, err))
		}
		return false, nil
	}
	return true, nil
}

func (a *Adapter) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	if err := a.mem.Set(ctx, key, string(data), 0); err != nil {
		a.logger.Error("Failed to persist value", "key", key, "error", err.Error())
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	a.logger.Debug("Persisted value", "key", key, "bytes", len(data))
	return nil
}
