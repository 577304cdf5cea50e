package auth

import (
	"context"
	"errors"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is a registry entry. Email is the unique key, matched exactly.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Store persists the registry and the current-user pointer.
//
// Contract:
//   - LoadUsers returns an empty slice, not an error, when nothing is stored
//   - LoadCurrentUser reports ok=false when no user is signed in
//   - ClearCurrentUser is idempotent
type Store interface {
	LoadUsers(ctx context.Context) ([]User, error)
	SaveUsers(ctx context.Context, users []User) error
	LoadCurrentUser(ctx context.Context) (User, bool, error)
	SaveCurrentUser(ctx context.Context, user User) error
	ClearCurrentUser(ctx context.Context) error
}

// PasswordHasher turns a password into its stored form and checks a
// candidate against it. Compare returns nil on a match.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(stored, candidate string) error
}
