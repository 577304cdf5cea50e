package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/itsneelabh/storefront/pkg/logger"
)

// Service is the user registry plus the signed-in session.
type Service struct {
	store  Store
	hasher PasswordHasher
	logger logger.Logger
	mu     sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithHasher replaces the PlainText default.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		hasher: PlainText{},
		logger: logger.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends a new user and signs them in. Emails are compared
// exactly; a duplicate leaves the registry untouched. If the user cannot be
// signed in, the registry is restored.
func (s *Service) Register(ctx context.Context, username, email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return User{}, ErrEmailTaken
		}
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, err
	}

	user := User{Username: username, Email: email, Password: stored}
	if err := s.store.SaveUsers(ctx, append(users, user)); err != nil {
		return User{}, err
	}
	if err := s.store.SaveCurrentUser(ctx, user); err != nil {
		// Registration failed as a whole; take the new user back out.
		if rerr := s.store.SaveUsers(ctx, users); rerr != nil {
			s.logger.Error("Failed to roll back registry", "email", email, "error", rerr.Error())
		}
		return User{}, err
	}

	s.logger.Info("User registered", "email", email)
	return user, nil
}

// SignIn sets the current user when email and password both match. The
// current user is left alone on failure.
func (s *Service) SignIn(ctx context.Context, email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if s.hasher.Compare(u.Password, password) != nil {
			break
		}
		if err := s.store.SaveCurrentUser(ctx, u); err != nil {
			return User{}, err
		}
		s.logger.Info("User signed in", "email", email)
		return u, nil
	}

	s.logger.Debug("Sign-in rejected", "email", email)
	return User{}, ErrInvalidCredentials
}

// SignOut clears the current user.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.ClearCurrentUser(ctx)
}

// Current returns the signed-in user, if any.
func (s *Service) Current(ctx context.Context) (User, bool, error) {
	return s.store.LoadCurrentUser(ctx)
}
