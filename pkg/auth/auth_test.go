package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/itsneelabh/storefront/pkg/auth"
)

// fakeStore keeps the registry in memory.
type fakeStore struct {
	users   []auth.User
	current *auth.User

	// failCurrent is returned once by the next SaveCurrentUser.
	failCurrent error
}

func (f *fakeStore) LoadUsers(ctx context.Context) ([]auth.User, error) {
	return append([]auth.User{}, f.users...), nil
}

func (f *fakeStore) SaveUsers(ctx context.Context, users []auth.User) error {
	f.users = append([]auth.User(nil), users...)
	return nil
}

func (f *fakeStore) LoadCurrentUser(ctx context.Context) (auth.User, bool, error) {
	if f.current == nil {
		return auth.User{}, false, nil
	}
	return *f.current, true, nil
}

func (f *fakeStore) SaveCurrentUser(ctx context.Context, user auth.User) error {
	if err := f.failCurrent; err != nil {
		f.failCurrent = nil
		return err
	}
	f.current = &user
	return nil
}

func (f *fakeStore) ClearCurrentUser(ctx context.Context) error {
	f.current = nil
	return nil
}

// mockStore is used where a store failure matters.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) LoadUsers(ctx context.Context) ([]auth.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]auth.User)
	return users, args.Error(1)
}

func (m *mockStore) SaveUsers(ctx context.Context, users []auth.User) error {
	return m.Called(ctx, users).Error(0)
}

func (m *mockStore) LoadCurrentUser(ctx context.Context) (auth.User, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(auth.User), args.Bool(1), args.Error(2)
}

func (m *mockStore) SaveCurrentUser(ctx context.Context, user auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockStore) ClearCurrentUser(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc := auth.NewService(store)

	user, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, auth.User{Username: "alice", Email: "a@x.com", Password: "secret1"}, user)

	assert.Len(t, store.users, 1)
	current, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user, current)
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc := auth.NewService(store)

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	_, err = svc.Register(ctx, "mallory", "a@x.com", "other12")
	assert.True(t, errors.Is(err, auth.ErrEmailTaken))
	assert.Len(t, store.users, 1, "no duplicate record")

	_, ok, _ := svc.Current(ctx)
	assert.False(t, ok, "failed registration does not sign in")

	_, err = svc.Register(ctx, "alice2", "A@x.com", "secret1")
	assert.NoError(t, err, "emails are case-sensitive")
	assert.Len(t, store.users, 2)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{users: []auth.User{{Username: "a", Email: "a@x.com", Password: "right"}}}
	svc := auth.NewService(store)

	_, err := svc.SignIn(ctx, "a@x.com", "wrong")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	assert.Nil(t, store.current)

	_, err = svc.SignIn(ctx, "b@x.com", "right")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	assert.Nil(t, store.current)

	user, err := svc.SignIn(ctx, "a@x.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "a", user.Username)
	require.NotNil(t, store.current)
	assert.Equal(t, "a@x.com", store.current.Email)
}

func TestSignIn_FailureKeepsExistingSession(t *testing.T) {
	ctx := context.Background()
	bob := auth.User{Username: "bob", Email: "b@x.com", Password: "pw"}
	store := &fakeStore{
		users:   []auth.User{{Username: "a", Email: "a@x.com", Password: "right"}, bob},
		current: &bob,
	}
	svc := auth.NewService(store)

	_, err := svc.SignIn(ctx, "a@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, bob, *store.current)
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc := auth.NewService(store)

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx))
	require.NoError(t, svc.SignOut(ctx))

	_, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, store.users, 1, "sign-out keeps the registry")
}

func TestBcryptHasher(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc := auth.NewService(store, auth.WithHasher(auth.Bcrypt{Cost: bcrypt.MinCost}))

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", store.users[0].Password)

	_, err = svc.SignIn(ctx, "a@x.com", "secret2")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))

	_, err = svc.SignIn(ctx, "a@x.com", "secret1")
	assert.NoError(t, err)
}

func TestRegister_StoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend down")

	t.Run("load fails", func(t *testing.T) {
		store := &mockStore{}
		store.On("LoadUsers", ctx).Return(nil, boom)

		_, err := auth.NewService(store).Register(ctx, "a", "a@x.com", "secret1")
		assert.True(t, errors.Is(err, boom))
		store.AssertNotCalled(t, "SaveUsers", mock.Anything, mock.Anything)
	})

	t.Run("save fails leaves session untouched", func(t *testing.T) {
		store := &mockStore{}
		store.On("LoadUsers", ctx).Return([]auth.User{}, nil)
		store.On("SaveUsers", ctx, mock.Anything).Return(boom)

		_, err := auth.NewService(store).Register(ctx, "a", "a@x.com", "secret1")
		assert.True(t, errors.Is(err, boom))
		store.AssertNotCalled(t, "SaveCurrentUser", mock.Anything, mock.Anything)
	})

	t.Run("current-user save fails leaves registry untouched", func(t *testing.T) {
		existing := []auth.User{{Username: "bob", Email: "b@x.com", Password: "hunter22"}}
		store := &mockStore{}
		store.On("LoadUsers", ctx).Return(existing, nil)
		store.On("SaveUsers", ctx, mock.Anything).Return(nil)
		store.On("SaveCurrentUser", ctx, mock.Anything).Return(boom)

		_, err := auth.NewService(store).Register(ctx, "a", "a@x.com", "secret1")
		assert.True(t, errors.Is(err, boom))

		var saved [][]auth.User
		for _, call := range store.Calls {
			if call.Method == "SaveUsers" {
				saved = append(saved, call.Arguments.Get(1).([]auth.User))
			}
		}
		require.Len(t, saved, 2)
		assert.Len(t, saved[0], 2)
		assert.Equal(t, existing, saved[1])
	})

	t.Run("retry after failed sign-in succeeds", func(t *testing.T) {
		store := &fakeStore{failCurrent: boom}
		svc := auth.NewService(store)

		_, err := svc.Register(ctx, "a", "a@x.com", "secret1")
		require.ErrorIs(t, err, boom)
		assert.Empty(t, store.users)
		assert.Nil(t, store.current)

		user, err := svc.Register(ctx, "a", "a@x.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, []auth.User{user}, store.users)
	})
}

func TestSignUpForm_Validate(t *testing.T) {
	valid := auth.SignUpForm{Username: "alice", Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"}

	tests := []struct {
		name string
		edit func(f *auth.SignUpForm)
		want error
	}{
		{"valid", func(f *auth.SignUpForm) {}, nil},
		{"missing username", func(f *auth.SignUpForm) { f.Username = "" }, auth.ErrMissingFields},
		{"blank confirm", func(f *auth.SignUpForm) { f.ConfirmPassword = "  " }, auth.ErrMissingFields},
		{"bad email", func(f *auth.SignUpForm) { f.Email = "alice" }, auth.ErrInvalidEmail},
		{"short password", func(f *auth.SignUpForm) { f.Password, f.ConfirmPassword = "abc", "abc" }, auth.ErrPasswordTooShort},
		{"short multi-byte password", func(f *auth.SignUpForm) { f.Password, f.ConfirmPassword = "ééé", "ééé" }, auth.ErrPasswordTooShort},
		{"six accented characters", func(f *auth.SignUpForm) { f.Password, f.ConfirmPassword = "éééééé", "éééééé" }, nil},
		{"astral characters count twice", func(f *auth.SignUpForm) { f.Password, f.ConfirmPassword = "😀😀😀", "😀😀😀" }, nil},
		{"mismatch", func(f *auth.SignUpForm) { f.ConfirmPassword = "secret2" }, auth.ErrPasswordsMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			err := f.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSignInForm(t *testing.T) {
	f := auth.SignInForm{Email: "  a@x.com ", Password: " right "}.Normalize()
	assert.Equal(t, "a@x.com", f.Email)
	assert.Equal(t, "right", f.Password)
	assert.NoError(t, f.Validate())

	assert.Equal(t, auth.ErrMissingFields, auth.SignInForm{Email: "a@x.com"}.Validate())
	assert.Equal(t, auth.ErrInvalidEmail, auth.SignInForm{Email: "nope", Password: "x"}.Validate())
}
