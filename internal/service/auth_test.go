package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mingle/internal/config"
	"mingle/internal/domain"
	internal_errors "mingle/internal/errors"
)

type MockAuthStorage struct {
	MockSaveUser   func(user domain.User) (domain.UserId, error)
	MockUserByName func(username domain.Username) (domain.User, error)
}

func (m *MockAuthStorage) SaveUser(_ context.Context, user domain.User) (domain.UserId, error) {
	if m.MockSaveUser != nil {
		return m.MockSaveUser(user)
	}
	return 1, nil
}

func (m *MockAuthStorage) UserByName(_ context.Context, username domain.Username) (domain.User, error) {
	if m.MockUserByName != nil {
		return m.MockUserByName(username)
	}
	return domain.User{}, notFoundErr("User not found")
}

func notFoundErr(msg string) error {
	return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: http.StatusNotFound}
}

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password", func(t *testing.T) {
		var saved domain.User
		storage := &MockAuthStorage{
			MockSaveUser: func(user domain.User) (domain.UserId, error) {
				saved = user
				return 7, nil
			},
		}
		auth := NewAuth(storage, config.Auth{})

		user, err := auth.Register(ctx, domain.Credentials{Username: "  alice  ", Password: "pw1"})
		require.NoError(t, err)

		assert.Equal(t, int64(7), user.Id)
		assert.Equal(t, "alice", saved.Username)
		assert.NotEqual(t, "pw1", saved.PassHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PassHash), []byte("pw1")))
	})

	t.Run("missing username or password", func(t *testing.T) {
		saveCalled := false
		storage := &MockAuthStorage{
			MockSaveUser: func(domain.User) (domain.UserId, error) {
				saveCalled = true
				return 0, nil
			},
		}
		auth := NewAuth(storage, config.Auth{})

		for _, creds := range []domain.Credentials{
			{Username: "", Password: "pw"},
			{Username: "   ", Password: "pw"},
			{Username: "alice", Password: ""},
		} {
			_, err := auth.Register(ctx, creds)
			assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
		}
		assert.False(t, saveCalled)
	})

	t.Run("email required in the email variant", func(t *testing.T) {
		auth := NewAuth(&MockAuthStorage{}, config.Auth{RequireEmail: true})

		_, err := auth.Register(ctx, domain.Credentials{Username: "alice", Password: "pw"})
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))

		_, err = auth.Register(ctx, domain.Credentials{Username: "alice", Email: "alice@example.com", Password: "pw"})
		assert.NoError(t, err)
	})

	t.Run("conflict when username taken", func(t *testing.T) {
		storage := &MockAuthStorage{
			MockUserByName: func(domain.Username) (domain.User, error) {
				return domain.User{Id: 1, Username: "alice"}, nil
			},
		}
		auth := NewAuth(storage, config.Auth{})

		_, err := auth.Register(ctx, domain.Credentials{Username: "alice", Password: "pw"})
		assert.True(t, internal_errors.IsConflict(err))
	})

	t.Run("duplicates allowed when uniqueness disabled", func(t *testing.T) {
		unique := false
		lookupCalled := false
		storage := &MockAuthStorage{
			MockUserByName: func(domain.Username) (domain.User, error) {
				lookupCalled = true
				return domain.User{Id: 1, Username: "alice"}, nil
			},
		}
		auth := NewAuth(storage, config.Auth{UniqueUsernames: &unique})

		_, err := auth.Register(ctx, domain.Credentials{Username: "alice", Password: "pw"})
		assert.NoError(t, err)
		assert.False(t, lookupCalled)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		storage := &MockAuthStorage{
			MockSaveUser: func(domain.User) (domain.UserId, error) {
				return 0, assert.AnError
			},
		}
		auth := NewAuth(storage, config.Auth{})

		_, err := auth.Register(ctx, domain.Credentials{Username: "alice", Password: "pw"})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	alice := domain.User{Id: 1, Username: "alice", PassHash: string(hash)}

	storage := &MockAuthStorage{
		MockUserByName: func(username domain.Username) (domain.User, error) {
			if username == "alice" {
				return alice, nil
			}
			return domain.User{}, notFoundErr("User not found")
		},
	}
	auth := NewAuth(storage, config.Auth{})

	t.Run("success", func(t *testing.T) {
		user, err := auth.Login(ctx, "alice", "pw1")
		require.NoError(t, err)
		assert.Equal(t, alice.Id, user.Id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "alice", "pw2")
		assert.True(t, internal_errors.IsUnauthorized(err))
	})

	t.Run("unknown user reports the same message", func(t *testing.T) {
		_, err := auth.Login(ctx, "mallory", "pw1")
		assert.True(t, internal_errors.IsUnauthorized(err))
		assert.EqualError(t, err, "Invalid credentials")
	})
}
