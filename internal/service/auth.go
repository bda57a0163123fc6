package service

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"mingle/internal/config"
	"mingle/internal/domain"
	"mingle/internal/errors"
	"mingle/internal/logger"
)

type AuthService interface {
	Register(ctx context.Context, creds domain.Credentials) (domain.User, error)
	Login(ctx context.Context, username domain.Username, password domain.Password) (domain.User, error)
}

type Auth struct {
	storage AuthStorage
	cfg     config.Auth
}

type AuthStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.UserId, error)
	UserByName(ctx context.Context, username domain.Username) (domain.User, error)
}

func NewAuth(storage AuthStorage, cfg config.Auth) *Auth {
	return &Auth{storage: storage, cfg: cfg}
}

// Register hashes the secret and persists a new user. Uniqueness is a
// configurable invariant: when enabled it is checked here and backed by the
// unique index, when disabled duplicate usernames are allowed.
func (a *Auth) Register(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	username := strings.TrimSpace(creds.Username)
	email := strings.TrimSpace(creds.Email)

	if username == "" || creds.Password == "" {
		return domain.User{}, &errors.ErrorWithStatusCode{Message: "Username and password are required", StatusCode: http.StatusBadRequest}
	}
	if a.cfg.RequireEmail && email == "" {
		return domain.User{}, &errors.ErrorWithStatusCode{Message: "Email is required", StatusCode: http.StatusBadRequest}
	}

	if a.cfg.UsernamesUnique() {
		_, err := a.storage.UserByName(ctx, username)
		if err == nil {
			return domain.User{}, &errors.ErrorWithStatusCode{Message: "Username already taken", StatusCode: http.StatusConflict}
		}
		if !errors.IsNotFound(err) {
			return domain.User{}, err
		}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	user := domain.User{Username: username, Email: email, PassHash: string(passHash)}
	id, err := a.storage.SaveUser(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	user.Id = id
	return user, nil
}

// Login checks that a user with the given username exists and that the
// password matches the stored hash. Both failure modes report the same
// message to not leak which usernames are registered.
func (a *Auth) Login(ctx context.Context, username domain.Username, password domain.Password) (domain.User, error) {
	user, err := a.storage.UserByName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return domain.User{}, &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}
	return user, nil
}
