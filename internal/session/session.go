// Package session maps opaque client-held tokens to authenticated user ids.
// The token is the only thing the browser holds; the payload is the user id.
package session

import (
	"context"
	"errors"

	"mingle/internal/domain"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	// Create issues a new token bound to userId.
	Create(ctx context.Context, userId domain.UserId) (string, error)
	// User resolves a token to the user id it was bound to.
	// Returns ErrNotFound for unknown, expired or destroyed tokens.
	User(ctx context.Context, token string) (domain.UserId, error)
	// Destroy invalidates a token. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}
