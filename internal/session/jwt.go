package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mingle/internal/domain"
)

// JWT is the stateless backend: the token itself carries the signed user id,
// so no store lookup happens on each request. Logout only clears the cookie;
// an exfiltrated token stays valid until it expires. Pick redis when that
// trade-off is unacceptable.
type JWT struct {
	secret []byte
	ttl    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl}
}

func (j *JWT) Create(_ context.Context, userId domain.UserId) (string, error) {
	claims := jwt.MapClaims{
		"uid": userId,
		"exp": time.Now().Add(j.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (j *JWT) User(_ context.Context, token string) (domain.UserId, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrNotFound
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrNotFound
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrNotFound
	}
	return int64(uid), nil
}

func (j *JWT) Destroy(_ context.Context, _ string) error {
	// Stateless tokens can't be revoked server-side.
	return nil
}
