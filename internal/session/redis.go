package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mingle/internal/domain"
)

// Redis is the default session backend: one key per token with a TTL,
// so expiry needs no background sweeping.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: "session", ttl: ttl}
}

func (r *Redis) key(token string) string {
	return fmt.Sprintf("%s:%s", r.prefix, token)
}

func (r *Redis) Create(ctx context.Context, userId domain.UserId) (string, error) {
	token := uuid.NewString()
	if err := r.client.Set(ctx, r.key(token), userId, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (r *Redis) User(ctx context.Context, token string) (domain.UserId, error) {
	val, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	userId, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session payload: %w", err)
	}
	return userId, nil
}

func (r *Redis) Destroy(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}
