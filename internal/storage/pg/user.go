package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"mingle/internal/domain"
	internal_errors "mingle/internal/errors"
)

const pqUniqueViolation = "23505"

// SaveUser inserts a new user and returns its id. When the unique index on
// usernames exists, a duplicate insert comes back as a 409.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id domain.UserId
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		user.Username, user.Email, user.PassHash, now(),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Username already taken", StatusCode: http.StatusConflict}
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created
		FROM users WHERE id = $1`, id))
}

// UserByName fetches a user for login. With uniqueness disabled several rows
// may share a username; the oldest account wins.
func (s *Storage) UserByName(ctx context.Context, username domain.Username) (domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created
		FROM users WHERE username = $1
		ORDER BY id LIMIT 1`, username))
}

// Users returns every registered user except the excluded one,
// ordered by username.
func (s *Storage) Users(ctx context.Context, exclude domain.UserId) ([]domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, password_hash, created
		FROM users WHERE id != $1
		ORDER BY username, id`, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Id, &u.Username, &u.Email, &u.PassHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Id, &u.Username, &u.Email, &u.PassHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}
