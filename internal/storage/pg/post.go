package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"mingle/internal/domain"
	internal_errors "mingle/internal/errors"
)

func (s *Storage) CreatePost(ctx context.Context, authorId domain.UserId, text string) (domain.PostId, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id domain.PostId
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (author_id, text, created)
		VALUES ($1, $2, $3)
		RETURNING id`,
		authorId, text, now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

func (s *Storage) Post(ctx context.Context, id domain.PostId) (domain.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p domain.Post
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.text, p.created, u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`, id,
	).Scan(&p.Id, &p.Text, &p.CreatedAt, &p.Author.Id, &p.Author.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return p, nil
}

// Posts returns posts newest first, joined with author identity.
// limit/offset implement feed pagination.
func (s *Storage) Posts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.text, p.created, u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created DESC, p.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.Id, &p.Text, &p.CreatedAt, &p.Author.Id, &p.Author.Username); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}
