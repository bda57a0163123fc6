package pg

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"mingle/internal/domain"
	internal_errors "mingle/internal/errors"
)

const pqForeignKeyViolation = "23503"

// CreateComment inserts a comment. The service layer checks the post exists
// beforehand; the foreign key is the backstop for the race where the check
// passes but the post vanishes before the insert.
func (s *Storage) CreateComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, text string) (domain.CommentId, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id domain.CommentId
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_id, text, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		postId, authorId, text, now(),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
		}
		return 0, fmt.Errorf("failed to insert comment: %w", err)
	}
	return id, nil
}

// CommentsByPost returns all comments for the given posts, oldest first,
// joined with author identity.
func (s *Storage) CommentsByPost(ctx context.Context, postIds []domain.PostId) ([]*domain.Comment, error) {
	if len(postIds) == 0 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.text, c.created, u.id, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created, c.id`, pq.Array(postIds))
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.Id, &c.PostId, &c.Text, &c.CreatedAt, &c.Author.Id, &c.Author.Username); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
