package service

import (
	"context"
	"strings"

	"mingle/internal/domain"
	"mingle/internal/errors"
)

type CommentService interface {
	CreateComment(ctx context.Context, authorId domain.UserId, postId domain.PostId, text string) (domain.CommentId, error)
}

type Comment struct {
	storage CommentStorage
}

type CommentStorage interface {
	Post(ctx context.Context, id domain.PostId) (domain.Post, error)
	CreateComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, text string) (domain.CommentId, error)
}

func NewComment(storage CommentStorage) *Comment {
	return &Comment{storage: storage}
}

// CreateComment checks the parent post exists before writing; an unresolved
// post id surfaces as a 404 the handler absorbs into a redirect.
func (c *Comment) CreateComment(ctx context.Context, authorId domain.UserId, postId domain.PostId, text string) (domain.CommentId, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.ErrEmptyContent
	}

	if _, err := c.storage.Post(ctx, postId); err != nil {
		return 0, err
	}
	return c.storage.CreateComment(ctx, postId, authorId, text)
}
