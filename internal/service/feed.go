package service

import (
	"context"
	"strings"

	"mingle/internal/domain"
	"mingle/internal/errors"
)

type FeedService interface {
	Feed(ctx context.Context, viewerId domain.UserId, page int) (*domain.Feed, error)
	CreatePost(ctx context.Context, authorId domain.UserId, text string) (domain.PostId, error)
}

type Feed struct {
	storage  FeedStorage
	pageSize int
}

type FeedStorage interface {
	User(ctx context.Context, id domain.UserId) (domain.User, error)
	Users(ctx context.Context, exclude domain.UserId) ([]domain.User, error)
	Posts(ctx context.Context, limit, offset int) ([]*domain.Post, error)
	CommentsByPost(ctx context.Context, postIds []domain.PostId) ([]*domain.Comment, error)
	CreatePost(ctx context.Context, authorId domain.UserId, text string) (domain.PostId, error)
}

func NewFeed(storage FeedStorage, pageSize int) *Feed {
	return &Feed{storage: storage, pageSize: pageSize}
}

// Feed assembles the composite index view: the viewer, every other user,
// one page of posts newest first, and each post's comments oldest first.
func (f *Feed) Feed(ctx context.Context, viewerId domain.UserId, page int) (*domain.Feed, error) {
	if page < 1 {
		page = 1
	}

	viewer, err := f.storage.User(ctx, viewerId)
	if err != nil {
		return nil, err
	}
	others, err := f.storage.Users(ctx, viewerId)
	if err != nil {
		return nil, err
	}

	// Fetch one extra row to learn whether a next page exists.
	posts, err := f.storage.Posts(ctx, f.pageSize+1, (page-1)*f.pageSize)
	if err != nil {
		return nil, err
	}
	hasMore := len(posts) > f.pageSize
	if hasMore {
		posts = posts[:f.pageSize]
	}

	if err := f.attachComments(ctx, posts); err != nil {
		return nil, err
	}

	return &domain.Feed{
		Viewer:  viewer,
		Others:  others,
		Posts:   posts,
		Page:    page,
		HasMore: hasMore,
	}, nil
}

func (f *Feed) attachComments(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byId := make(map[domain.PostId]*domain.Post, len(posts))
	postIds := make([]domain.PostId, 0, len(posts))
	for _, p := range posts {
		byId[p.Id] = p
		postIds = append(postIds, p.Id)
	}

	comments, err := f.storage.CommentsByPost(ctx, postIds)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if p, ok := byId[c.PostId]; ok {
			p.Comments = append(p.Comments, c)
		}
	}
	return nil
}

// CreatePost persists a post with a server-assigned timestamp.
// Empty content after trimming is skipped, not an error page.
func (f *Feed) CreatePost(ctx context.Context, authorId domain.UserId, text string) (domain.PostId, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.ErrEmptyContent
	}
	return f.storage.CreatePost(ctx, authorId, text)
}
