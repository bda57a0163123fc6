package service

import (
	"context"
	"strings"

	"mingle/internal/domain"
	"mingle/internal/errors"
)

type ChatService interface {
	Conversation(ctx context.Context, viewerId, peerId domain.UserId) (*domain.Conversation, error)
	SendMessage(ctx context.Context, senderId, peerId domain.UserId, text string) (domain.MessageId, error)
}

type Chat struct {
	storage ChatStorage
}

type ChatStorage interface {
	User(ctx context.Context, id domain.UserId) (domain.User, error)
	Conversation(ctx context.Context, a, b domain.UserId) ([]*domain.Message, error)
	CreateMessage(ctx context.Context, senderId, recipientId domain.UserId, text string) (domain.MessageId, error)
}

func NewChat(storage ChatStorage) *Chat {
	return &Chat{storage: storage}
}

// Conversation loads the bidirectional history with a peer. An unresolved
// peer surfaces as a 404 the handler absorbs into a redirect home.
func (c *Chat) Conversation(ctx context.Context, viewerId, peerId domain.UserId) (*domain.Conversation, error) {
	viewer, err := c.storage.User(ctx, viewerId)
	if err != nil {
		return nil, err
	}
	peer, err := c.storage.User(ctx, peerId)
	if err != nil {
		return nil, err
	}

	messages, err := c.storage.Conversation(ctx, viewerId, peerId)
	if err != nil {
		return nil, err
	}
	return &domain.Conversation{Viewer: viewer, Peer: peer, Messages: messages}, nil
}

// SendMessage appends a message to the conversation. Empty content and an
// unresolved recipient are both no-ops from the user's point of view.
func (c *Chat) SendMessage(ctx context.Context, senderId, peerId domain.UserId, text string) (domain.MessageId, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.ErrEmptyContent
	}

	if _, err := c.storage.User(ctx, peerId); err != nil {
		return 0, err
	}
	return c.storage.CreateMessage(ctx, senderId, peerId, text)
}
