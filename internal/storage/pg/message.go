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

func (s *Storage) CreateMessage(ctx context.Context, senderId, recipientId domain.UserId, text string) (domain.MessageId, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id domain.MessageId
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, recipient_id, text, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		senderId, recipientId, text, now(),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Recipient not found", StatusCode: http.StatusNotFound}
		}
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}
	return id, nil
}

// Conversation returns the full message history between two users, oldest
// first, joined with sender and recipient identity. The pair is symmetric:
// Conversation(a, b) and Conversation(b, a) return the identical set.
func (s *Storage) Conversation(ctx context.Context, a, b domain.UserId) ([]*domain.Message, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.text, m.created,
		       snd.id, snd.username,
		       rcp.id, rcp.username
		FROM messages m
		JOIN users snd ON snd.id = m.sender_id
		JOIN users rcp ON rcp.id = m.recipient_id
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
		   OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created, m.id`, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Id, &m.Text, &m.CreatedAt,
			&m.Sender.Id, &m.Sender.Username,
			&m.Recipient.Id, &m.Recipient.Username); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
