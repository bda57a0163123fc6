package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mingle/internal/domain"
)

type memoryEntry struct {
	userId  domain.UserId
	expires time.Time
}

// Memory keeps sessions in-process. Used in tests and single-node dev
// setups; sessions do not survive a restart.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time // swapped in tests
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Create(_ context.Context, userId domain.UserId) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	m.entries[token] = memoryEntry{userId: userId, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return token, nil
}

func (m *Memory) User(_ context.Context, token string) (domain.UserId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[token]
	if !ok {
		return 0, ErrNotFound
	}
	if m.now().After(entry.expires) {
		delete(m.entries, token)
		return 0, ErrNotFound
	}
	return entry.userId, nil
}

func (m *Memory) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
	return nil
}
