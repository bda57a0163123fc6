package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"mingle/internal/config"
	"mingle/internal/logger"
)

// opTimeout bounds every storage operation so a stalled database
// doesn't hold a request open forever.
const opTimeout = 5 * time.Second

type Storage struct {
	db *sql.DB
}

func New(cfg config.Pg) (*Storage, error) {
	logger.Log.Info("connecting to db")
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	logger.Log.Info("connected to db")
	return &Storage{db: db}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Bootstrap creates the schema if it does not exist. The unique index on
// usernames is only created when uniqueness is enforced at the store level.
func (s *Storage) Bootstrap(ctx context.Context, uniqueUsernames bool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			username      TEXT NOT NULL,
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS users_username_idx ON users (username)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id        BIGSERIAL PRIMARY KEY,
			author_id BIGINT NOT NULL REFERENCES users (id),
			text      TEXT NOT NULL,
			created   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS posts_created_idx ON posts (created DESC, id DESC)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id        BIGSERIAL PRIMARY KEY,
			post_id   BIGINT NOT NULL REFERENCES posts (id),
			author_id BIGINT NOT NULL REFERENCES users (id),
			text      TEXT NOT NULL,
			created   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id, created, id)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id           BIGSERIAL PRIMARY KEY,
			sender_id    BIGINT NOT NULL REFERENCES users (id),
			recipient_id BIGINT NOT NULL REFERENCES users (id),
			text         TEXT NOT NULL,
			created      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS messages_pair_idx ON messages (sender_id, recipient_id, created, id)`,
	}
	if uniqueUsernames {
		statements = append(statements, `CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (username)`)
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}

// now produces the server-assigned creation timestamp.
// Postgres rounds to microseconds anyway, so round here for stable equality.
func now() time.Time {
	return time.Now().UTC().Round(time.Microsecond)
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
