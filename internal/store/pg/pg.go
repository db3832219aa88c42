// Package pg implements the identity and resource stores on PostgreSQL.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"myrest.org/internal/auth"
	"myrest.org/internal/resource"
)

// Store holds the database handle shared by every manager.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to PostgreSQL through the pgx stdlib driver and verifies
// the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return NewStore(db, opts...), nil
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// For implements resource.Store.
func (s *Store) For(user *auth.User) *resource.Context {
	c := resource.NewContext(user)
	c.Bind("users", newManager(s, user, userSpec))
	c.Bind("tags", newManager(s, user, tagSpec))
	c.Bind("user_settings", newManager(s, user, userSettingSpec))
	c.Bind("api_clients", newManager(s, user, apiClientSpec))
	c.Bind("api_tokens", newManager(s, user, apiTokenSpec))
	return c
}
