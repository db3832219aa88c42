// Package memory implements the identity and resource stores on in-memory
// tables. It backs tests and local development runs without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/resource"
)

// Store holds every table behind one lock. All methods are safe for
// concurrent use.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	now    func() time.Time

	users    []auth.User
	tokens   []auth.APIToken
	tags     []resource.Tag
	settings []resource.UserSetting
	clients  []resource.APIClient
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

// NewStore builds an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// AddUser seeds a user row and returns it with id and timestamps set.
func (s *Store) AddUser(u auth.User) auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.allocID()
	now := s.now()
	u.Created, u.Updated = now, now
	s.users = append(s.users, u)
	return u
}

// AddToken seeds a token row and returns it with an id set.
func (s *Store) AddToken(t auth.APIToken) auth.APIToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	if t.Created.IsZero() {
		t.Created = s.now()
	}
	s.tokens = append(s.tokens, t)
	return t
}

// AddAPIClient seeds a client row and returns it with an id set.
func (s *Store) AddAPIClient(c resource.APIClient) resource.APIClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	if c.Created.IsZero() {
		c.Created = s.now()
	}
	s.clients = append(s.clients, c)
	return c
}

// UserByUsername implements auth.IdentityStore.
func (s *Store) UserByUsername(_ context.Context, username string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, auth.ErrNotFound
}

// UserByID implements auth.IdentityStore.
func (s *Store) UserByID(_ context.Context, id int64) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, auth.ErrNotFound
}

// TokenByValue implements auth.IdentityStore.
func (s *Store) TokenByValue(_ context.Context, value string) (*auth.APIToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tokens {
		if s.tokens[i].Token == value {
			t := s.tokens[i]
			return &t, nil
		}
	}
	return nil, auth.ErrNotFound
}

// CreateToken implements auth.IdentityStore.
func (s *Store) CreateToken(_ context.Context, token *auth.APIToken) (*auth.APIToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *token
	t.ID = s.allocID()
	if t.Created.IsZero() {
		t.Created = s.now()
	}
	s.tokens = append(s.tokens, t)
	out := t
	return &out, nil
}

// UpdateToken implements auth.IdentityStore.
func (s *Store) UpdateToken(_ context.Context, token *auth.APIToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tokens {
		if s.tokens[i].ID == token.ID {
			s.tokens[i] = *token
			return nil
		}
	}
	return auth.ErrNotFound
}

// DeleteToken implements auth.IdentityStore.
func (s *Store) DeleteToken(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tokens {
		if s.tokens[i].ID == id {
			s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
			return nil
		}
	}
	return auth.ErrNotFound
}

// UpdatePassword implements auth.IdentityStore.
func (s *Store) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].PasswordHash = passwordHash
			s.users[i].Updated = s.now()
			return nil
		}
	}
	return auth.ErrNotFound
}

// For implements resource.Store: it binds one manager per resource type,
// all scoped to the given user.
func (s *Store) For(user *auth.User) *resource.Context {
	c := resource.NewContext(user)
	c.Bind("users", newUserManager(s, user))
	c.Bind("tags", newTagManager(s, user))
	c.Bind("user_settings", newUserSettingManager(s, user))
	c.Bind("api_clients", newAPIClientManager(s, user))
	c.Bind("api_tokens", newAPITokenManager(s, user))
	return c
}
