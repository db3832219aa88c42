package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultSessionTTL = time.Hour
	defaultRefreshTTL = time.Hour

	sessionTitlePrefix = "Session started "
)

// Service implements the session lifecycle: login, logout, refresh, and
// password resets. Tokens it creates are session tokens with no owning
// client, granted the full scope catalog.
type Service struct {
	store IdentityStore
	now   func() time.Time

	sessionTTL  time.Duration
	refreshTTL  time.Duration
	resetSecret []byte
	resetTTL    time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceClock overrides the time source, mainly for tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL sets the lifetime of tokens created at login.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithRefreshTTL sets the extension granted by a refresh.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithResetSecret sets the HMAC key and lifetime for password reset tokens.
func WithResetSecret(secret string, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.resetSecret = []byte(secret)
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// NewService builds a session service over the given store.
func NewService(store IdentityStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:      store,
		now:        time.Now,
		sessionTTL: defaultSessionTTL,
		refreshTTL: defaultRefreshTTL,
		resetTTL:   15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credentials are the fields a caller presents at login. SecondFactor is
// required exactly when the account has one configured. Title, when set,
// replaces the default timestamped session title.
type Credentials struct {
	Username     string
	Password     string
	SecondFactor *string
	Title        string
}

// Login verifies the credentials and creates a session token. Wrong
// passwords, missing or wrong second factors, unknown users, and service
// accounts are all rejected with the same error.
func (s *Service) Login(ctx context.Context, creds Credentials) (*APIToken, error) {
	user, err := s.store.UserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}
	if !verifySecondFactor(user.SecondFactor, creds.SecondFactor) {
		return nil, ErrInvalidCredentials
	}
	if user.Role == RoleService {
		return nil, ErrInvalidCredentials
	}

	value, err := NewTokenValue()
	if err != nil {
		return nil, err
	}
	now := s.now()
	title := creds.Title
	if title == "" {
		title = sessionTitlePrefix + now.UTC().Format(time.RFC3339)
	}
	token := &APIToken{
		Created: now,
		Expires: now.Add(s.sessionTTL),
		UserID:  user.ID,
		Title:   title,
		Token:   value,
		Enabled: true,
		Scopes:  ScopeCatalog(),
	}
	return s.store.CreateToken(ctx, token)
}

// Logout deletes the session token behind the resolved request.
func (s *Service) Logout(ctx context.Context, r ResolvedAuth) error {
	if !r.Present() {
		return ErrAuthorizationFailed
	}
	return s.store.DeleteToken(ctx, r.Token.ID)
}

// Refresh extends the session token's expiry. The expiry never moves
// backwards: a refresh close to login leaves a longer remaining lifetime
// untouched. When renew is set the token value is re-randomized and the
// new value is returned.
func (s *Service) Refresh(ctx context.Context, r ResolvedAuth, renew bool) (*APIToken, error) {
	if !r.Present() || !r.Token.IsShortLived() {
		return nil, ErrAuthorizationFailed
	}
	token := *r.Token
	if expires := s.now().Add(s.refreshTTL); expires.After(token.Expires) {
		token.Expires = expires
	}
	if renew {
		value, err := NewTokenValue()
		if err != nil {
			return nil, err
		}
		token.Token = value
	}
	if err := s.store.UpdateToken(ctx, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ChangePassword rehashes and stores a new password for the user.
func (s *Service) ChangePassword(ctx context.Context, userID int64, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	return s.store.UpdatePassword(ctx, userID, hash)
}
