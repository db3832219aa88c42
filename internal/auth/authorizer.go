package auth

import (
	"context"
	"errors"
	"time"
)

// ResolvedAuth is the immutable outcome of resolving a bearer token for one
// request. A token that is unknown, disabled, or expired resolves to the
// zero value, exactly like a request with no token at all.
type ResolvedAuth struct {
	User  *User
	Token *APIToken
}

// Present reports whether a valid token was resolved.
func (r ResolvedAuth) Present() bool {
	return r.Token != nil
}

// Authorizer resolves bearer tokens against the identity store. It holds no
// per request state, so a single instance serves concurrent requests.
type Authorizer struct {
	store IdentityStore
	now   func() time.Time
}

// AuthorizerOption configures an Authorizer.
type AuthorizerOption func(*Authorizer)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) AuthorizerOption {
	return func(a *Authorizer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAuthorizer builds an Authorizer over the given store.
func NewAuthorizer(store IdentityStore, opts ...AuthorizerOption) *Authorizer {
	a := &Authorizer{store: store, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Resolve looks up the bearer token and loads its owning user. An empty
// value, an unknown token, a disabled token, and an expired token all
// resolve to the zero ResolvedAuth without error; the policy decides
// whether that is acceptable.
func (a *Authorizer) Resolve(ctx context.Context, token string) (ResolvedAuth, error) {
	if token == "" {
		return ResolvedAuth{}, nil
	}
	t, err := a.store.TokenByValue(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ResolvedAuth{}, nil
		}
		return ResolvedAuth{}, err
	}
	if !t.Enabled || !t.Expires.After(a.now()) {
		return ResolvedAuth{}, nil
	}
	u, err := a.store.UserByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ResolvedAuth{}, nil
		}
		return ResolvedAuth{}, err
	}
	return ResolvedAuth{User: u, Token: t}, nil
}
