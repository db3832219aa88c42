package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore is a minimal IdentityStore for package tests.
type fakeStore struct {
	users  map[int64]*User
	tokens map[string]*APIToken
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[int64]*User),
		tokens: make(map[string]*APIToken),
		nextID: 1,
	}
}

func (f *fakeStore) addUser(u *User) *User {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) TokenByValue(_ context.Context, value string) (*APIToken, error) {
	if t, ok := f.tokens[value]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateToken(_ context.Context, token *APIToken) (*APIToken, error) {
	token.ID = f.nextID
	f.nextID++
	f.tokens[token.Token] = token
	return token, nil
}

func (f *fakeStore) UpdateToken(_ context.Context, token *APIToken) error {
	for value, t := range f.tokens {
		if t.ID == token.ID {
			delete(f.tokens, value)
			f.tokens[token.Token] = token
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) DeleteToken(_ context.Context, id int64) error {
	for value, t := range f.tokens {
		if t.ID == id {
			delete(f.tokens, value)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID int64, hash string) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testTime }

func seedToken(store *fakeStore, user *User, value string, mutate func(*APIToken)) *APIToken {
	token := &APIToken{
		Created: testTime.Add(-time.Hour),
		Expires: testTime.Add(time.Hour),
		UserID:  user.ID,
		Title:   "test token",
		Token:   value,
		Enabled: true,
		Scopes:  []string{ScopeTagsRetrieve},
	}
	if mutate != nil {
		mutate(token)
	}
	created, _ := store.CreateToken(context.Background(), token)
	return created
}

func TestResolveValidToken(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(&User{Username: "root", Role: RoleRoot})
	seedToken(store, user, "abc", nil)

	a := NewAuthorizer(store, WithClock(testClock))
	r, err := a.Resolve(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !r.Present() || r.User.ID != user.ID {
		t.Fatalf("expected resolved auth for user %d, got %+v", user.ID, r)
	}
}

func TestResolveAbsentForBadTokens(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(&User{Username: "root", Role: RoleRoot})
	seedToken(store, user, "disabled", func(tok *APIToken) { tok.Enabled = false })
	seedToken(store, user, "expired", func(tok *APIToken) { tok.Expires = testTime.Add(-time.Minute) })

	a := NewAuthorizer(store, WithClock(testClock))
	for _, value := range []string{"", "unknown", "disabled", "expired"} {
		r, err := a.Resolve(context.Background(), value)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", value, err)
		}
		if r.Present() {
			t.Fatalf("Resolve(%q): expected absent auth", value)
		}
	}
}

func TestPolicyNoToken(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(&User{Username: "root", Role: RoleRoot})
	token := seedToken(store, user, "abc", nil)

	if err := NoToken().Authorize(ResolvedAuth{}); err != nil {
		t.Fatalf("no token should pass: %v", err)
	}
	err := NoToken().Authorize(ResolvedAuth{User: user, Token: token})
	if !errors.Is(err, ErrAuthorizationFailed) {
		t.Fatalf("valid token should fail NoToken, got %v", err)
	}
}

func TestPolicyAnyValid(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(&User{Username: "root", Role: RoleRoot})
	token := seedToken(store, user, "abc", nil)

	if err := AnyValid().Authorize(ResolvedAuth{User: user, Token: token}); err != nil {
		t.Fatalf("valid token should pass: %v", err)
	}
	if err := AnyValid().Authorize(ResolvedAuth{}); !errors.Is(err, ErrAuthorizationFailed) {
		t.Fatalf("absent token should fail, got %v", err)
	}
}

func TestPolicyShortLivedOnly(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(&User{Username: "root", Role: RoleRoot})
	session := seedToken(store, user, "session", nil)
	clientID := int64(7)
	client := seedToken(store, user, "client", func(tok *APIToken) { tok.APIClientID = &clientID })

	if err := ShortLivedOnly().Authorize(ResolvedAuth{User: user, Token: session}); err != nil {
		t.Fatalf("session token should pass: %v", err)
	}
	err := ShortLivedOnly().Authorize(ResolvedAuth{User: user, Token: client})
	if !errors.Is(err, ErrAuthorizationFailed) {
		t.Fatalf("client token should fail, got %v", err)
	}
}

func TestPolicyScoped(t *testing.T) {
	store := newFakeStore()
	user := store.addUser(&User{Username: "root", Role: RoleRoot})
	clientID := int64(7)
	client := seedToken(store, user, "client", func(tok *APIToken) {
		tok.APIClientID = &clientID
		tok.Scopes = []string{ScopeTagsRetrieve, ScopeTagsCreate}
	})
	session := seedToken(store, user, "session", func(tok *APIToken) {
		tok.Scopes = []string{ScopeTagsRetrieve}
	})

	cases := []struct {
		name   string
		policy Policy
		auth   ResolvedAuth
		ok     bool
	}{
		{"client with scope", Scoped([]string{ScopeTagsRetrieve}, false), ResolvedAuth{User: user, Token: client}, true},
		{"client missing scope", Scoped([]string{ScopeUsersDelete}, false), ResolvedAuth{User: user, Token: client}, false},
		{"session allowed with scope", Scoped([]string{ScopeTagsRetrieve}, true), ResolvedAuth{User: user, Token: session}, true},
		{"session not allowed", Scoped([]string{ScopeTagsRetrieve}, false), ResolvedAuth{User: user, Token: session}, false},
		{"session allowed but missing scope", Scoped([]string{ScopeTagsCreate}, true), ResolvedAuth{User: user, Token: session}, false},
		{"disabled operation", Scoped(nil, true), ResolvedAuth{User: user, Token: client}, false},
		{"absent token", Scoped([]string{ScopeTagsRetrieve}, true), ResolvedAuth{}, false},
	}
	for _, c := range cases {
		err := c.policy.Authorize(c.auth)
		if c.ok && err != nil {
			t.Fatalf("%s: expected pass, got %v", c.name, err)
		}
		if !c.ok && !errors.Is(err, ErrAuthorizationFailed) {
			t.Fatalf("%s: expected ErrAuthorizationFailed, got %v", c.name, err)
		}
	}
}
