package auth

import "time"

// Role classifies an account. Service accounts exist for machine to machine
// use only and can never open an interactive session.
type Role string

const (
	RoleRoot    Role = "root"
	RoleUser    Role = "user"
	RoleService Role = "service"
)

// User is an account row. PasswordHash is a bcrypt hash and is never
// serialized to API responses.
type User struct {
	ID           int64
	Created      time.Time
	Updated      time.Time
	Username     string
	Fullname     string
	Email        string
	Role         Role
	PasswordHash string
	SecondFactor *string
}

// APIToken is a bearer credential. A token with no owning client is a
// short lived session token created at login; a token bound to a client
// is a long lived integration credential.
type APIToken struct {
	ID          int64
	Created     time.Time
	Expires     time.Time
	UserID      int64
	APIClientID *int64
	Title       string
	Token       string
	Enabled     bool
	Scopes      []string
}

// IsShortLived reports whether the token is a session token.
func (t *APIToken) IsShortLived() bool {
	return t.APIClientID == nil
}

// HasScope reports whether the token carries the given scope.
func (t *APIToken) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
