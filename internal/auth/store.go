package auth

import "context"

// IdentityStore is the persistence surface the authorizer and the session
// service need. Implementations return ErrNotFound for missing rows.
type IdentityStore interface {
	UserByUsername(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)

	TokenByValue(ctx context.Context, value string) (*APIToken, error)
	CreateToken(ctx context.Context, token *APIToken) (*APIToken, error)
	UpdateToken(ctx context.Context, token *APIToken) error
	DeleteToken(ctx context.Context, id int64) error

	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}
