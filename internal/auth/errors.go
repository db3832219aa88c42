package auth

import "errors"

var (
	// ErrAuthorizationFailed is returned when the presented token does not
	// satisfy the endpoint's policy. It intentionally carries no detail
	// about why.
	ErrAuthorizationFailed = errors.New("auth: authorization failed")

	// ErrInvalidCredentials is returned by Login for a bad username or
	// password, and for accounts that are not allowed to log in.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidResetToken is returned when a password reset token is
	// malformed, expired, or signed with the wrong key.
	ErrInvalidResetToken = errors.New("auth: invalid reset token")

	// ErrNotFound is returned by identity stores when a user or token
	// does not exist.
	ErrNotFound = errors.New("auth: not found")
)
