package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const resetTokenIssuer = "myrest"

// CreateResetToken re-verifies the session user's password and issues a
// short lived signed token that authorizes exactly one password change.
func (s *Service) CreateResetToken(r ResolvedAuth, password string) (string, error) {
	if len(s.resetSecret) == 0 {
		return "", errors.New("auth: reset secret not configured")
	}
	if !r.Present() || !r.Token.IsShortLived() {
		return "", ErrAuthorizationFailed
	}
	if !VerifyPassword(r.User.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    resetTokenIssuer,
		Subject:   strconv.FormatInt(r.User.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.resetSecret)
}

// ResetPassword verifies the reset token against the session user and
// stores the new password. A token issued for a different user is rejected
// the same way as a forged one.
func (s *Service) ResetPassword(ctx context.Context, r ResolvedAuth, tokenString, password string) error {
	if !r.Present() || !r.Token.IsShortLived() {
		return ErrAuthorizationFailed
	}
	userID, err := s.verifyResetToken(tokenString)
	if err != nil {
		return err
	}
	if userID != r.User.ID {
		return ErrInvalidResetToken
	}
	return s.ChangePassword(ctx, userID, password)
}

func (s *Service) verifyResetToken(tokenString string) (int64, error) {
	if len(s.resetSecret) == 0 {
		return 0, errors.New("auth: reset secret not configured")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidResetToken
			}
			return s.resetSecret, nil
		},
		jwt.WithIssuer(resetTokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidResetToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidResetToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidResetToken
	}
	return userID, nil
}
