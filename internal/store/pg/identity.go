package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"myrest.org/internal/auth"
)

var _ auth.IdentityStore = (*Store)(nil)

const (
	userColumns  = `id, created, updated, username, fullname, email, role, password_hash, second_factor`
	tokenColumns = `id, created, expires, user_id, api_client_id, title, token, enabled, scopes`
)

func (s *Store) userBy(ctx context.Context, cond string, arg any) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where `+cond, arg)
	u, err := userSpec.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UserByUsername implements auth.IdentityStore.
func (s *Store) UserByUsername(ctx context.Context, username string) (*auth.User, error) {
	return s.userBy(ctx, "username = $1", username)
}

// UserByID implements auth.IdentityStore.
func (s *Store) UserByID(ctx context.Context, id int64) (*auth.User, error) {
	return s.userBy(ctx, "id = $1", id)
}

// TokenByValue implements auth.IdentityStore.
func (s *Store) TokenByValue(ctx context.Context, value string) (*auth.APIToken, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+tokenColumns+` from api_tokens where token = $1`, value)
	t, err := scanToken(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CreateToken implements auth.IdentityStore.
func (s *Store) CreateToken(ctx context.Context, token *auth.APIToken) (*auth.APIToken, error) {
	scopes, _ := json.Marshal(token.Scopes)
	created := token.Created
	if created.IsZero() {
		created = s.now()
	}
	row := s.db.QueryRowContext(ctx,
		`insert into api_tokens(created, expires, user_id, api_client_id, title, token, enabled, scopes)
		 values($1,$2,$3,$4,$5,$6,$7,$8) returning `+tokenColumns,
		created, token.Expires, token.UserID, token.APIClientID,
		token.Title, token.Token, token.Enabled, scopes,
	)
	t, err := scanToken(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateToken implements auth.IdentityStore.
func (s *Store) UpdateToken(ctx context.Context, token *auth.APIToken) error {
	scopes, _ := json.Marshal(token.Scopes)
	res, err := s.db.ExecContext(ctx,
		`update api_tokens set expires=$1, title=$2, token=$3, enabled=$4, scopes=$5 where id=$6`,
		token.Expires, token.Title, token.Token, token.Enabled, scopes, token.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// DeleteToken implements auth.IdentityStore.
func (s *Store) DeleteToken(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from api_tokens where id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// UpdatePassword implements auth.IdentityStore.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set password_hash=$1, updated=$2 where id=$3`,
		passwordHash, s.now(), userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}
