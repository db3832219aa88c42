package pg

import (
	"database/sql"
	"encoding/json"
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/resource"
)

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

var userSpec = tableSpec[auth.User]{
	table:       "users",
	ownerColumn: "id",
	columns: []string{
		"id", "created", "updated", "username", "fullname", "email",
		"role", "password_hash", "second_factor",
	},
	fieldColumns: map[string]string{
		"id":       "id",
		"username": "username",
		"fullname": "fullname",
		"email":    "email",
		"role":     "role",
		"created":  "created",
	},
	scan: func(r rowScanner) (auth.User, error) {
		var (
			u            auth.User
			secondFactor sql.NullString
		)
		err := r.Scan(&u.ID, &u.Created, &u.Updated, &u.Username, &u.Fullname,
			&u.Email, &u.Role, &u.PasswordHash, &secondFactor)
		u.SecondFactor = nullStr(secondFactor)
		return u, err
	},
	insertColumns: []string{
		"created", "updated", "username", "fullname", "email",
		"role", "password_hash", "second_factor",
	},
	insertArgs: func(u auth.User, _ int64, now time.Time) []any {
		return []any{now, now, u.Username, u.Fullname, u.Email,
			u.Role, u.PasswordHash, u.SecondFactor}
	},
	updateColumns: []string{"updated", "username", "fullname", "email", "role"},
	updateArgs: func(u auth.User, now time.Time) []any {
		return []any{now, u.Username, u.Fullname, u.Email, u.Role}
	},
}

var tagSpec = tableSpec[resource.Tag]{
	table:       "tags",
	ownerColumn: "user_id",
	columns:     []string{"id", "created", "updated", "user_id", "title", "color"},
	fieldColumns: map[string]string{
		"id":      "id",
		"title":   "title",
		"color":   "color",
		"created": "created",
	},
	scan: func(r rowScanner) (resource.Tag, error) {
		var (
			t     resource.Tag
			color sql.NullString
		)
		err := r.Scan(&t.ID, &t.Created, &t.Updated, &t.UserID, &t.Title, &color)
		t.Color = nullStr(color)
		return t, err
	},
	insertColumns: []string{"created", "updated", "user_id", "title", "color"},
	insertArgs: func(t resource.Tag, ownerID int64, now time.Time) []any {
		userID := t.UserID
		if userID == 0 {
			userID = ownerID
		}
		return []any{now, now, userID, t.Title, t.Color}
	},
	updateColumns: []string{"updated", "title", "color"},
	updateArgs: func(t resource.Tag, now time.Time) []any {
		return []any{now, t.Title, t.Color}
	},
}

var userSettingSpec = tableSpec[resource.UserSetting]{
	table:       "user_settings",
	ownerColumn: "user_id",
	columns:     []string{"id", "created", "updated", "user_id", "setting", "value"},
	fieldColumns: map[string]string{
		"id":      "id",
		"setting": "setting",
		"value":   "value",
	},
	scan: func(r rowScanner) (resource.UserSetting, error) {
		var u resource.UserSetting
		err := r.Scan(&u.ID, &u.Created, &u.Updated, &u.UserID, &u.Setting, &u.Value)
		return u, err
	},
	insertColumns: []string{"created", "updated", "user_id", "setting", "value"},
	insertArgs: func(u resource.UserSetting, ownerID int64, now time.Time) []any {
		userID := u.UserID
		if userID == 0 {
			userID = ownerID
		}
		return []any{now, now, userID, u.Setting, u.Value}
	},
	updateColumns: []string{"updated", "setting", "value"},
	updateArgs: func(u resource.UserSetting, now time.Time) []any {
		return []any{now, u.Setting, u.Value}
	},
}

var apiClientSpec = tableSpec[resource.APIClient]{
	table:       "api_clients",
	ownerColumn: "user_id",
	columns: []string{
		"id", "created", "expires", "user_id", "enabled",
		"app_name", "app_publisher", "redirect_url",
	},
	fieldColumns: map[string]string{
		"id":            "id",
		"app_name":      "app_name",
		"app_publisher": "app_publisher",
		"created":       "created",
	},
	scan: func(r rowScanner) (resource.APIClient, error) {
		var (
			c        resource.APIClient
			redirect sql.NullString
		)
		err := r.Scan(&c.ID, &c.Created, &c.Expires, &c.UserID, &c.Enabled,
			&c.AppName, &c.AppPublisher, &redirect)
		c.RedirectURL = nullStr(redirect)
		return c, err
	},
	insertColumns: []string{
		"created", "expires", "user_id", "enabled",
		"app_name", "app_publisher", "redirect_url",
	},
	insertArgs: func(c resource.APIClient, ownerID int64, now time.Time) []any {
		userID := c.UserID
		if userID == 0 {
			userID = ownerID
		}
		expires := c.Expires
		if expires.IsZero() {
			expires = now.AddDate(1, 0, 0)
		}
		return []any{now, expires, userID, c.Enabled, c.AppName, c.AppPublisher, c.RedirectURL}
	},
	updateColumns: []string{"enabled", "app_name", "app_publisher", "redirect_url"},
	updateArgs: func(c resource.APIClient, _ time.Time) []any {
		return []any{c.Enabled, c.AppName, c.AppPublisher, c.RedirectURL}
	},
}

var apiTokenSpec = tableSpec[auth.APIToken]{
	table:       "api_tokens",
	ownerColumn: "user_id",
	columns: []string{
		"id", "created", "expires", "user_id", "api_client_id",
		"title", "token", "enabled", "scopes",
	},
	fieldColumns: map[string]string{
		"id":            "id",
		"title":         "title",
		"api_client_id": "api_client_id",
		"created":       "created",
		"expires":       "expires",
	},
	scan:          scanToken,
	insertColumns: []string{
		"created", "expires", "user_id", "api_client_id",
		"title", "token", "enabled", "scopes",
	},
	insertArgs: func(t auth.APIToken, ownerID int64, now time.Time) []any {
		userID := t.UserID
		if userID == 0 {
			userID = ownerID
		}
		created := t.Created
		if created.IsZero() {
			created = now
		}
		scopes, _ := json.Marshal(t.Scopes)
		return []any{created, t.Expires, userID, t.APIClientID, t.Title, t.Token, t.Enabled, scopes}
	},
	updateColumns: []string{"expires", "title", "token", "enabled", "scopes"},
	updateArgs: func(t auth.APIToken, _ time.Time) []any {
		scopes, _ := json.Marshal(t.Scopes)
		return []any{t.Expires, t.Title, t.Token, t.Enabled, scopes}
	},
}

func scanToken(r rowScanner) (auth.APIToken, error) {
	var (
		t        auth.APIToken
		clientID sql.NullInt64
		scopes   []byte
	)
	err := r.Scan(&t.ID, &t.Created, &t.Expires, &t.UserID, &clientID,
		&t.Title, &t.Token, &t.Enabled, &scopes)
	t.APIClientID = nullInt(clientID)
	if len(scopes) > 0 {
		_ = json.Unmarshal(scopes, &t.Scopes)
	}
	return t, err
}
