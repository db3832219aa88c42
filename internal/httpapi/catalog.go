package httpapi

import (
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/query"
	"myrest.org/internal/resource"
)

// Input and output shapes per resource. Inputs carry only client settable
// fields; outputs never expose password hashes or second factors.

type userInput struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Password string `json:"password,omitempty"`
}

type userOutput struct {
	ID       int64     `json:"id"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Username string    `json:"username"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

type tagInput struct {
	Title string  `json:"title"`
	Color *string `json:"color,omitempty"`
}

type tagOutput struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"user_id"`
	Title  string  `json:"title"`
	Color  *string `json:"color"`
}

type userSettingInput struct {
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

type userSettingOutput struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

type apiClientInput struct {
	AppName      string  `json:"app_name"`
	AppPublisher string  `json:"app_publisher"`
	RedirectURL  *string `json:"redirect_url,omitempty"`
	Enabled      bool    `json:"enabled"`
}

type apiClientOutput struct {
	ID           int64     `json:"id"`
	Created      time.Time `json:"created"`
	Expires      time.Time `json:"expires"`
	UserID       int64     `json:"user_id"`
	Enabled      bool      `json:"enabled"`
	AppName      string    `json:"app_name"`
	AppPublisher string    `json:"app_publisher"`
	RedirectURL  *string   `json:"redirect_url"`
}

// apiTokenInput exists to satisfy the collection plumbing; token creation
// and update are disabled, tokens are only issued through /auth/login.
type apiTokenInput struct {
	Title string `json:"title"`
}

type apiTokenOutput struct {
	ID          int64     `json:"id"`
	Created     time.Time `json:"created"`
	Expires     time.Time `json:"expires"`
	UserID      int64     `json:"user_id"`
	APIClientID *int64    `json:"api_client_id"`
	Title       string    `json:"title"`
	Enabled     bool      `json:"enabled"`
	Scopes      []string  `json:"scopes"`
}

func userFromInput(in userInput) auth.User {
	role := auth.Role(in.Role)
	if role == "" {
		role = auth.RoleUser
	}
	hash := ""
	if in.Password != "" {
		hash, _ = auth.HashPassword(in.Password)
	}
	return auth.User{
		Username:     in.Username,
		Fullname:     in.Fullname,
		Email:        in.Email,
		Role:         role,
		PasswordHash: hash,
	}
}

func userToOutput(u auth.User) userOutput {
	return userOutput{
		ID:       u.ID,
		Created:  u.Created,
		Updated:  u.Updated,
		Username: u.Username,
		Fullname: u.Fullname,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

// registerResources builds the CRUD orchestrators for every exposed
// resource and mounts them by URL name.
func registerResources(store resource.Store) map[string]resourceEndpoint {
	endpoints := make(map[string]resourceEndpoint)

	endpoints["users"] = &endpoint[auth.User, userInput, userOutput]{
		crud: resource.NewCRUD(resource.Config{
			Name:             "users",
			ContextAttribute: "users",
			CreateScope:      auth.ScopeUsersCreate,
			RetrieveScope:    auth.ScopeUsersRetrieve,
			UpdateScope:      auth.ScopeUsersUpdate,
			DeleteScope:      auth.ScopeUsersDelete,
			AllowShortLived:  true,
			FilterFields:     []string{"id", "username", "fullname", "email"},
			SortFields:       []string{"id", "username", "fullname", "email", "role", "created"},
			FieldKinds: map[string]query.FieldKind{
				"id":       query.KindInt,
				"username": query.KindString,
				"fullname": query.KindString,
				"email":    query.KindString,
				"role":     query.KindString,
				"created":  query.KindInt,
			},
		}, store, userFromInput, userToOutput),
	}

	endpoints["tags"] = &endpoint[resource.Tag, tagInput, tagOutput]{
		crud: resource.NewCRUD(resource.Config{
			Name:             "tags",
			ContextAttribute: "tags",
			CreateScope:      auth.ScopeTagsCreate,
			RetrieveScope:    auth.ScopeTagsRetrieve,
			UpdateScope:      auth.ScopeTagsUpdate,
			DeleteScope:      auth.ScopeTagsDelete,
			AllowShortLived:  true,
			FilterFields:     []string{"id", "title", "color"},
			SortFields:       []string{"id", "title", "color"},
			FieldKinds: map[string]query.FieldKind{
				"id":    query.KindInt,
				"title": query.KindString,
				"color": query.KindString,
			},
		}, store,
			func(in tagInput) resource.Tag {
				return resource.Tag{Title: in.Title, Color: in.Color}
			},
			func(t resource.Tag) tagOutput {
				return tagOutput{ID: t.ID, UserID: t.UserID, Title: t.Title, Color: t.Color}
			}),
	}

	endpoints["user_settings"] = &endpoint[resource.UserSetting, userSettingInput, userSettingOutput]{
		crud: resource.NewCRUD(resource.Config{
			Name:             "user_settings",
			ContextAttribute: "user_settings",
			CreateScope:      auth.ScopeUserSettingsCreate,
			RetrieveScope:    auth.ScopeUserSettingsRetrieve,
			UpdateScope:      auth.ScopeUserSettingsUpdate,
			DeleteScope:      auth.ScopeUserSettingsDelete,
			AllowShortLived:  true,
			FilterFields:     []string{"id", "setting", "value"},
			SortFields:       []string{"id", "setting", "value"},
			FieldKinds: map[string]query.FieldKind{
				"id":      query.KindInt,
				"setting": query.KindString,
				"value":   query.KindString,
			},
		}, store,
			func(in userSettingInput) resource.UserSetting {
				return resource.UserSetting{Setting: in.Setting, Value: in.Value}
			},
			func(u resource.UserSetting) userSettingOutput {
				return userSettingOutput{ID: u.ID, UserID: u.UserID, Setting: u.Setting, Value: u.Value}
			}),
	}

	endpoints["api_clients"] = &endpoint[resource.APIClient, apiClientInput, apiClientOutput]{
		crud: resource.NewCRUD(resource.Config{
			Name:             "api_clients",
			ContextAttribute: "api_clients",
			// Client registration is a self-service action: no scopes,
			// sessions only.
			OnlyShortLived: true,
			FilterFields:     []string{"id", "app_name", "app_publisher"},
			SortFields:       []string{"id", "app_name", "app_publisher", "created"},
			FieldKinds: map[string]query.FieldKind{
				"id":            query.KindInt,
				"app_name":      query.KindString,
				"app_publisher": query.KindString,
				"created":       query.KindInt,
			},
		}, store,
			func(in apiClientInput) resource.APIClient {
				return resource.APIClient{
					AppName:      in.AppName,
					AppPublisher: in.AppPublisher,
					RedirectURL:  in.RedirectURL,
					Enabled:      in.Enabled,
				}
			},
			func(c resource.APIClient) apiClientOutput {
				return apiClientOutput{
					ID:           c.ID,
					Created:      c.Created,
					Expires:      c.Expires,
					UserID:       c.UserID,
					Enabled:      c.Enabled,
					AppName:      c.AppName,
					AppPublisher: c.AppPublisher,
					RedirectURL:  c.RedirectURL,
				}
			}),
	}

	endpoints["api_tokens"] = &endpoint[auth.APIToken, apiTokenInput, apiTokenOutput]{
		crud: resource.NewCRUD(resource.Config{
			Name:             "api_tokens",
			ContextAttribute: "api_tokens",
			// Tokens are created by login and client grants only; the
			// collection supports retrieve and delete.
			RetrieveScope:   auth.ScopeAPITokensRetrieve,
			DeleteScope:     auth.ScopeAPITokensDelete,
			AllowShortLived: true,
			FilterFields:    []string{"id", "title", "api_client_id"},
			SortFields:      []string{"id", "title", "created", "expires"},
			FieldKinds: map[string]query.FieldKind{
				"id":            query.KindInt,
				"title":         query.KindString,
				"api_client_id": query.KindInt,
				"created":       query.KindInt,
				"expires":       query.KindInt,
			},
		}, store,
			func(in apiTokenInput) auth.APIToken {
				return auth.APIToken{Title: in.Title}
			},
			func(t auth.APIToken) apiTokenOutput {
				return apiTokenOutput{
					ID:          t.ID,
					Created:     t.Created,
					Expires:     t.Expires,
					UserID:      t.UserID,
					APIClientID: t.APIClientID,
					Title:       t.Title,
					Enabled:     t.Enabled,
					Scopes:      t.Scopes,
				}
			}),
	}

	return endpoints
}
