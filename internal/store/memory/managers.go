package memory

import (
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/resource"
)

func newUserManager(s *Store, user *auth.User) *manager[auth.User] {
	return &manager[auth.User]{
		store: s,
		user:  user,
		table: func() *[]auth.User { return &s.users },
		id:    func(u auth.User) int64 { return u.ID },
		// A user owns their own row.
		owner: func(u auth.User) int64 { return u.ID },
		field: func(u auth.User, name string) (fieldValue, bool) {
			switch name {
			case "id":
				return intValue(u.ID), true
			case "username":
				return strValue(u.Username), true
			case "fullname":
				return strValue(u.Fullname), true
			case "email":
				return strValue(u.Email), true
			case "role":
				return strValue(string(u.Role)), true
			case "created":
				return timeValue(u.Created), true
			}
			return fieldValue{}, false
		},
		create: func(u *auth.User, id int64, now time.Time) {
			u.ID = id
			u.Created, u.Updated = now, now
		},
		apply: func(dst *auth.User, src auth.User, now time.Time) {
			dst.Username = src.Username
			dst.Fullname = src.Fullname
			dst.Email = src.Email
			dst.Role = src.Role
			dst.Updated = now
		},
	}
}

func newTagManager(s *Store, user *auth.User) *manager[resource.Tag] {
	return &manager[resource.Tag]{
		store: s,
		user:  user,
		table: func() *[]resource.Tag { return &s.tags },
		id:    func(t resource.Tag) int64 { return t.ID },
		owner: func(t resource.Tag) int64 { return t.UserID },
		field: func(t resource.Tag, name string) (fieldValue, bool) {
			switch name {
			case "id":
				return intValue(t.ID), true
			case "title":
				return strValue(t.Title), true
			case "color":
				return nullableStr(t.Color), true
			case "created":
				return timeValue(t.Created), true
			}
			return fieldValue{}, false
		},
		create: func(t *resource.Tag, id int64, now time.Time) {
			t.ID = id
			if user != nil && t.UserID == 0 {
				t.UserID = user.ID
			}
			t.Created, t.Updated = now, now
		},
		apply: func(dst *resource.Tag, src resource.Tag, now time.Time) {
			dst.Title = src.Title
			dst.Color = src.Color
			dst.Updated = now
		},
	}
}

func newUserSettingManager(s *Store, user *auth.User) *manager[resource.UserSetting] {
	return &manager[resource.UserSetting]{
		store: s,
		user:  user,
		table: func() *[]resource.UserSetting { return &s.settings },
		id:    func(u resource.UserSetting) int64 { return u.ID },
		owner: func(u resource.UserSetting) int64 { return u.UserID },
		field: func(u resource.UserSetting, name string) (fieldValue, bool) {
			switch name {
			case "id":
				return intValue(u.ID), true
			case "setting":
				return strValue(u.Setting), true
			case "value":
				return strValue(u.Value), true
			}
			return fieldValue{}, false
		},
		create: func(u *resource.UserSetting, id int64, now time.Time) {
			u.ID = id
			if user != nil && u.UserID == 0 {
				u.UserID = user.ID
			}
			u.Created, u.Updated = now, now
		},
		apply: func(dst *resource.UserSetting, src resource.UserSetting, now time.Time) {
			dst.Setting = src.Setting
			dst.Value = src.Value
			dst.Updated = now
		},
	}
}

func newAPIClientManager(s *Store, user *auth.User) *manager[resource.APIClient] {
	return &manager[resource.APIClient]{
		store: s,
		user:  user,
		table: func() *[]resource.APIClient { return &s.clients },
		id:    func(c resource.APIClient) int64 { return c.ID },
		owner: func(c resource.APIClient) int64 { return c.UserID },
		field: func(c resource.APIClient, name string) (fieldValue, bool) {
			switch name {
			case "id":
				return intValue(c.ID), true
			case "app_name":
				return strValue(c.AppName), true
			case "app_publisher":
				return strValue(c.AppPublisher), true
			case "created":
				return timeValue(c.Created), true
			}
			return fieldValue{}, false
		},
		create: func(c *resource.APIClient, id int64, now time.Time) {
			c.ID = id
			if user != nil && c.UserID == 0 {
				c.UserID = user.ID
			}
			c.Created = now
		},
		apply: func(dst *resource.APIClient, src resource.APIClient, _ time.Time) {
			dst.AppName = src.AppName
			dst.AppPublisher = src.AppPublisher
			dst.RedirectURL = src.RedirectURL
			dst.Enabled = src.Enabled
			if !src.Expires.IsZero() {
				dst.Expires = src.Expires
			}
		},
	}
}

func newAPITokenManager(s *Store, user *auth.User) *manager[auth.APIToken] {
	return &manager[auth.APIToken]{
		store: s,
		user:  user,
		table: func() *[]auth.APIToken { return &s.tokens },
		id:    func(t auth.APIToken) int64 { return t.ID },
		owner: func(t auth.APIToken) int64 { return t.UserID },
		field: func(t auth.APIToken, name string) (fieldValue, bool) {
			switch name {
			case "id":
				return intValue(t.ID), true
			case "title":
				return strValue(t.Title), true
			case "api_client_id":
				return nullableInt(t.APIClientID), true
			case "created":
				return timeValue(t.Created), true
			case "expires":
				return timeValue(t.Expires), true
			}
			return fieldValue{}, false
		},
		create: func(t *auth.APIToken, id int64, now time.Time) {
			t.ID = id
			if user != nil && t.UserID == 0 {
				t.UserID = user.ID
			}
			if t.Created.IsZero() {
				t.Created = now
			}
		},
		apply: func(dst *auth.APIToken, src auth.APIToken, _ time.Time) {
			dst.Title = src.Title
			dst.Enabled = src.Enabled
			if src.Scopes != nil {
				dst.Scopes = src.Scopes
			}
			if !src.Expires.IsZero() {
				dst.Expires = src.Expires
			}
		},
	}
}
