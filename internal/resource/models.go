package resource

import "time"

// Tag is a user owned label.
type Tag struct {
	ID      int64
	Created time.Time
	Updated time.Time
	UserID  int64
	Title   string
	Color   *string
}

// UserSetting is a single key/value preference for a user.
type UserSetting struct {
	ID      int64
	Created time.Time
	Updated time.Time
	UserID  int64
	Setting string
	Value   string
}

// APIClient is a registered application that may hold long lived tokens
// on behalf of its user.
type APIClient struct {
	ID           int64
	Created      time.Time
	Expires      time.Time
	UserID       int64
	Enabled      bool
	AppName      string
	AppPublisher string
	RedirectURL  *string
}
