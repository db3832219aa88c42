package resource

import (
	"fmt"

	"myrest.org/internal/auth"
)

// Context is the per request view of the data layer: the requesting user
// plus the managers bound to that user. Stores build one per request; it
// is not shared between requests.
type Context struct {
	User  *auth.User
	attrs map[string]any
}

// NewContext builds an empty context for the given user. A nil user means
// the request is unauthenticated.
func NewContext(user *auth.User) *Context {
	return &Context{User: user, attrs: make(map[string]any)}
}

// Bind registers a manager under an attribute name.
func (c *Context) Bind(attr string, manager any) {
	c.attrs[attr] = manager
}

// ManagerFor looks up the manager bound under attr. A missing attribute
// and a manager of the wrong type are both reported as
// ErrInvalidContextAttribute naming the attribute.
func ManagerFor[T any](c *Context, attr string) (Manager[T], error) {
	v, ok := c.attrs[attr]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContextAttribute, attr)
	}
	m, ok := v.(Manager[T])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContextAttribute, attr)
	}
	return m, nil
}
