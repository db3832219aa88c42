package resource

import (
	"context"

	"myrest.org/internal/auth"
	"myrest.org/internal/query"
)

// Manager persists one resource type on behalf of the user a Context was
// built for. Implementations enforce ownership: a regular user only ever
// sees and touches their own rows, the root role sees everything.
type Manager[T any] interface {
	// Count returns the number of rows matching the filter.
	Count(ctx context.Context, filter []query.Predicate) (int, error)

	// Retrieve returns the matching rows in sort order, windowed by
	// offset and limit. A limit below zero means no window.
	Retrieve(ctx context.Context, filter []query.Predicate, sort []query.SortKey, offset, limit int) ([]T, error)

	// Create inserts the given rows and returns them with ids and
	// timestamps assigned.
	Create(ctx context.Context, items []T) ([]T, error)

	// Update applies the mutable fields of item to every matching row
	// and returns the updated rows.
	Update(ctx context.Context, filter []query.Predicate, item T) ([]T, error)

	// Delete removes the matching rows and returns their ids.
	Delete(ctx context.Context, filter []query.Predicate) ([]int64, error)
}

// Store builds per request contexts with every resource manager bound.
type Store interface {
	For(user *auth.User) *Context
}
