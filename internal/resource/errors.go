package resource

import "errors"

var (
	// ErrInvalidContextAttribute is returned when a manager lookup names an
	// attribute that is missing or bound to a different resource type. It
	// indicates a wiring bug, not a client mistake.
	ErrInvalidContextAttribute = errors.New("resource: invalid context attribute")

	// ErrNoResourcesFound is returned when an update or delete matched
	// nothing, and by single resource retrieval for an unknown id.
	ErrNoResourcesFound = errors.New("resource: no resources found")
)
