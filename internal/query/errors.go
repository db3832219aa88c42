package query

import "errors"

var (
	ErrInvalidFilter          = errors.New("query: invalid filter")
	ErrInvalidFilterField     = errors.New("query: invalid filter field")
	ErrInvalidFilterOperator  = errors.New("query: invalid filter operator")
	ErrInvalidFilterValueType = errors.New("query: invalid filter value type")
	ErrInvalidSortField       = errors.New("query: invalid sort field")
	ErrInvalidPage            = errors.New("query: invalid page")
	ErrInvalidPageSize        = errors.New("query: invalid page size")
)
