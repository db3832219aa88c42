package query

import (
	"fmt"
	"net/url"
	"strconv"
)

// Pagination holds a validated page window. Construct it through
// NewPagination; the zero value is not meaningful.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// Link is a single RFC 5988 link relation.
type Link struct {
	Rel string
	URL string
}

// NewPagination validates the requested page window against the item count
// and the configured page size ceiling. An empty result set is a valid
// single empty page 1: total_pages is never reported below 1, so that
// clients always get a usable `last` relation.
func NewPagination(pageSize, page, totalItems, maxPageSize int) (*Pagination, error) {
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalidPageSize, maxPageSize)
	}
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		return nil, fmt.Errorf("%w: page must be between 1 and %d", ErrInvalidPage, totalPages)
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}, nil
}

// Offset returns the record offset of the validated page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Links builds the first/last/prev/next link relations for the request URL.
// All existing query parameters are preserved; only `page` is overwritten.
func (p *Pagination) Links(requestURL string) ([]Link, error) {
	base, err := url.Parse(requestURL)
	if err != nil {
		return nil, fmt.Errorf("parse request url: %w", err)
	}

	withPage := func(page int) string {
		u := *base
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		u.RawQuery = q.Encode()
		return u.String()
	}

	links := []Link{
		{Rel: "first", URL: withPage(1)},
		{Rel: "last", URL: withPage(p.TotalPages)},
	}
	if p.Page > 1 {
		links = append(links, Link{Rel: "prev", URL: withPage(p.Page - 1)})
	}
	if p.Page < p.TotalPages {
		links = append(links, Link{Rel: "next", URL: withPage(p.Page + 1)})
	}
	return links, nil
}

// LinkHeader renders link relations as a single Link header value.
func LinkHeader(links []Link) string {
	out := ""
	for i, l := range links {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("<%s>; rel=%q", l.URL, l.Rel)
	}
	return out
}
