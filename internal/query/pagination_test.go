package query

import (
	"errors"
	"strings"
	"testing"
)

const testMaxPageSize = 250

func TestPaginationValidWindow(t *testing.T) {
	p, err := NewPagination(10, 1, 100, testMaxPageSize)
	if err != nil {
		t.Fatalf("NewPagination: %v", err)
	}
	if p.TotalPages != 10 {
		t.Fatalf("expected 10 total pages, got %d", p.TotalPages)
	}
	if p.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", p.Offset())
	}
}

func TestPaginationOffsets(t *testing.T) {
	cases := []struct {
		pageSize, page, offset int
	}{
		{10, 1, 0},
		{10, 2, 10},
		{20, 2, 20},
		{3, 10, 27},
	}
	for _, c := range cases {
		p, err := NewPagination(c.pageSize, c.page, 100, testMaxPageSize)
		if err != nil {
			t.Fatalf("NewPagination(%d,%d): %v", c.pageSize, c.page, err)
		}
		if p.Offset() != c.offset {
			t.Fatalf("NewPagination(%d,%d): expected offset %d, got %d",
				c.pageSize, c.page, c.offset, p.Offset())
		}
	}
}

func TestPaginationInvalidPage(t *testing.T) {
	for _, page := range []int{0, -1, 11} {
		_, err := NewPagination(10, page, 100, testMaxPageSize)
		if !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("page %d: expected ErrInvalidPage, got %v", page, err)
		}
		if !strings.Contains(err.Error(), "10") {
			t.Fatalf("error should carry the page bound: %v", err)
		}
	}
}

func TestPaginationInvalidPageSize(t *testing.T) {
	for _, size := range []int{0, -5, testMaxPageSize + 1} {
		_, err := NewPagination(size, 1, 100, testMaxPageSize)
		if !errors.Is(err, ErrInvalidPageSize) {
			t.Fatalf("page_size %d: expected ErrInvalidPageSize, got %v", size, err)
		}
		if !strings.Contains(err.Error(), "250") {
			t.Fatalf("error should carry the size ceiling: %v", err)
		}
	}
}

func TestPaginationEmptyResultSet(t *testing.T) {
	p, err := NewPagination(10, 1, 0, testMaxPageSize)
	if err != nil {
		t.Fatalf("empty result set should allow page 1: %v", err)
	}
	if p.TotalPages != 1 {
		t.Fatalf("expected total_pages 1 for empty set, got %d", p.TotalPages)
	}
	if _, err := NewPagination(10, 2, 0, testMaxPageSize); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("page 2 of empty set should fail, got %v", err)
	}
}

func TestPaginationBoundaryLinks(t *testing.T) {
	// 5 items, 2 per page: 3 pages; the last page has no `next`.
	p, err := NewPagination(2, 3, 5, testMaxPageSize)
	if err != nil {
		t.Fatalf("NewPagination: %v", err)
	}
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", p.TotalPages)
	}
	links, err := p.Links("http://api.test/resources/tags?page_size=2&page=3")
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	rels := make(map[string]string, len(links))
	for _, l := range links {
		rels[l.Rel] = l.URL
	}
	if _, ok := rels["next"]; ok {
		t.Fatalf("last page must not have a next relation: %v", rels)
	}
	for _, rel := range []string{"first", "last", "prev"} {
		if _, ok := rels[rel]; !ok {
			t.Fatalf("missing %s relation: %v", rel, rels)
		}
	}
	if !strings.Contains(rels["prev"], "page=2") || !strings.Contains(rels["prev"], "page_size=2") {
		t.Fatalf("prev must keep query parameters: %s", rels["prev"])
	}

	if _, err := NewPagination(2, 4, 5, testMaxPageSize); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("page beyond bound should fail, got %v", err)
	}
}

func TestPaginationLinkHeader(t *testing.T) {
	p, err := NewPagination(2, 2, 6, testMaxPageSize)
	if err != nil {
		t.Fatalf("NewPagination: %v", err)
	}
	links, err := p.Links("http://api.test/resources/tags?page=2")
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	header := LinkHeader(links)
	if !strings.Contains(header, `rel="first"`) || !strings.Contains(header, `rel="next"`) {
		t.Fatalf("unexpected header: %s", header)
	}
	if !strings.Contains(header, "<http://api.test/resources/tags?page=1>") {
		t.Fatalf("unexpected header: %s", header)
	}
}
