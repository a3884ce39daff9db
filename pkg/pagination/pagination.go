// Package pagination computes page windows over ordered result sets.
package pagination

import "strconv"

// DefaultPageSize matches the feed page size used when configuration is absent.
const DefaultPageSize = 10

// Window describes one page of a result set of Total items.
type Window struct {
	Offset   int   `json:"-"`
	Limit    int   `json:"-"`
	Page     int   `json:"page"`
	LastPage int   `json:"last_page"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_previous"`
	Total    int64 `json:"total"`
}

// Page is a window plus the items that fall into it.
type Page[T any] struct {
	Items []T `json:"items"`
	Window
}

// Paginate clamps requested into [1, lastPage] and returns the matching window.
// lastPage is at least 1, so an empty result set yields an empty first page.
func Paginate(total int64, pageSize, requested int) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	size := int64(pageSize)
	last := int((total + size - 1) / size)
	if last < 1 {
		last = 1
	}

	page := requested
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	offset := int64(page-1) * size
	limit := total - offset
	if limit > size {
		limit = size
	}
	if limit < 0 {
		limit = 0
	}

	return Window{
		Offset:   int(offset),
		Limit:    int(limit),
		Page:     page,
		LastPage: last,
		HasNext:  page < last,
		HasPrev:  page > 1,
		Total:    total,
	}
}

// ParsePage reads a 1-based page number; anything unparsable becomes 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Empty returns a first page with no items.
func Empty[T any](pageSize int) Page[T] {
	return Page[T]{Items: []T{}, Window: Paginate(0, pageSize, 1)}
}
