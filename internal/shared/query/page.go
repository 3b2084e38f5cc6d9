// Package query defines the uniform paginated read contract shared by every
// admin collection: 1-based pages, optional case-insensitive search, an
// allow-listed sort column, and a newest-first default ordering.
package query

import (
	"sort"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageRequest captures pagination, search, and sort parameters.
type PageRequest struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string
}

// Normalize clamps the request into usable bounds. A zero request becomes
// page 1 with the default page size.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	r.Search = strings.TrimSpace(r.Search)
	if r.SortOrder != SortAsc && r.SortOrder != SortDesc {
		r.SortOrder = ""
	}
	return r
}

// Offset returns the zero-based row offset of the requested page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Descending reports whether the requested order is descending. Callers that
// supply no sort column apply their own created_at-descending default instead.
func (r PageRequest) Descending() bool {
	return r.SortOrder == SortDesc
}

// SortColumn resolves the requested sort column against an allow-list of
// exposed name -> storage column mappings. Unknown or empty columns resolve
// to the empty string so repositories fall back to the default ordering
// rather than failing.
func (r PageRequest) SortColumn(allowed map[string]string) string {
	if r.SortBy == "" {
		return ""
	}
	return allowed[r.SortBy]
}

// PageResult is the uniform paginated projection envelope.
type PageResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPageResult assembles a result envelope from a page of rows and the
// total matching-row count.
func NewPageResult[T any](data []T, total int64, req PageRequest) PageResult[T] {
	if data == nil {
		data = []T{}
	}
	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(total, req.PageSize),
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Paginate slices an already-filtered, already-sorted dataset into the
// requested page. Pages past the end yield an empty data slice with the
// unchanged total, so callers can clamp their UI.
func Paginate[T any](items []T, req PageRequest) PageResult[T] {
	total := int64(len(items))
	start := req.Offset()
	if start >= len(items) {
		return NewPageResult([]T{}, total, req)
	}
	end := start + req.PageSize
	if end > len(items) {
		end = len(items)
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return NewPageResult(page, total, req)
}

// MatchesSearch reports whether any of the candidate fields contains the
// search term, case-insensitively. An empty term matches everything.
func MatchesSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// SortStable sorts items with the provided less function, honoring the
// requested direction.
func SortStable[T any](items []T, descending bool, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
