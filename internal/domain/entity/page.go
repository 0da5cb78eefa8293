package entity

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultPerPage   = 10
	MaxPerPage       = 100
	DefaultSortField = "createdAt"
)

// PageRequest carries page/perPage/sort values from the HTTP layer to the repositories.
// Page is 0-indexed.
type PageRequest struct {
	Page      int
	PerPage   int
	SortField string
	SortDesc  bool
}

// NewPageRequest builds a PageRequest from optional query values.
// Nil pointers fall back to page=0, perPage=10; perPage is capped at 100.
// sort has the form "field,asc|desc" and field must be one of allowed.
func NewPageRequest(page, perPage *int, sort string, allowed []string) (PageRequest, error) {
	p := PageRequest{Page: 0, PerPage: DefaultPerPage, SortField: DefaultSortField, SortDesc: true}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if perPage != nil && *perPage >= 1 {
		p.PerPage = *perPage
		if p.PerPage > MaxPerPage {
			p.PerPage = MaxPerPage
		}
	}

	sort = strings.TrimSpace(sort)
	if sort == "" {
		return p, nil
	}

	field, direction, _ := strings.Cut(sort, ",")
	field = strings.TrimSpace(field)
	if !contains(allowed, field) {
		return PageRequest{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidRequest, field)
	}
	p.SortField = field

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc", "1":
		p.SortDesc = false
	case "desc", "-1":
		p.SortDesc = true
	default:
		return PageRequest{}, fmt.Errorf("%w: sort direction must be asc or desc", ErrInvalidRequest)
	}
	return p, nil
}

// Skip returns the number of records to skip
func (p PageRequest) Skip() int {
	return p.Page * p.PerPage
}

// Page is one page of records plus pagination metadata
type Page[T any] struct {
	Records []T   `json:"records"`
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// NewPage wraps records with metadata derived from req and total
func NewPage[T any](records []T, req PageRequest, total int64) Page[T] {
	if records == nil {
		records = []T{}
	}
	pages := 0
	if req.PerPage > 0 {
		pages = int(math.Ceil(float64(total) / float64(req.PerPage)))
	}
	return Page[T]{
		Records: records,
		Page:    req.Page,
		PerPage: req.PerPage,
		Pages:   pages,
		Total:   total,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
