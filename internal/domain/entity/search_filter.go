package entity

import "time"

// SearchFilter is the set of optional criteria shared by finders and inline trip searches
type SearchFilter struct {
	Keyword   *string    `json:"keyword"`
	MinPrice  *float64   `json:"minPrice"`
	MaxPrice  *float64   `json:"maxPrice"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// TripPredicate is the persistence-agnostic query a trip store must execute.
// States is never empty for public searches.
type TripPredicate struct {
	States    []TripState
	Text      string
	MinPrice  *float64
	MaxPrice  *float64
	StartFrom *time.Time
	EndBefore *time.Time
}

// HasText reports whether a full-text clause is part of the predicate
func (p TripPredicate) HasText() bool {
	return p.Text != ""
}
