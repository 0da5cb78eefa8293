package usecase

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"acme-explorer-service/internal/domain/entity"
)

// FinderQuery is the pair of consistent outputs derived from one search filter:
// the canonical cache key and the trip store predicate.
type FinderQuery struct {
	Filter    entity.SearchFilter
	CacheKey  string
	Predicate entity.TripPredicate
}

// NormalizeFilter returns a copy of f with blank keywords dropped and dates in UTC
// at millisecond precision, so logically equal filters compare and serialize equally.
// Empty keyword strings mean "no keyword".
func NormalizeFilter(f entity.SearchFilter) entity.SearchFilter {
	var out entity.SearchFilter

	if f.Keyword != nil {
		if kw := strings.TrimSpace(*f.Keyword); kw != "" {
			out.Keyword = &kw
		}
	}
	out.MinPrice = normalizePrice(f.MinPrice)
	out.MaxPrice = normalizePrice(f.MaxPrice)
	out.StartDate = normalizeTime(f.StartDate)
	out.EndDate = normalizeTime(f.EndDate)

	return out
}

// non-finite prices cannot be compared or encoded and count as absent
func normalizePrice(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	v := *p
	return &v
}

func normalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Millisecond)
	return &v
}

// CacheKey serializes a normalized filter. Struct field order is fixed and absent
// fields encode as null, so the key does not depend on how the filter was built.
func CacheKey(f entity.SearchFilter) string {
	b, err := json.Marshal(NormalizeFilter(f))
	if err != nil {
		panic(err)
	}
	return string(b)
}

// BuildTripPredicate translates a filter into a trip store query restricted to
// publicly searchable states.
func BuildTripPredicate(f entity.SearchFilter) entity.TripPredicate {
	n := NormalizeFilter(f)

	states := make([]entity.TripState, len(entity.PublicTripStates))
	copy(states, entity.PublicTripStates)

	p := entity.TripPredicate{
		States:    states,
		MinPrice:  n.MinPrice,
		MaxPrice:  n.MaxPrice,
		StartFrom: n.StartDate,
		EndBefore: n.EndDate,
	}
	if n.Keyword != nil {
		p.Text = *n.Keyword
	}
	return p
}

// BuildFinderQuery derives the cache key and predicate together
func BuildFinderQuery(f entity.SearchFilter) FinderQuery {
	n := NormalizeFilter(f)
	return FinderQuery{
		Filter:    n,
		CacheKey:  CacheKey(n),
		Predicate: BuildTripPredicate(n),
	}
}
