package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"acme-explorer-service/internal/domain/entity"
)

const dateOnly = "2006-01-02"

// parseTime accepts RFC 3339 timestamps and plain yyyy-mm-dd dates (UTC midnight)
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}

func queryString(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryFloat(q url.Values, key string) (*float64, error) {
	raw := queryString(q, key)
	if raw == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("%s must be a number", key))
	}
	return &f, nil
}

func queryInt(q url.Values, key string) (*int, error) {
	raw := queryString(q, key)
	if raw == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("%s must be an integer", key))
	}
	return &n, nil
}

func queryTime(q url.Values, key string) (*time.Time, error) {
	raw := queryString(q, key)
	if raw == nil {
		return nil, nil
	}
	t, err := parseTime(*raw)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("%s: %v", key, err))
	}
	return &t, nil
}

// parseFilter reads keyword, minPrice, maxPrice, startDate and endDate from the query string
func parseFilter(q url.Values) (entity.SearchFilter, error) {
	var (
		f   entity.SearchFilter
		err error
	)
	f.Keyword = queryString(q, "keyword")
	if f.MinPrice, err = queryFloat(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryFloat(q, "maxPrice"); err != nil {
		return f, err
	}
	if f.StartDate, err = queryTime(q, "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryTime(q, "endDate"); err != nil {
		return f, err
	}
	return f, nil
}

// parsePage reads page, perPage and sort
func parsePage(q url.Values, allowed []string) (entity.PageRequest, error) {
	page, err := queryInt(q, "page")
	if err != nil {
		return entity.PageRequest{}, err
	}
	perPage, err := queryInt(q, "perPage")
	if err != nil {
		return entity.PageRequest{}, err
	}
	return entity.NewPageRequest(page, perPage, q.Get("sort"), allowed)
}
