package entity

import (
	"fmt"
	"strings"
	"time"
)

// Finder is a saved, named search filter owned by exactly one actor
type Finder struct {
	ID        string     `json:"id"`
	ActorID   string     `json:"actor"`
	Name      string     `json:"name"`
	Keyword   *string    `json:"keyword"`
	MinPrice  *float64   `json:"minPrice"`
	MaxPrice  *float64   `json:"maxPrice"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Filter returns the search criteria stored in the finder
func (f Finder) Filter() SearchFilter {
	return SearchFilter{
		Keyword:   f.Keyword,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
	}
}

// Validate checks the save-time constraints of a finder
func (f Finder) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if f.ActorID == "" {
		return fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: minPrice must be >= 0", ErrValidation)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("%w: maxPrice must be >= 0", ErrValidation)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: minPrice must be less than or equal to maxPrice", ErrValidation)
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return fmt.Errorf("%w: startDate must be before or equal to endDate", ErrValidation)
	}
	return nil
}

// FinderPatch is a partial update; only fields present in the payload are applied
type FinderPatch struct {
	Name      *string
	Keyword   Optional[string]
	MinPrice  Optional[float64]
	MaxPrice  Optional[float64]
	StartDate Optional[time.Time]
	EndDate   Optional[time.Time]
}

// ApplyTo merges the patch into f
func (p FinderPatch) ApplyTo(f *Finder) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	p.Keyword.Apply(&f.Keyword)
	p.MinPrice.Apply(&f.MinPrice)
	p.MaxPrice.Apply(&f.MaxPrice)
	p.StartDate.Apply(&f.StartDate)
	p.EndDate.Apply(&f.EndDate)
}

// FinderListQuery scopes a finder listing. ActorID is empty for an unscoped admin listing.
type FinderListQuery struct {
	ActorID string
	Name    string
	Keyword string
	Page    PageRequest
}
