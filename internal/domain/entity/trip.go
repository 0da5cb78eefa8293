package entity

import (
	"fmt"
	"strings"
	"time"

	"acme-explorer-service/pkg/utils"
)

// TripState is the publication state of a trip
type TripState string

const (
	TripStateInactive  TripState = "INACTIVE"
	TripStateActive    TripState = "ACTIVE"
	TripStateCancelled TripState = "CANCELLED"
)

// PublicTripStates are the states visible to searches. INACTIVE trips are never searchable.
var PublicTripStates = []TripState{TripStateActive, TripStateCancelled}

// Stage is one priced leg of a trip
type Stage struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Trip is a marketplace offer managed by a single manager
type Trip struct {
	ID              string
	Ticker          string
	Title           string
	Description     string
	Price           float64
	Requirements    []string
	StartDate       time.Time
	EndDate         time.Time
	Pictures        []string
	State           TripState
	ReasonCancelled string
	Stages          []Stage
	ManagerID       string
	Manager         *ActorSummary // populated by searches
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RecomputePrice sets Price to the sum of the stage prices
func (t *Trip) RecomputePrice() {
	total := 0.0
	for _, s := range t.Stages {
		total += s.Price
	}
	t.Price = total
}

// Validate checks the structural trip constraints. now is used for the future start date rule,
// pass the zero time to skip it (e.g. when re-validating an existing trip).
func (t Trip) Validate(now time.Time) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrValidation)
	}
	if !now.IsZero() && !t.StartDate.After(now) {
		return fmt.Errorf("%w: startDate must be in the future", ErrValidation)
	}
	if !t.EndDate.After(t.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrValidation)
	}
	if len(t.Stages) == 0 {
		return fmt.Errorf("%w: at least one stage is required", ErrValidation)
	}
	for i, s := range t.Stages {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	if t.State == TripStateCancelled && strings.TrimSpace(t.ReasonCancelled) == "" {
		return fmt.Errorf("%w: reasonCancelled is required for cancelled trips", ErrValidation)
	}
	return nil
}

// Validate checks a single stage
func (s Stage) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: stage title is required", ErrValidation)
	}
	if strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("%w: stage description is required", ErrValidation)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: stage price must be >= 0", ErrValidation)
	}
	return nil
}

// CleanTrip is the client-safe projection returned by searches and cached as-is
type CleanTrip struct {
	ID              string        `json:"id"`
	Ticker          string        `json:"ticker"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Price           float64       `json:"price"`
	Requirements    []string      `json:"requirements"`
	StartDate       string        `json:"startDate"`
	EndDate         string        `json:"endDate"`
	Pictures        []string      `json:"pictures"`
	State           TripState     `json:"state"`
	ReasonCancelled string        `json:"reasonCancelled,omitempty"`
	Stages          []Stage       `json:"stages"`
	Manager         *ActorSummary `json:"manager"`
}

// Cleanup projects the trip to its client-safe shape with dd/mm/yyyy dates
func (t Trip) Cleanup() CleanTrip {
	manager := t.Manager
	if manager == nil && t.ManagerID != "" {
		manager = &ActorSummary{ID: t.ManagerID}
	}
	requirements := t.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	pictures := t.Pictures
	if pictures == nil {
		pictures = []string{}
	}
	stages := make([]Stage, len(t.Stages))
	copy(stages, t.Stages)

	return CleanTrip{
		ID:              t.ID,
		Ticker:          t.Ticker,
		Title:           t.Title,
		Description:     t.Description,
		Price:           t.Price,
		Requirements:    requirements,
		StartDate:       t.StartDate.Format(utils.DATE_LAYOUT),
		EndDate:         t.EndDate.Format(utils.DATE_LAYOUT),
		Pictures:        pictures,
		State:           t.State,
		ReasonCancelled: t.ReasonCancelled,
		Stages:          stages,
		Manager:         manager,
	}
}

// CleanTrips projects a list of trips
func CleanTrips(trips []*Trip) []CleanTrip {
	out := make([]CleanTrip, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.Cleanup())
	}
	return out
}

// TripSearchOptions controls ordering and size of a trip store query
type TripSearchOptions struct {
	Limit           int
	Skip            int
	SortField       string
	SortDesc        bool
	PopulateManager bool
}

// TripPatch is a partial update of an INACTIVE trip
type TripPatch struct {
	Title        *string
	Description  *string
	Requirements *[]string
	StartDate    *time.Time
	EndDate      *time.Time
	Pictures     *[]string
	Stages       *[]Stage
}

// ApplyTo merges the patch into t and recomputes the price when stages change
func (p TripPatch) ApplyTo(t *Trip) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Requirements != nil {
		t.Requirements = *p.Requirements
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Pictures != nil {
		t.Pictures = *p.Pictures
	}
	if p.Stages != nil {
		t.Stages = *p.Stages
		t.RecomputePrice()
	}
}
