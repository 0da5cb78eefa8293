package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/usecase"
)

type stageRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (s stageRequest) toStage() entity.Stage {
	return entity.Stage{Title: s.Title, Description: s.Description, Price: s.Price}
}

type tripRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate"`
	Pictures     []string       `json:"pictures"`
	Stages       []stageRequest `json:"stages"`
}

type tripPatchRequest struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	Requirements *[]string       `json:"requirements"`
	StartDate    *string         `json:"startDate"`
	EndDate      *string         `json:"endDate"`
	Pictures     *[]string       `json:"pictures"`
	Stages       *[]stageRequest `json:"stages"`
}

type cancelRequest struct {
	Reason string `json:"reasonCancelled"`
}

type tripResponse struct {
	ID              string           `json:"id"`
	Ticker          string           `json:"ticker"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	Requirements    []string         `json:"requirements"`
	StartDate       time.Time        `json:"startDate"`
	EndDate         time.Time        `json:"endDate"`
	Pictures        []string         `json:"pictures"`
	State           entity.TripState `json:"state"`
	ReasonCancelled string           `json:"reasonCancelled,omitempty"`
	Stages          []entity.Stage   `json:"stages"`
	Manager         string           `json:"manager"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func toTripResponse(t *entity.Trip) tripResponse {
	requirements := t.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	pictures := t.Pictures
	if pictures == nil {
		pictures = []string{}
	}
	stages := t.Stages
	if stages == nil {
		stages = []entity.Stage{}
	}
	return tripResponse{
		ID:              t.ID,
		Ticker:          t.Ticker,
		Title:           t.Title,
		Description:     t.Description,
		Price:           t.Price,
		Requirements:    requirements,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		Pictures:        pictures,
		State:           t.State,
		ReasonCancelled: t.ReasonCancelled,
		Stages:          stages,
		Manager:         t.ManagerID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func requiredTime(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return time.Time{}, badRequest(field + ": " + err.Error())
	}
	return t, nil
}

func (req tripRequest) toTrip() (*entity.Trip, error) {
	start, err := requiredTime("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := requiredTime("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	stages := make([]entity.Stage, 0, len(req.Stages))
	for _, st := range req.Stages {
		stages = append(stages, st.toStage())
	}
	return &entity.Trip{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		StartDate:    start,
		EndDate:      end,
		Pictures:     req.Pictures,
		Stages:       stages,
	}, nil
}

func (req tripPatchRequest) toPatch() (entity.TripPatch, error) {
	patch := entity.TripPatch{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Pictures:     req.Pictures,
	}
	if req.StartDate != nil {
		t, err := parseTime(*req.StartDate)
		if err != nil {
			return patch, badRequest("startDate: " + err.Error())
		}
		patch.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseTime(*req.EndDate)
		if err != nil {
			return patch, badRequest("endDate: " + err.Error())
		}
		patch.EndDate = &t
	}
	if req.Stages != nil {
		stages := make([]entity.Stage, 0, len(*req.Stages))
		for _, st := range *req.Stages {
			stages = append(stages, st.toStage())
		}
		patch.Stages = &stages
	}
	return patch, nil
}

// listTrips handles GET /v1/trips
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := parsePage(q, usecase.TripSortFields)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.search.FindTrips(r.Context(), filter, page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// searchTrips handles GET /v1/trips/search
func (s *Server) searchTrips(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trips, err := s.search.SearchCached(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// getTrip handles GET /v1/trips/{tripId}
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	var actor *entity.Actor
	if a, ok := ActorFromContext(r.Context()); ok {
		actor = &a
	}
	trip, err := s.trips.Get(r.Context(), actor, chi.URLParam(r, "tripId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// createTrip handles POST /v1/trips
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	trip, err := req.toTrip()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	created, err := s.trips.Create(r.Context(), actor, trip)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripResponse(created))
}

// updateTrip handles PATCH /v1/trips/{tripId}
func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req tripPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.trips.Update(r.Context(), actor, chi.URLParam(r, "tripId"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(updated))
}

// deleteTrip handles DELETE /v1/trips/{tripId}
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.trips.Delete(r.Context(), actor, chi.URLParam(r, "tripId")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// publishTrip handles POST /v1/trips/{tripId}/publish
func (s *Server) publishTrip(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trip, err := s.trips.Publish(r.Context(), actor, chi.URLParam(r, "tripId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// cancelTrip handles POST /v1/trips/{tripId}/cancel
func (s *Server) cancelTrip(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	trip, err := s.trips.Cancel(r.Context(), actor, chi.URLParam(r, "tripId"), req.Reason)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// addStage handles POST /v1/trips/{tripId}/stages
func (s *Server) addStage(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req stageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	trip, err := s.trips.AddStage(r.Context(), actor, chi.URLParam(r, "tripId"), req.toStage())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripResponse(trip))
}

// removeStage handles DELETE /v1/trips/{tripId}/stages/{stageId}
func (s *Server) removeStage(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trip, err := s.trips.RemoveStage(r.Context(), actor, chi.URLParam(r, "tripId"), chi.URLParam(r, "stageId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}
