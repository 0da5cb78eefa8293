package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/usecase"
)

type finderRequest struct {
	Actor     string   `json:"actor"`
	Name      string   `json:"name"`
	Keyword   *string  `json:"keyword"`
	MinPrice  *float64 `json:"minPrice"`
	MaxPrice  *float64 `json:"maxPrice"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return badRequest("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("malformed JSON body")
	}
	return nil
}

func optionalTime(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseTime(*raw)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("%s: %v", field, err))
	}
	return &t, nil
}

func (req finderRequest) toFinder() (*entity.Finder, error) {
	start, err := optionalTime("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalTime("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	return &entity.Finder{
		ActorID:   req.Actor,
		Name:      req.Name,
		Keyword:   req.Keyword,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// decodeOptional fills dst from a raw patch field; JSON null clears the field
func decodeOptional[T any](fields map[string]json.RawMessage, key string, dst *entity.Optional[T]) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if string(raw) == "null" {
		*dst = entity.Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return badRequest(fmt.Sprintf("%s has the wrong type", key))
	}
	*dst = entity.Some(v)
	return nil
}

func decodeOptionalTime(fields map[string]json.RawMessage, key string, dst *entity.Optional[time.Time]) error {
	var s entity.Optional[string]
	if err := decodeOptional(fields, key, &s); err != nil {
		return err
	}
	if !s.Set {
		return nil
	}
	if s.Value == nil {
		*dst = entity.Null[time.Time]()
		return nil
	}
	t, err := parseTime(*s.Value)
	if err != nil {
		return badRequest(fmt.Sprintf("%s: %v", key, err))
	}
	*dst = entity.Some(t)
	return nil
}

func decodeFinderPatch(r *http.Request) (entity.FinderPatch, error) {
	var (
		patch  entity.FinderPatch
		fields map[string]json.RawMessage
	)
	if err := decodeJSON(r, &fields); err != nil {
		return patch, err
	}
	if raw, ok := fields["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return patch, badRequest("name must be a string")
		}
		patch.Name = &name
	}
	if err := decodeOptional(fields, "keyword", &patch.Keyword); err != nil {
		return patch, err
	}
	if err := decodeOptional(fields, "minPrice", &patch.MinPrice); err != nil {
		return patch, err
	}
	if err := decodeOptional(fields, "maxPrice", &patch.MaxPrice); err != nil {
		return patch, err
	}
	if err := decodeOptionalTime(fields, "startDate", &patch.StartDate); err != nil {
		return patch, err
	}
	if err := decodeOptionalTime(fields, "endDate", &patch.EndDate); err != nil {
		return patch, err
	}
	return patch, nil
}

// listFinders handles GET /v1/finders
func (s *Server) listFinders(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	page, err := parsePage(q, usecase.FinderSortFields)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	query := entity.FinderListQuery{
		ActorID: q.Get("actor"),
		Name:    q.Get("name"),
		Keyword: q.Get("keyword"),
		Page:    page,
	}

	result, err := s.finders.List(r.Context(), actor, query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// createFinder handles POST /v1/finders
func (s *Server) createFinder(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req finderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	finder, err := req.toFinder()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	created, err := s.finders.Create(r.Context(), actor, finder)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// getFinder handles GET /v1/finders/{finderId}
func (s *Server) getFinder(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	finder, err := s.finders.Get(r.Context(), actor, chi.URLParam(r, "finderId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, finder)
}

// updateFinder handles PATCH /v1/finders/{finderId}
func (s *Server) updateFinder(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch, err := decodeFinderPatch(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	finder, err := s.finders.Update(r.Context(), actor, chi.URLParam(r, "finderId"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, finder)
}

// deleteFinder handles DELETE /v1/finders/{finderId}
func (s *Server) deleteFinder(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.finders.Delete(r.Context(), actor, chi.URLParam(r, "finderId")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// searchFinderTrips handles GET /v1/finders/{finderId}/trips
func (s *Server) searchFinderTrips(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trips, err := s.search.SearchFinderTrips(r.Context(), actor, chi.URLParam(r, "finderId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}
