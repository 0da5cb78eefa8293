package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/policy"
)

type settingsResponse struct {
	MaxResultsFinder int                         `json:"maxResultsFinder"`
	TimeCachedFinder int                         `json:"timeCachedFinder"`
	Entries          []entity.ConfigurationEntry `json:"entries"`
}

type setConfigurationRequest struct {
	Value interface{} `json:"value"`
}

func (s *Server) requireAdmin(r *http.Request) error {
	actor, err := mustActor(r)
	if err != nil {
		return err
	}
	if !policy.CanManageConfiguration(actor) {
		return fmt.Errorf("%w: only admins can manage configuration", entity.ErrForbidden)
	}
	return nil
}

// getConfiguration handles GET /v1/configurations
func (s *Server) getConfiguration(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.settings.Entries(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []entity.ConfigurationEntry{}
	}
	effective := s.settings.FinderSettings(r.Context())
	writeJSON(w, http.StatusOK, settingsResponse{
		MaxResultsFinder: effective.MaxResults,
		TimeCachedFinder: effective.CacheTTLSeconds(),
		Entries:          entries,
	})
}

// setConfiguration handles PUT /v1/configurations/{key}.
// The value may be sent as a JSON number or string.
func (s *Server) setConfiguration(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		s.fail(w, r, err)
		return
	}
	var req setConfigurationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var value string
	switch v := req.Value.(type) {
	case string:
		value = v
	case float64:
		value = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		s.fail(w, r, badRequest("value must be a number or a string"))
		return
	}

	key := chi.URLParam(r, "key")
	if err := s.settings.Set(r.Context(), key, value); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entity.ConfigurationEntry{Key: key, Value: value})
}
