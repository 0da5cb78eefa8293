package rest

import (
	"net/http"

	"acme-explorer-service/internal/domain/entity"
)

type rebuildPeriodResponse struct {
	RebuildPeriod string `json:"rebuildPeriod"`
}

type cubeRebuildResponse struct {
	Cells int `json:"cells"`
}

// listIndicators handles GET /v1/datawarehouse
func (s *Server) listIndicators(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.warehouse.ListIndicators(r.Context(), actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []*entity.Indicator{}
	}
	writeJSON(w, http.StatusOK, list)
}

// latestIndicator handles GET /v1/datawarehouse/latest
func (s *Server) latestIndicator(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	indicator, err := s.warehouse.LatestIndicator(r.Context(), actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indicator)
}

// changeRebuildPeriod handles POST /v1/datawarehouse?rebuildPeriod=
func (s *Server) changeRebuildPeriod(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	period, err := s.warehouse.ChangeRebuildPeriod(r.Context(), actor, r.URL.Query().Get("rebuildPeriod"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rebuildPeriodResponse{RebuildPeriod: string(period)})
}

// rebuildCube handles POST /v1/datawarehouse/cube
func (s *Server) rebuildCube(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.warehouse.RebuildCube(r.Context(), actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cubeRebuildResponse{Cells: n})
}

// findCube handles GET /v1/datawarehouse/cube?p=&e=&operator=&v=
func (s *Server) findCube(w http.ResponseWriter, r *http.Request) {
	actor, err := mustActor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	query := entity.CubeQuery{
		Period:   q.Get("p"),
		Explorer: q.Get("e"),
	}
	if raw := q.Get("operator"); raw != "" {
		op, err := entity.ParseCubeOperator(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		query.Operator = op
	}
	if query.Value, err = queryFloat(q, "v"); err != nil {
		s.fail(w, r, err)
		return
	}

	cells, err := s.warehouse.FindCube(r.Context(), actor, query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if cells == nil {
		cells = []entity.CubeCell{}
	}
	writeJSON(w, http.StatusOK, cells)
}
