package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/usecase"
	"acme-explorer-service/pkg/logger"
)

// FinderServicer is the finder CRUD surface the handlers depend on
type FinderServicer interface {
	List(ctx context.Context, actor entity.Actor, query entity.FinderListQuery) (entity.Page[*entity.Finder], error)
	Create(ctx context.Context, actor entity.Actor, finder *entity.Finder) (*entity.Finder, error)
	Get(ctx context.Context, actor entity.Actor, id string) (*entity.Finder, error)
	Update(ctx context.Context, actor entity.Actor, id string, patch entity.FinderPatch) (*entity.Finder, error)
	Delete(ctx context.Context, actor entity.Actor, id string) error
}

// SearchServicer runs cached and paginated trip searches
type SearchServicer interface {
	SearchFinderTrips(ctx context.Context, actor entity.Actor, finderID string) ([]entity.CleanTrip, error)
	SearchCached(ctx context.Context, filter entity.SearchFilter) ([]entity.CleanTrip, error)
	FindTrips(ctx context.Context, filter entity.SearchFilter, page entity.PageRequest) (entity.Page[entity.CleanTrip], error)
}

// TripServicer is the trip lifecycle surface
type TripServicer interface {
	Create(ctx context.Context, actor entity.Actor, trip *entity.Trip) (*entity.Trip, error)
	Get(ctx context.Context, actor *entity.Actor, id string) (*entity.Trip, error)
	Update(ctx context.Context, actor entity.Actor, id string, patch entity.TripPatch) (*entity.Trip, error)
	Delete(ctx context.Context, actor entity.Actor, id string) error
	AddStage(ctx context.Context, actor entity.Actor, id string, stage entity.Stage) (*entity.Trip, error)
	RemoveStage(ctx context.Context, actor entity.Actor, id, stageID string) (*entity.Trip, error)
	Publish(ctx context.Context, actor entity.Actor, id string) (*entity.Trip, error)
	Cancel(ctx context.Context, actor entity.Actor, id, reason string) (*entity.Trip, error)
}

// WarehouseServicer is the admin data warehouse surface
type WarehouseServicer interface {
	ListIndicators(ctx context.Context, actor entity.Actor) ([]*entity.Indicator, error)
	LatestIndicator(ctx context.Context, actor entity.Actor) (*entity.Indicator, error)
	ChangeRebuildPeriod(ctx context.Context, actor entity.Actor, period string) (usecase.RebuildPeriod, error)
	RebuildCube(ctx context.Context, actor entity.Actor) (int, error)
	FindCube(ctx context.Context, actor entity.Actor, query entity.CubeQuery) ([]entity.CubeCell, error)
}

// SettingsServicer reads and writes runtime finder settings
type SettingsServicer interface {
	FinderSettings(ctx context.Context) entity.FinderSettings
	Entries(ctx context.Context) ([]entity.ConfigurationEntry, error)
	Set(ctx context.Context, key, value string) error
}

// Server holds the services behind the /v1 API
type Server struct {
	finders   FinderServicer
	search    SearchServicer
	trips     TripServicer
	warehouse WarehouseServicer
	settings  SettingsServicer
	auth      *Authenticator
	logger    logger.Logger
}

// NewServer creates the REST server
func NewServer(
	finders FinderServicer,
	search SearchServicer,
	trips TripServicer,
	warehouse WarehouseServicer,
	settings SettingsServicer,
	auth *Authenticator,
	logger logger.Logger,
) *Server {
	return &Server{
		finders:   finders,
		search:    search,
		trips:     trips,
		warehouse: warehouse,
		settings:  settings,
		auth:      auth,
		logger:    logger,
	}
}

// Routes registers every /v1 endpoint on r
func (s *Server) Routes(r chi.Router) {
	// public browse, INACTIVE trips hidden unless the owner is authenticated
	r.Group(func(r chi.Router) {
		r.Use(s.auth.OptionalActor)
		r.Get("/trips", s.listTrips)
		r.Get("/trips/{tripId}", s.getTrip)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireActor)

		r.Route("/finders", func(r chi.Router) {
			r.Get("/", s.listFinders)
			r.Post("/", s.createFinder)
			r.Get("/{finderId}", s.getFinder)
			r.Patch("/{finderId}", s.updateFinder)
			r.Delete("/{finderId}", s.deleteFinder)
			r.Get("/{finderId}/trips", s.searchFinderTrips)
		})

		r.Get("/trips/search", s.searchTrips)
		r.Post("/trips", s.createTrip)
		r.Patch("/trips/{tripId}", s.updateTrip)
		r.Delete("/trips/{tripId}", s.deleteTrip)
		r.Post("/trips/{tripId}/publish", s.publishTrip)
		r.Post("/trips/{tripId}/cancel", s.cancelTrip)
		r.Post("/trips/{tripId}/stages", s.addStage)
		r.Delete("/trips/{tripId}/stages/{stageId}", s.removeStage)

		r.Route("/datawarehouse", func(r chi.Router) {
			r.Get("/", s.listIndicators)
			r.Post("/", s.changeRebuildPeriod)
			r.Get("/latest", s.latestIndicator)
			r.Post("/cube", s.rebuildCube)
			r.Get("/cube", s.findCube)
		})

		r.Get("/configurations", s.getConfiguration)
		r.Put("/configurations/{key}", s.setConfiguration)
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err, s.logger)
}
