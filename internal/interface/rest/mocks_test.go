package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/interface/rest"
	"acme-explorer-service/internal/usecase"
	"acme-explorer-service/pkg/logger"
)

const testSecret = "test-secret"

// mockFinderServicer is a test double for rest.FinderServicer.
// Set only the method fields your test needs.
type mockFinderServicer struct {
	list   func(ctx context.Context, actor entity.Actor, query entity.FinderListQuery) (entity.Page[*entity.Finder], error)
	create func(ctx context.Context, actor entity.Actor, finder *entity.Finder) (*entity.Finder, error)
	get    func(ctx context.Context, actor entity.Actor, id string) (*entity.Finder, error)
	update func(ctx context.Context, actor entity.Actor, id string, patch entity.FinderPatch) (*entity.Finder, error)
	delete func(ctx context.Context, actor entity.Actor, id string) error
}

func (m *mockFinderServicer) List(ctx context.Context, actor entity.Actor, query entity.FinderListQuery) (entity.Page[*entity.Finder], error) {
	return m.list(ctx, actor, query)
}
func (m *mockFinderServicer) Create(ctx context.Context, actor entity.Actor, finder *entity.Finder) (*entity.Finder, error) {
	return m.create(ctx, actor, finder)
}
func (m *mockFinderServicer) Get(ctx context.Context, actor entity.Actor, id string) (*entity.Finder, error) {
	return m.get(ctx, actor, id)
}
func (m *mockFinderServicer) Update(ctx context.Context, actor entity.Actor, id string, patch entity.FinderPatch) (*entity.Finder, error) {
	return m.update(ctx, actor, id, patch)
}
func (m *mockFinderServicer) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return m.delete(ctx, actor, id)
}

type mockSearchServicer struct {
	searchFinder func(ctx context.Context, actor entity.Actor, finderID string) ([]entity.CleanTrip, error)
	searchCached func(ctx context.Context, filter entity.SearchFilter) ([]entity.CleanTrip, error)
	findTrips    func(ctx context.Context, filter entity.SearchFilter, page entity.PageRequest) (entity.Page[entity.CleanTrip], error)
}

func (m *mockSearchServicer) SearchFinderTrips(ctx context.Context, actor entity.Actor, finderID string) ([]entity.CleanTrip, error) {
	return m.searchFinder(ctx, actor, finderID)
}
func (m *mockSearchServicer) SearchCached(ctx context.Context, filter entity.SearchFilter) ([]entity.CleanTrip, error) {
	return m.searchCached(ctx, filter)
}
func (m *mockSearchServicer) FindTrips(ctx context.Context, filter entity.SearchFilter, page entity.PageRequest) (entity.Page[entity.CleanTrip], error) {
	return m.findTrips(ctx, filter, page)
}

type mockTripServicer struct {
	create      func(ctx context.Context, actor entity.Actor, trip *entity.Trip) (*entity.Trip, error)
	get         func(ctx context.Context, actor *entity.Actor, id string) (*entity.Trip, error)
	update      func(ctx context.Context, actor entity.Actor, id string, patch entity.TripPatch) (*entity.Trip, error)
	delete      func(ctx context.Context, actor entity.Actor, id string) error
	addStage    func(ctx context.Context, actor entity.Actor, id string, stage entity.Stage) (*entity.Trip, error)
	removeStage func(ctx context.Context, actor entity.Actor, id, stageID string) (*entity.Trip, error)
	publish     func(ctx context.Context, actor entity.Actor, id string) (*entity.Trip, error)
	cancel      func(ctx context.Context, actor entity.Actor, id, reason string) (*entity.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, actor entity.Actor, trip *entity.Trip) (*entity.Trip, error) {
	return m.create(ctx, actor, trip)
}
func (m *mockTripServicer) Get(ctx context.Context, actor *entity.Actor, id string) (*entity.Trip, error) {
	return m.get(ctx, actor, id)
}
func (m *mockTripServicer) Update(ctx context.Context, actor entity.Actor, id string, patch entity.TripPatch) (*entity.Trip, error) {
	return m.update(ctx, actor, id, patch)
}
func (m *mockTripServicer) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return m.delete(ctx, actor, id)
}
func (m *mockTripServicer) AddStage(ctx context.Context, actor entity.Actor, id string, stage entity.Stage) (*entity.Trip, error) {
	return m.addStage(ctx, actor, id, stage)
}
func (m *mockTripServicer) RemoveStage(ctx context.Context, actor entity.Actor, id, stageID string) (*entity.Trip, error) {
	return m.removeStage(ctx, actor, id, stageID)
}
func (m *mockTripServicer) Publish(ctx context.Context, actor entity.Actor, id string) (*entity.Trip, error) {
	return m.publish(ctx, actor, id)
}
func (m *mockTripServicer) Cancel(ctx context.Context, actor entity.Actor, id, reason string) (*entity.Trip, error) {
	return m.cancel(ctx, actor, id, reason)
}

type mockWarehouseServicer struct {
	list         func(ctx context.Context, actor entity.Actor) ([]*entity.Indicator, error)
	latest       func(ctx context.Context, actor entity.Actor) (*entity.Indicator, error)
	changePeriod func(ctx context.Context, actor entity.Actor, period string) (usecase.RebuildPeriod, error)
	rebuildCube  func(ctx context.Context, actor entity.Actor) (int, error)
	findCube     func(ctx context.Context, actor entity.Actor, query entity.CubeQuery) ([]entity.CubeCell, error)
}

func (m *mockWarehouseServicer) ListIndicators(ctx context.Context, actor entity.Actor) ([]*entity.Indicator, error) {
	return m.list(ctx, actor)
}
func (m *mockWarehouseServicer) LatestIndicator(ctx context.Context, actor entity.Actor) (*entity.Indicator, error) {
	return m.latest(ctx, actor)
}
func (m *mockWarehouseServicer) ChangeRebuildPeriod(ctx context.Context, actor entity.Actor, period string) (usecase.RebuildPeriod, error) {
	return m.changePeriod(ctx, actor, period)
}
func (m *mockWarehouseServicer) RebuildCube(ctx context.Context, actor entity.Actor) (int, error) {
	return m.rebuildCube(ctx, actor)
}
func (m *mockWarehouseServicer) FindCube(ctx context.Context, actor entity.Actor, query entity.CubeQuery) ([]entity.CubeCell, error) {
	return m.findCube(ctx, actor, query)
}

type mockSettingsServicer struct {
	settings entity.FinderSettings
	entries  []entity.ConfigurationEntry
	set      func(ctx context.Context, key, value string) error
}

func (m *mockSettingsServicer) FinderSettings(ctx context.Context) entity.FinderSettings {
	return m.settings
}
func (m *mockSettingsServicer) Entries(ctx context.Context) ([]entity.ConfigurationEntry, error) {
	return m.entries, nil
}
func (m *mockSettingsServicer) Set(ctx context.Context, key, value string) error {
	return m.set(ctx, key, value)
}

// compile-time checks: mocks must satisfy the servicer interfaces.
var (
	_ rest.FinderServicer    = (*mockFinderServicer)(nil)
	_ rest.SearchServicer    = (*mockSearchServicer)(nil)
	_ rest.TripServicer      = (*mockTripServicer)(nil)
	_ rest.WarehouseServicer = (*mockWarehouseServicer)(nil)
	_ rest.SettingsServicer  = (*mockSettingsServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

type services struct {
	finders   *mockFinderServicer
	search    *mockSearchServicer
	trips     *mockTripServicer
	warehouse *mockWarehouseServicer
	settings  *mockSettingsServicer
}

func newServices() *services {
	return &services{
		finders:   &mockFinderServicer{},
		search:    &mockSearchServicer{},
		trips:     &mockTripServicer{},
		warehouse: &mockWarehouseServicer{},
		settings:  &mockSettingsServicer{},
	}
}

// handler mounts the server under /v1 on a chi router, the way the production router does
func (s *services) handler() http.Handler {
	srv := rest.NewServer(s.finders, s.search, s.trips, s.warehouse, s.settings,
		rest.NewAuthenticator(testSecret), logger.NewNopLogger())
	r := chi.NewRouter()
	r.Route("/v1", srv.Routes)
	return r
}

var (
	explorerActor = entity.Actor{ID: "explorer-1", Role: entity.RoleExplorer}
	managerActor  = entity.Actor{ID: "manager-1", Role: entity.RoleManager}
	adminActor    = entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}
)

func tokenFor(t *testing.T, actor entity.Actor) string {
	t.Helper()
	token, err := rest.NewAuthenticator(testSecret).IssueToken(actor, time.Hour)
	require.NoError(t, err)
	return token
}

// do sends a request with an optional actor and JSON body
func do(t *testing.T, h http.Handler, method, target string, actor *entity.Actor, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewBuffer(raw)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, *actor))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) rest.ErrorResponse {
	t.Helper()
	var resp rest.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
