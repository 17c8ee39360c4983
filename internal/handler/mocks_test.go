package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/handler"
	"github.com/pkordes/tripboard/internal/importer"
	"github.com/pkordes/tripboard/internal/service"
)

// The mocks below are test doubles for the handler servicer interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	header    func(ctx context.Context) (domain.TripHeader, error)
	setHeader func(ctx context.Context, h domain.TripHeader) (domain.TripHeader, error)
}

func (m *mockTripServicer) Header(ctx context.Context) (domain.TripHeader, error) {
	return m.header(ctx)
}
func (m *mockTripServicer) SetHeader(ctx context.Context, h domain.TripHeader) (domain.TripHeader, error) {
	return m.setHeader(ctx, h)
}

type mockStayServicer struct {
	list      func(ctx context.Context) ([]domain.Stay, error)
	add       func(ctx context.Context, stay domain.Stay) (domain.Stay, bool, error)
	remove    func(ctx context.Context, id string) error
	clear     func(ctx context.Context) error
	importEML func(ctx context.Context, raw string, defaults importer.StayDefaults) (service.StayImport, error)
}

func (m *mockStayServicer) List(ctx context.Context) ([]domain.Stay, error) { return m.list(ctx) }
func (m *mockStayServicer) Add(ctx context.Context, stay domain.Stay) (domain.Stay, bool, error) {
	return m.add(ctx, stay)
}
func (m *mockStayServicer) Remove(ctx context.Context, id string) error { return m.remove(ctx, id) }
func (m *mockStayServicer) Clear(ctx context.Context) error             { return m.clear(ctx) }
func (m *mockStayServicer) ImportEML(ctx context.Context, raw string, d importer.StayDefaults) (service.StayImport, error) {
	return m.importEML(ctx, raw, d)
}

type mockItineraryServicer struct {
	list           func(ctx context.Context) ([]domain.Stop, error)
	days           func(ctx context.Context) ([]domain.Day, error)
	add            func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	remove         func(ctx context.Context, id string) error
	clear          func(ctx context.Context) error
	importMarkdown func(ctx context.Context, doc string) (service.ItineraryImport, error)
	importKML      func(ctx context.Context, data []byte) (service.ItineraryImport, error)
}

func (m *mockItineraryServicer) List(ctx context.Context) ([]domain.Stop, error) { return m.list(ctx) }
func (m *mockItineraryServicer) Days(ctx context.Context) ([]domain.Day, error)  { return m.days(ctx) }
func (m *mockItineraryServicer) Add(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.add(ctx, stop)
}
func (m *mockItineraryServicer) Remove(ctx context.Context, id string) error { return m.remove(ctx, id) }
func (m *mockItineraryServicer) Clear(ctx context.Context) error             { return m.clear(ctx) }
func (m *mockItineraryServicer) ImportMarkdown(ctx context.Context, doc string) (service.ItineraryImport, error) {
	return m.importMarkdown(ctx, doc)
}
func (m *mockItineraryServicer) ImportKML(ctx context.Context, data []byte) (service.ItineraryImport, error) {
	return m.importKML(ctx, data)
}

type mockBudgetServicer struct {
	list   func(ctx context.Context) ([]domain.BudgetItem, error)
	add    func(ctx context.Context, desc, amount string) (domain.BudgetItem, error)
	update func(ctx context.Context, id, desc, amount string) (domain.BudgetItem, error)
	remove func(ctx context.Context, id string) error
	clear  func(ctx context.Context) error
	total  func(ctx context.Context) (decimal.Decimal, error)
}

func (m *mockBudgetServicer) List(ctx context.Context) ([]domain.BudgetItem, error) {
	return m.list(ctx)
}
func (m *mockBudgetServicer) Add(ctx context.Context, desc, amount string) (domain.BudgetItem, error) {
	return m.add(ctx, desc, amount)
}
func (m *mockBudgetServicer) Update(ctx context.Context, id, desc, amount string) (domain.BudgetItem, error) {
	return m.update(ctx, id, desc, amount)
}
func (m *mockBudgetServicer) Remove(ctx context.Context, id string) error { return m.remove(ctx, id) }
func (m *mockBudgetServicer) Clear(ctx context.Context) error             { return m.clear(ctx) }
func (m *mockBudgetServicer) Total(ctx context.Context) (decimal.Decimal, error) {
	return m.total(ctx)
}

type mockFlightServicer struct {
	list    func(ctx context.Context) ([]domain.Flight, error)
	add     func(ctx context.Context, f domain.Flight) (domain.Flight, bool, error)
	lookup  func(ctx context.Context, airlineCode, number string) (service.FlightLookup, error)
	refresh func(ctx context.Context) (service.RefreshResult, error)
	dedupe  func(ctx context.Context) (int, error)
	remove  func(ctx context.Context, id string) error
	clear   func(ctx context.Context) error
}

func (m *mockFlightServicer) List(ctx context.Context) ([]domain.Flight, error) { return m.list(ctx) }
func (m *mockFlightServicer) Add(ctx context.Context, f domain.Flight) (domain.Flight, bool, error) {
	return m.add(ctx, f)
}
func (m *mockFlightServicer) Lookup(ctx context.Context, code, number string) (service.FlightLookup, error) {
	return m.lookup(ctx, code, number)
}
func (m *mockFlightServicer) RefreshAll(ctx context.Context) (service.RefreshResult, error) {
	return m.refresh(ctx)
}
func (m *mockFlightServicer) Dedupe(ctx context.Context) (int, error)     { return m.dedupe(ctx) }
func (m *mockFlightServicer) Remove(ctx context.Context, id string) error { return m.remove(ctx, id) }
func (m *mockFlightServicer) Clear(ctx context.Context) error             { return m.clear(ctx) }

type mockWeatherServicer struct {
	list    func(ctx context.Context) ([]domain.WeatherPlace, error)
	add     func(ctx context.Context, query string) (domain.WeatherPlace, error)
	refresh func(ctx context.Context, id string) (domain.WeatherPlace, error)
	remove  func(ctx context.Context, id string) error
	clear   func(ctx context.Context) error
}

func (m *mockWeatherServicer) List(ctx context.Context) ([]domain.WeatherPlace, error) {
	return m.list(ctx)
}
func (m *mockWeatherServicer) Add(ctx context.Context, q string) (domain.WeatherPlace, error) {
	return m.add(ctx, q)
}
func (m *mockWeatherServicer) Refresh(ctx context.Context, id string) (domain.WeatherPlace, error) {
	return m.refresh(ctx, id)
}
func (m *mockWeatherServicer) Remove(ctx context.Context, id string) error { return m.remove(ctx, id) }
func (m *mockWeatherServicer) Clear(ctx context.Context) error             { return m.clear(ctx) }

type mockMapServicer struct {
	get          func(ctx context.Context) (*geojson.FeatureCollection, error)
	importKML    func(ctx context.Context, data []byte, annotate bool) (*geojson.FeatureCollection, error)
	importMyMaps func(ctx context.Context, link string) (*geojson.FeatureCollection, error)
	clear        func(ctx context.Context) error
	legend       func(ctx context.Context) ([]domain.LegendEntry, error)
}

func (m *mockMapServicer) Get(ctx context.Context) (*geojson.FeatureCollection, error) {
	return m.get(ctx)
}
func (m *mockMapServicer) ImportKML(ctx context.Context, data []byte, annotate bool) (*geojson.FeatureCollection, error) {
	return m.importKML(ctx, data, annotate)
}
func (m *mockMapServicer) ImportMyMaps(ctx context.Context, link string) (*geojson.FeatureCollection, error) {
	return m.importMyMaps(ctx, link)
}
func (m *mockMapServicer) Clear(ctx context.Context) error { return m.clear(ctx) }
func (m *mockMapServicer) Legend(ctx context.Context) ([]domain.LegendEntry, error) {
	return m.legend(ctx)
}

type mockCustomMapServicer struct {
	get          func(ctx context.Context) (domain.CustomMap, error)
	addLayer     func(ctx context.Context, l domain.MapLayer) (domain.MapLayer, error)
	removeLayer  func(ctx context.Context, id string) error
	addMarker    func(ctx context.Context, m domain.MapMarker) (domain.MapMarker, error)
	removeMarker func(ctx context.Context, id string) error
}

func (m *mockCustomMapServicer) Get(ctx context.Context) (domain.CustomMap, error) { return m.get(ctx) }
func (m *mockCustomMapServicer) AddLayer(ctx context.Context, l domain.MapLayer) (domain.MapLayer, error) {
	return m.addLayer(ctx, l)
}
func (m *mockCustomMapServicer) RemoveLayer(ctx context.Context, id string) error {
	return m.removeLayer(ctx, id)
}
func (m *mockCustomMapServicer) AddMarker(ctx context.Context, mk domain.MapMarker) (domain.MapMarker, error) {
	return m.addMarker(ctx, mk)
}
func (m *mockCustomMapServicer) RemoveMarker(ctx context.Context, id string) error {
	return m.removeMarker(ctx, id)
}

type mockPresetServicer struct {
	list  func(ctx context.Context) ([]string, error)
	apply func(ctx context.Context, name string) (service.PresetReport, error)
}

func (m *mockPresetServicer) List(ctx context.Context) ([]string, error) { return m.list(ctx) }
func (m *mockPresetServicer) Apply(ctx context.Context, name string) (service.PresetReport, error) {
	return m.apply(ctx, name)
}

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.StayServicer      = (*mockStayServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
	_ handler.BudgetServicer    = (*mockBudgetServicer)(nil)
	_ handler.FlightServicer    = (*mockFlightServicer)(nil)
	_ handler.WeatherServicer   = (*mockWeatherServicer)(nil)
	_ handler.MapServicer       = (*mockMapServicer)(nil)
	_ handler.CustomMapServicer = (*mockCustomMapServicer)(nil)
	_ handler.PresetServicer    = (*mockPresetServicer)(nil)
	_ handler.ExportServicer    = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given services into its router.
// This mirrors how main.go wires it, minus the middleware stack.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, handler.Options{}, nil).Handler()
}

// do sends a request through h and returns the recorder.
func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeError decodes an error response and returns its code.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}
