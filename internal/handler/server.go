// Package handler implements the HTTP API of the trip board.
// All handlers are methods on Server. Methods are split into
// collection-specific files (stays.go, flights.go, etc.) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/events"
	"github.com/pkordes/tripboard/internal/importer"
	"github.com/pkordes/tripboard/internal/service"
)

// The servicer interfaces are declared here, in the consumer package, so
// handler tests can inject mocks without a store or remote clients.

type TripServicer interface {
	Header(ctx context.Context) (domain.TripHeader, error)
	SetHeader(ctx context.Context, h domain.TripHeader) (domain.TripHeader, error)
}

type StayServicer interface {
	List(ctx context.Context) ([]domain.Stay, error)
	Add(ctx context.Context, stay domain.Stay) (domain.Stay, bool, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	ImportEML(ctx context.Context, raw string, defaults importer.StayDefaults) (service.StayImport, error)
}

type ItineraryServicer interface {
	List(ctx context.Context) ([]domain.Stop, error)
	Days(ctx context.Context) ([]domain.Day, error)
	Add(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	ImportMarkdown(ctx context.Context, doc string) (service.ItineraryImport, error)
	ImportKML(ctx context.Context, data []byte) (service.ItineraryImport, error)
}

type BudgetServicer interface {
	List(ctx context.Context) ([]domain.BudgetItem, error)
	Add(ctx context.Context, desc, amount string) (domain.BudgetItem, error)
	Update(ctx context.Context, id, desc, amount string) (domain.BudgetItem, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Total(ctx context.Context) (decimal.Decimal, error)
}

type FlightServicer interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Add(ctx context.Context, f domain.Flight) (domain.Flight, bool, error)
	Lookup(ctx context.Context, airlineCode, number string) (service.FlightLookup, error)
	RefreshAll(ctx context.Context) (service.RefreshResult, error)
	Dedupe(ctx context.Context) (int, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type WeatherServicer interface {
	List(ctx context.Context) ([]domain.WeatherPlace, error)
	Add(ctx context.Context, query string) (domain.WeatherPlace, error)
	Refresh(ctx context.Context, id string) (domain.WeatherPlace, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type MapServicer interface {
	Get(ctx context.Context) (*geojson.FeatureCollection, error)
	ImportKML(ctx context.Context, data []byte, annotate bool) (*geojson.FeatureCollection, error)
	ImportMyMaps(ctx context.Context, link string) (*geojson.FeatureCollection, error)
	Clear(ctx context.Context) error
	Legend(ctx context.Context) ([]domain.LegendEntry, error)
}

type CustomMapServicer interface {
	Get(ctx context.Context) (domain.CustomMap, error)
	AddLayer(ctx context.Context, l domain.MapLayer) (domain.MapLayer, error)
	RemoveLayer(ctx context.Context, id string) error
	AddMarker(ctx context.Context, m domain.MapMarker) (domain.MapMarker, error)
	RemoveMarker(ctx context.Context, id string) error
}

type PresetServicer interface {
	List(ctx context.Context) ([]string, error)
	Apply(ctx context.Context, name string) (service.PresetReport, error)
}

type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// ChangeSource feeds the /events websocket.
type ChangeSource interface {
	Subscribe(buffer int) (<-chan events.Change, func())
}

// Services bundles every dependency of Server. A nil field disables the
// routes that need it.
type Services struct {
	Trip      TripServicer
	Stays     StayServicer
	Itinerary ItineraryServicer
	Budget    BudgetServicer
	Flights   FlightServicer
	Weather   WeatherServicer
	Maps      MapServicer
	CustomMap CustomMapServicer
	Presets   PresetServicer
	Export    ExportServicer
	Changes   ChangeSource
}

// Options tune request handling.
type Options struct {
	// AllowedOrigins are accepted on websocket upgrades. Requests without
	// an Origin header are always accepted.
	AllowedOrigins []string

	// OpenAPI is served at /openapi.yaml when set.
	OpenAPI []byte
}

// Server implements every API endpoint.
type Server struct {
	svc    Services
	opts   Options
	logger *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, opts: opts, logger: logger}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, Options{}, nil)
}

// Routes mounts every endpoint on a fresh chi router. Middleware is applied
// by the caller so tests can exercise handlers without it.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	if s.opts.OpenAPI != nil {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}
	if s.svc.Changes != nil {
		r.Get("/events", s.StreamEvents)
	}

	if s.svc.Trip != nil {
		r.Get("/trip", s.GetTrip)
		r.Put("/trip", s.UpdateTrip)
	}

	if s.svc.Stays != nil {
		r.Route("/stays", func(r chi.Router) {
			r.Get("/", s.ListStays)
			r.Post("/", s.CreateStay)
			r.Delete("/", s.ClearStays)
			r.Post("/import", s.ImportStay)
			r.Delete("/{id}", s.DeleteStay)
		})
	}

	if s.svc.Itinerary != nil {
		r.Route("/itinerary", func(r chi.Router) {
			r.Get("/", s.ListStops)
			r.Post("/", s.CreateStop)
			r.Delete("/", s.ClearStops)
			r.Get("/days", s.ListDays)
			r.Post("/import/markdown", s.ImportItineraryMarkdown)
			r.Post("/import/kml", s.ImportItineraryKML)
			r.Delete("/{id}", s.DeleteStop)
		})
	}

	if s.svc.Budget != nil {
		r.Route("/budget", func(r chi.Router) {
			r.Get("/", s.ListBudget)
			r.Post("/", s.CreateBudgetItem)
			r.Delete("/", s.ClearBudget)
			r.Get("/total", s.GetBudgetTotal)
			r.Patch("/{id}", s.UpdateBudgetItem)
			r.Delete("/{id}", s.DeleteBudgetItem)
		})
	}

	if s.svc.Flights != nil {
		r.Route("/flights", func(r chi.Router) {
			r.Get("/", s.ListFlights)
			r.Post("/", s.CreateFlight)
			r.Delete("/", s.ClearFlights)
			r.Post("/lookup", s.LookupFlight)
			r.Post("/refresh", s.RefreshFlights)
			r.Post("/dedupe", s.DedupeFlights)
			r.Delete("/{id}", s.DeleteFlight)
		})
	}

	if s.svc.Weather != nil {
		r.Route("/weather", func(r chi.Router) {
			r.Get("/", s.ListWeather)
			r.Post("/", s.CreateWeatherPlace)
			r.Delete("/", s.ClearWeather)
			r.Post("/{id}/refresh", s.RefreshWeatherPlace)
			r.Delete("/{id}", s.DeleteWeatherPlace)
		})
	}

	if s.svc.Maps != nil {
		r.Route("/map", func(r chi.Router) {
			r.Get("/", s.GetMap)
			r.Delete("/", s.ClearMap)
			r.Get("/legend", s.GetLegend)
			r.Post("/kml", s.ImportMapKML)
			r.Post("/mymaps", s.ImportMyMaps)
		})
	}

	if s.svc.CustomMap != nil {
		r.Route("/custom-map", func(r chi.Router) {
			r.Get("/", s.GetCustomMap)
			r.Post("/layers", s.CreateLayer)
			r.Delete("/layers/{id}", s.DeleteLayer)
			r.Post("/markers", s.CreateMarker)
			r.Delete("/markers/{id}", s.DeleteMarker)
		})
	}

	if s.svc.Presets != nil {
		r.Get("/presets", s.ListPresets)
		r.Post("/presets/{name}/apply", s.ApplyPreset)
	}

	if s.svc.Export != nil {
		r.Get("/export", s.GetExport)
	}

	return r
}

// Handler is Routes as a plain http.Handler.
func (s *Server) Handler() http.Handler {
	return s.Routes()
}
