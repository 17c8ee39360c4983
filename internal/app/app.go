// Package app wires configuration into a running trip board: the store
// backend, the change hub, the remote clients and every service. Both the
// API server and tripctl build on it so they share one set of wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/paulmach/orb/geojson"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/tripboard/assets"
	"github.com/pkordes/tripboard/internal/cache"
	"github.com/pkordes/tripboard/internal/client"
	"github.com/pkordes/tripboard/internal/config"
	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/events"
	"github.com/pkordes/tripboard/internal/handler"
	"github.com/pkordes/tripboard/internal/ratelimit"
	"github.com/pkordes/tripboard/internal/repo"
	"github.com/pkordes/tripboard/internal/service"
	"github.com/pkordes/tripboard/migrations"
)

// redisKeyPrefix namespaces the collections in a shared Redis.
const redisKeyPrefix = "tripboard:"

// App holds every wired component. Close releases the connections New
// opened.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Hub    *events.Hub

	// Pool is set for the postgres backend only.
	Pool *pgxpool.Pool

	Trip      *service.TripService
	Stays     *service.AccommodationService
	Itinerary *service.ItineraryService
	Budget    *service.BudgetService
	Flights   *service.FlightService
	Weather   *service.WeatherService
	Maps      *service.MapService
	CustomMap *service.CustomMapService
	Presets   *service.PresetService
	Export    *service.ExportService

	closers []func() error
}

// New connects the configured backend and builds the services.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger, Hub: events.NewHub(logger)}

	store, rdb, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	c, err := a.openCache(ctx, rdb)
	if err != nil {
		a.Close()
		return nil, err
	}

	fetchCfg := client.DefaultFetchConfig()
	fetchCfg.Timeout = cfg.HTTPTimeout
	limiter := ratelimit.NewProviderLimiter(ratelimit.DefaultConfig())
	// The free Aviationstack plan allows very few calls.
	limiter.SetProviderLimit("aviationstack", 1, 2)
	fetchCfg.RateLimiter = limiter
	fetcher := client.NewFetcher(&http.Client{Timeout: cfg.HTTPTimeout}, fetchCfg, logger)

	weatherAPI := client.NewOpenMeteo(fetcher, cfg.GeocodingURL, cfg.ForecastURL, c)
	flightAPI := client.NewAviationstack(fetcher, cfg.AviationstackURL, cfg.AviationstackKey, c)
	myMaps := client.NewMyMaps(fetcher, cfg.MyMapsURL)

	stayDoc := repo.NewDoc[[]domain.Stay](store, domain.KeyStays, a.Hub)
	stopDoc := repo.NewDoc[[]domain.Stop](store, domain.KeyItinerary, a.Hub)
	budgetDoc := repo.NewDoc[[]domain.BudgetItem](store, domain.KeyBudget, a.Hub)
	flightDoc := repo.NewDoc[[]domain.Flight](store, domain.KeyFlights, a.Hub)
	weatherDoc := repo.NewDoc[[]domain.WeatherPlace](store, domain.KeyWeatherPlaces, a.Hub)
	mapDoc := repo.NewDoc[*geojson.FeatureCollection](store, domain.KeyMapGeoJSON, a.Hub)
	customDoc := repo.NewDoc[domain.CustomMap](store, domain.KeyCustomMap, a.Hub)
	tripDoc := repo.NewDoc[domain.TripHeader](store, domain.KeyTrip, a.Hub)

	a.Trip = service.NewTripService(tripDoc)
	a.Stays = service.NewAccommodationService(stayDoc, budgetDoc)
	a.Itinerary = service.NewItineraryService(stopDoc)
	a.Budget = service.NewBudgetService(budgetDoc)
	a.Flights = service.NewFlightService(flightDoc, flightAPI, logger)
	a.Weather = service.NewWeatherService(weatherDoc, weatherAPI, logger)
	a.Maps = service.NewMapService(mapDoc, myMaps, logger)
	a.CustomMap = service.NewCustomMapService(customDoc)
	a.Presets = service.NewPresetService(presetFS(cfg), a.Trip, a.Itinerary, a.Maps, a.Weather, a.Flights, logger)
	a.Export = service.NewExportService(service.ExportSources{
		Stays:   stayDoc,
		Stops:   stopDoc,
		Flights: flightDoc,
		Weather: weatherDoc,
		Budget:  budgetDoc,
	})

	logger.Info("app wired",
		"store", cfg.StoreBackend,
		"cache", cfg.CacheEnabled,
		"flight_status", cfg.AviationstackKey != "",
	)
	return a, nil
}

// Services returns the handler dependencies.
func (a *App) Services() handler.Services {
	return handler.Services{
		Trip:      a.Trip,
		Stays:     a.Stays,
		Itinerary: a.Itinerary,
		Budget:    a.Budget,
		Flights:   a.Flights,
		Weather:   a.Weather,
		Maps:      a.Maps,
		CustomMap: a.CustomMap,
		Presets:   a.Presets,
		Export:    a.Export,
		Changes:   a.Hub,
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// openStore returns the configured backend. For redis the client is also
// returned so the cache can share it.
func (a *App) openStore(ctx context.Context) (repo.Store, *redis.Client, error) {
	cfg := a.Config
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("app: create database pool: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		if err := pool.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("app: connect to database: %w", err)
		}
		a.Pool = pool
		a.Logger.Info("database connection established")
		return repo.NewPostgresStore(pool), nil, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, rdb.Close)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, nil, fmt.Errorf("app: connect to redis: %w", err)
		}
		a.Logger.Info("redis connection established", "addr", cfg.RedisAddr)
		return repo.NewRedisStore(rdb, redisKeyPrefix), rdb, nil

	default:
		a.Logger.Warn("using in-memory store; data is lost on restart")
		return repo.NewMemoryStore(), nil, nil
	}
}

func (a *App) openCache(ctx context.Context, rdb *redis.Client) (cache.Cache, error) {
	cfg := a.Config
	if !cfg.CacheEnabled {
		return cache.NewNoOpCache(), nil
	}
	// The store's client is shared and already closed by Close.
	if rdb != nil {
		return cache.NewRedisCacheFromClient(rdb, cfg.CacheTTL), nil
	}
	c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("app: connect to cache: %w", err)
	}
	a.closers = append(a.closers, c.Close)
	return c, nil
}

// presetFS is PRESET_DIR when set, the bundled presets otherwise.
func presetFS(cfg config.Config) fs.FS {
	if cfg.PresetDir != "" {
		return os.DirFS(cfg.PresetDir)
	}
	return assets.Presets()
}

// Migrate applies pending goose migrations to the Postgres database behind
// pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]*goose.MigrationResult, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("app.Migrate: create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Migrate: %w", err)
	}
	return results, nil
}
