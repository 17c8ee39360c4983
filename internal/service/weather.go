package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// LocationNotFound is stored as the error of a place the geocoder could
// not resolve.
const LocationNotFound = "Location not found"

// WeatherService tracks forecast places.
type WeatherService struct {
	places repo.Document[[]domain.WeatherPlace]
	geo    Geocoder
	logger *slog.Logger
}

func NewWeatherService(places repo.Document[[]domain.WeatherPlace], geo Geocoder, logger *slog.Logger) *WeatherService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherService{places: places, geo: geo, logger: logger}
}

// List returns all places in insertion order.
func (s *WeatherService) List(ctx context.Context) ([]domain.WeatherPlace, error) {
	places, err := s.places.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.WeatherService.List: %w", err)
	}
	return nonNil(places), nil
}

// Add geocodes query and stores the place with its forecast. When the
// geocoder has no match the place is still stored, named after the query,
// with LocationNotFound as its error. Remote failures store nothing.
func (s *WeatherService) Add(ctx context.Context, query string) (domain.WeatherPlace, error) {
	place, err := s.resolve(ctx, query)
	if err != nil {
		return domain.WeatherPlace{}, fmt.Errorf("service.WeatherService.Add: %w", err)
	}
	if _, err := s.places.Update(ctx, func(cur []domain.WeatherPlace) ([]domain.WeatherPlace, error) {
		return append(cur, place), nil
	}); err != nil {
		return domain.WeatherPlace{}, fmt.Errorf("service.WeatherService.Add: %w", err)
	}
	return place, nil
}

// Ensure is Add for presets: a resolved place whose name is already
// tracked is not added again. Reports whether a place was added.
func (s *WeatherService) Ensure(ctx context.Context, query string) (bool, error) {
	place, err := s.resolve(ctx, query)
	if err != nil {
		return false, fmt.Errorf("service.WeatherService.Ensure: %w", err)
	}
	added := false
	_, err = s.places.Update(ctx, func(cur []domain.WeatherPlace) ([]domain.WeatherPlace, error) {
		added = !slices.ContainsFunc(cur, func(p domain.WeatherPlace) bool {
			return strings.EqualFold(p.Name, place.Name)
		})
		if !added {
			return nil, repo.ErrSkipWrite
		}
		return append(cur, place), nil
	})
	if err != nil {
		return false, fmt.Errorf("service.WeatherService.Ensure: %w", err)
	}
	return added, nil
}

func (s *WeatherService) resolve(ctx context.Context, query string) (domain.WeatherPlace, error) {
	query = strings.TrimSpace(query)
	if err := required("place", query); err != nil {
		return domain.WeatherPlace{}, err
	}
	found, ok, err := s.geo.Geocode(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "geocoding failed", "query", query, "error", err)
		return domain.WeatherPlace{}, err
	}
	if !ok {
		return domain.WeatherPlace{ID: domain.NewID(), Name: query, Error: LocationNotFound}, nil
	}
	daily, err := s.geo.Forecast(ctx, found.Lat, found.Lon)
	if err != nil {
		s.logger.WarnContext(ctx, "forecast failed", "place", found.Name, "error", err)
		return domain.WeatherPlace{}, err
	}
	return domain.WeatherPlace{
		ID:    domain.NewID(),
		Name:  found.Name,
		Lat:   found.Lat,
		Lon:   found.Lon,
		Daily: &daily,
	}, nil
}

// Refresh re-fetches the forecast of one place and clears its error.
func (s *WeatherService) Refresh(ctx context.Context, id string) (domain.WeatherPlace, error) {
	places, err := s.places.Load(ctx)
	if err != nil {
		return domain.WeatherPlace{}, fmt.Errorf("service.WeatherService.Refresh: %w", err)
	}
	i := slices.IndexFunc(places, func(p domain.WeatherPlace) bool { return p.ID == id })
	if i < 0 {
		return domain.WeatherPlace{}, fmt.Errorf("service.WeatherService.Refresh: %w: no place with id %q", domain.ErrNotFound, id)
	}
	p := places[i]

	daily, err := s.geo.Forecast(ctx, p.Lat, p.Lon)
	if err != nil {
		s.logger.WarnContext(ctx, "forecast failed", "place", p.Name, "error", err)
		return domain.WeatherPlace{}, fmt.Errorf("service.WeatherService.Refresh: %w", err)
	}

	var updated domain.WeatherPlace
	_, err = s.places.Update(ctx, func(cur []domain.WeatherPlace) ([]domain.WeatherPlace, error) {
		j := slices.IndexFunc(cur, func(p domain.WeatherPlace) bool { return p.ID == id })
		if j < 0 {
			return nil, fmt.Errorf("%w: place %q was removed", domain.ErrNotFound, id)
		}
		out := slices.Clone(cur)
		out[j].Daily = &daily
		out[j].Error = ""
		updated = out[j]
		return out, nil
	})
	if err != nil {
		return domain.WeatherPlace{}, fmt.Errorf("service.WeatherService.Refresh: %w", err)
	}
	return updated, nil
}

// Remove deletes a place by id.
func (s *WeatherService) Remove(ctx context.Context, id string) error {
	_, err := s.places.Update(ctx, func(cur []domain.WeatherPlace) ([]domain.WeatherPlace, error) {
		return removeByID(cur, id, func(p domain.WeatherPlace) string { return p.ID })
	})
	if err != nil {
		return fmt.Errorf("service.WeatherService.Remove: %w", err)
	}
	return nil
}

// Clear removes every place.
func (s *WeatherService) Clear(ctx context.Context) error {
	if _, err := s.places.Update(ctx, func([]domain.WeatherPlace) ([]domain.WeatherPlace, error) {
		return []domain.WeatherPlace{}, nil
	}); err != nil {
		return fmt.Errorf("service.WeatherService.Clear: %w", err)
	}
	return nil
}
