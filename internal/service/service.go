// Package service holds the trip board's operations. Every service works on
// one or two repo.Document collections and never talks to the store
// directly; remote lookups go through the small interfaces declared here.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkordes/tripboard/internal/client"
	"github.com/pkordes/tripboard/internal/domain"
)

// Geocoder resolves place names and fetches daily forecasts.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (client.Place, bool, error)
	Forecast(ctx context.Context, lat, lon float64) (domain.DailyForecast, error)
}

// FlightStatus looks flights up by airline code and number (Lookup) or by
// IATA flight code (Status).
type FlightStatus interface {
	Lookup(ctx context.Context, airlineCode, number string) ([]domain.Flight, error)
	Status(ctx context.Context, flightIata string) ([]domain.Flight, error)
}

// KMLSource downloads a shared map as KML.
type KMLSource interface {
	FetchKML(ctx context.Context, link string) ([]byte, error)
}

// removeByID drops the record with the given id. Returns domain.ErrNotFound
// when no record matched.
func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, error) {
	i := slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: no record with id %q", domain.ErrNotFound, id)
	}
	return slices.Delete(slices.Clone(items), i, i+1), nil
}

// nonNil turns a nil slice into an empty one so JSON renders [] not null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}
