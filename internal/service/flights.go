package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/merge"
	"github.com/pkordes/tripboard/internal/repo"
)

// refreshParallelism bounds concurrent status lookups in RefreshAll.
const refreshParallelism = 4

// FlightLookup reports the outcome of a flight-status lookup.
type FlightLookup struct {
	Found int             `json:"found"`
	Added []domain.Flight `json:"added"`
}

// RefreshResult reports the outcome of RefreshAll.
type RefreshResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// FlightService manages flights and keeps them current through a
// flight-status provider.
type FlightService struct {
	flights repo.Document[[]domain.Flight]
	status  FlightStatus
	logger  *slog.Logger
}

func NewFlightService(flights repo.Document[[]domain.Flight], status FlightStatus, logger *slog.Logger) *FlightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlightService{flights: flights, status: status, logger: logger}
}

// List returns all flights in insertion order.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	flights, err := s.flights.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FlightService.List: %w", err)
	}
	return nonNil(flights), nil
}

// Add appends a manually entered flight unless one with the same airline
// and flight number is already tracked; added reports which. Airline and
// flight number are required.
func (s *FlightService) Add(ctx context.Context, f domain.Flight) (domain.Flight, bool, error) {
	f.Airline = strings.TrimSpace(f.Airline)
	f.FlightNumber = strings.TrimSpace(f.FlightNumber)
	if err := required("airline", f.Airline); err != nil {
		return domain.Flight{}, false, err
	}
	if err := required("flightNumber", f.FlightNumber); err != nil {
		return domain.Flight{}, false, err
	}
	if f.ID == "" {
		f.ID = domain.NewID()
	}
	added := false
	if _, err := s.flights.Update(ctx, func(cur []domain.Flight) ([]domain.Flight, error) {
		merged, fresh := merge.Flights(cur, []domain.Flight{f})
		added = len(fresh) > 0
		if !added {
			return nil, repo.ErrSkipWrite
		}
		return merged, nil
	}); err != nil {
		return domain.Flight{}, false, fmt.Errorf("service.FlightService.Add: %w", err)
	}
	return f, added, nil
}

// Lookup queries the provider and appends every returned flight that is
// not already tracked. A provider failure leaves the collection unchanged.
func (s *FlightService) Lookup(ctx context.Context, airlineCode, number string) (FlightLookup, error) {
	if err := required("airline code", airlineCode); err != nil {
		return FlightLookup{}, err
	}
	if err := required("flight number", number); err != nil {
		return FlightLookup{}, err
	}
	found, err := s.status.Lookup(ctx, airlineCode, number)
	if err != nil {
		s.logger.WarnContext(ctx, "flight lookup failed", "airline", airlineCode, "number", number, "error", err)
		return FlightLookup{}, fmt.Errorf("service.FlightService.Lookup: %w", err)
	}
	if len(found) == 0 {
		return FlightLookup{Added: []domain.Flight{}}, fmt.Errorf("service.FlightService.Lookup: %w: no data for flight %s%s", domain.ErrNotFound, airlineCode, number)
	}

	res := FlightLookup{Found: len(found)}
	_, err = s.flights.Update(ctx, func(cur []domain.Flight) ([]domain.Flight, error) {
		merged, added := merge.Flights(cur, found)
		res.Added = nonNil(added)
		if len(added) == 0 {
			return nil, repo.ErrSkipWrite
		}
		return merged, nil
	})
	if err != nil {
		return FlightLookup{}, fmt.Errorf("service.FlightService.Lookup: %w", err)
	}
	return res, nil
}

// RefreshAll re-fetches the status of every flight that has an IATA code.
// Lookups run concurrently; a failed lookup keeps the old record. A missing
// provider key fails the whole refresh with domain.ErrNotConfigured. Results
// are applied only to flights that still exist when the lookups finish.
func (s *FlightService) RefreshAll(ctx context.Context) (RefreshResult, error) {
	flights, err := s.List(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	fresh := make([]*domain.Flight, len(flights))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshParallelism)
	for i, f := range flights {
		if f.FlightIata == "" {
			continue
		}
		g.Go(func() error {
			got, err := s.status.Status(gctx, f.FlightIata)
			if errors.Is(err, domain.ErrNotConfigured) {
				return err
			}
			if err != nil {
				s.logger.WarnContext(gctx, "flight refresh failed", "flight", f.FlightIata, "error", err)
				return nil
			}
			if len(got) > 0 {
				updated := overlayFlight(f, got[0])
				fresh[i] = &updated
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RefreshResult{}, fmt.Errorf("service.FlightService.RefreshAll: %w", err)
	}

	byID := make(map[string]domain.Flight)
	var res RefreshResult
	for i, f := range flights {
		switch {
		case f.FlightIata == "":
			res.Skipped++
		case fresh[i] == nil:
			res.Failed++
		default:
			byID[f.ID] = *fresh[i]
		}
	}
	if len(byID) == 0 {
		return res, nil
	}

	_, err = s.flights.Update(ctx, func(cur []domain.Flight) ([]domain.Flight, error) {
		out := make([]domain.Flight, len(cur))
		res.Updated = 0
		for i, f := range cur {
			if u, ok := byID[f.ID]; ok {
				out[i] = u
				res.Updated++
				continue
			}
			out[i] = f
		}
		if res.Updated == 0 {
			return nil, repo.ErrSkipWrite
		}
		return out, nil
	})
	if err != nil {
		return RefreshResult{}, fmt.Errorf("service.FlightService.RefreshAll: %w", err)
	}
	return res, nil
}

// Dedupe drops later flights repeating the airline and number of an
// earlier one. Returns how many were removed.
func (s *FlightService) Dedupe(ctx context.Context) (int, error) {
	removed := 0
	_, err := s.flights.Update(ctx, func(cur []domain.Flight) ([]domain.Flight, error) {
		out := merge.DedupeFlights(cur)
		removed = len(cur) - len(out)
		if removed == 0 {
			return nil, repo.ErrSkipWrite
		}
		return out, nil
	})
	if err != nil {
		return 0, fmt.Errorf("service.FlightService.Dedupe: %w", err)
	}
	return removed, nil
}

// Remove deletes a flight by id.
func (s *FlightService) Remove(ctx context.Context, id string) error {
	_, err := s.flights.Update(ctx, func(cur []domain.Flight) ([]domain.Flight, error) {
		return removeByID(cur, id, func(f domain.Flight) string { return f.ID })
	})
	if err != nil {
		return fmt.Errorf("service.FlightService.Remove: %w", err)
	}
	return nil
}

// Clear removes every flight.
func (s *FlightService) Clear(ctx context.Context) error {
	if _, err := s.flights.Update(ctx, func([]domain.Flight) ([]domain.Flight, error) {
		return []domain.Flight{}, nil
	}); err != nil {
		return fmt.Errorf("service.FlightService.Clear: %w", err)
	}
	return nil
}

// overlayFlight copies every non-empty field of fresh onto f, keeping f's id.
func overlayFlight(f, fresh domain.Flight) domain.Flight {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&f.Airline, fresh.Airline)
	set(&f.FlightNumber, fresh.FlightNumber)
	set(&f.From, fresh.From)
	set(&f.To, fresh.To)
	set(&f.Depart, fresh.Depart)
	set(&f.Arrive, fresh.Arrive)
	set(&f.DepartTZ, fresh.DepartTZ)
	set(&f.ArriveTZ, fresh.ArriveTZ)
	set(&f.FlightIata, fresh.FlightIata)
	return f
}
