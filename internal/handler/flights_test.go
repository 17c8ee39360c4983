package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/handler"
	"github.com/pkordes/tripboard/internal/service"
)

func flightFixture() domain.Flight {
	return domain.Flight{
		ID:           "f1",
		Airline:      "TAP Air Portugal",
		FlightNumber: "1689",
		From:         "LIS",
		To:           "FNC",
		Depart:       "2026-06-23T09:00:00+00:00",
		Arrive:       "2026-06-23T10:45:00+00:00",
		DepartTZ:     "Europe/Lisbon",
		ArriveTZ:     "Atlantic/Madeira",
	}
}

func TestListFlights_LocalTimes(t *testing.T) {
	svc := &mockFlightServicer{
		list: func(context.Context) ([]domain.Flight, error) { return []domain.Flight{flightFixture()}, nil },
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodGet, "/flights", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var views []handler.FlightView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "1689", views[0].FlightNumber)
	assert.Equal(t, "23/06, 10:00", views[0].LocalDepart)
	assert.Equal(t, "23/06, 11:45", views[0].LocalArrive)
}

func TestListFlights_EmptyIsArray(t *testing.T) {
	svc := &mockFlightServicer{
		list: func(context.Context) ([]domain.Flight, error) { return []domain.Flight{}, nil },
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodGet, "/flights", nil)

	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLookupFlight_200(t *testing.T) {
	var gotCode, gotNumber string
	svc := &mockFlightServicer{
		lookup: func(_ context.Context, code, number string) (service.FlightLookup, error) {
			gotCode, gotNumber = code, number
			return service.FlightLookup{Found: 1, Added: []domain.Flight{flightFixture()}}, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodPost, "/flights/lookup",
		jsonBody(t, map[string]any{"airlineCode": "TP", "number": "1689"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TP", gotCode)
	assert.Equal(t, "1689", gotNumber)
	var resp service.FlightLookup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Found)
}

func TestLookupFlight_503_NotConfigured(t *testing.T) {
	svc := &mockFlightServicer{
		lookup: func(context.Context, string, string) (service.FlightLookup, error) {
			return service.FlightLookup{}, fmt.Errorf("service.FlightService.Lookup: %w: flight API key missing", domain.ErrNotConfigured)
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodPost, "/flights/lookup",
		jsonBody(t, map[string]any{"airlineCode": "TP", "number": "1689"}))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_configured", decodeError(t, rec).Code)
}

func TestRefreshFlights_200(t *testing.T) {
	svc := &mockFlightServicer{
		refresh: func(context.Context) (service.RefreshResult, error) {
			return service.RefreshResult{Updated: 2, Failed: 1}, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodPost, "/flights/refresh", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":2,"failed":1,"skipped":0}`, rec.Body.String())
}

func TestDedupeFlights_200(t *testing.T) {
	svc := &mockFlightServicer{
		dedupe: func(context.Context) (int, error) { return 3, nil },
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodPost, "/flights/dedupe", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":3}`, rec.Body.String())
}

func TestCreateFlight_422(t *testing.T) {
	svc := &mockFlightServicer{
		add: func(context.Context, domain.Flight) (domain.Flight, bool, error) {
			return domain.Flight{}, false, fmt.Errorf("%w: flightNumber is required", domain.ErrValidation)
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodPost, "/flights",
		jsonBody(t, map[string]any{"airline": "TP"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "flightNumber is required", decodeError(t, rec).Message)
}

func TestCreateFlight_201(t *testing.T) {
	svc := &mockFlightServicer{
		add: func(_ context.Context, f domain.Flight) (domain.Flight, bool, error) {
			f.ID = "f1"
			return f, true, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodPost, "/flights",
		jsonBody(t, map[string]any{"airline": "TAP", "flightNumber": "123"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp handler.FlightCreated
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Added)
	assert.Equal(t, "f1", resp.Flight.ID)
}

func TestCreateFlight_Duplicate_200(t *testing.T) {
	svc := &mockFlightServicer{
		add: func(_ context.Context, f domain.Flight) (domain.Flight, bool, error) {
			return f, false, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Flights: svc}), http.MethodPost, "/flights",
		jsonBody(t, map[string]any{"airline": "tap", "flightNumber": " 1 23 "}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.FlightCreated
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Added)
}
