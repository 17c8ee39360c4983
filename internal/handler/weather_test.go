package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/client"
	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/handler"
)

func TestCreateWeatherPlace_201(t *testing.T) {
	svc := &mockWeatherServicer{
		add: func(_ context.Context, q string) (domain.WeatherPlace, error) {
			return domain.WeatherPlace{ID: "w1", Name: q, Lat: 32.65, Lon: -16.91}, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Weather: svc}), http.MethodPost, "/weather",
		jsonBody(t, map[string]any{"name": "Funchal"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	var place domain.WeatherPlace
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&place))
	assert.Equal(t, "Funchal", place.Name)
}

func TestCreateWeatherPlace_502_Upstream(t *testing.T) {
	svc := &mockWeatherServicer{
		add: func(context.Context, string) (domain.WeatherPlace, error) {
			return domain.WeatherPlace{}, fmt.Errorf("service.WeatherService.Add: %w",
				&client.ProviderError{Provider: "open-meteo", Err: errors.New("unexpected status 500")})
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Weather: svc}), http.MethodPost, "/weather",
		jsonBody(t, map[string]any{"name": "Funchal"}))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "upstream_error", decodeError(t, rec).Code)
}

func TestRefreshWeatherPlace_200(t *testing.T) {
	var gotID string
	svc := &mockWeatherServicer{
		refresh: func(_ context.Context, id string) (domain.WeatherPlace, error) {
			gotID = id
			return domain.WeatherPlace{ID: id, Name: "Funchal"}, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Weather: svc}), http.MethodPost, "/weather/w9/refresh", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "w9", gotID)
}

func TestDeleteWeatherPlace_404(t *testing.T) {
	svc := &mockWeatherServicer{
		remove: func(context.Context, string) error { return domain.ErrNotFound },
	}

	rec := do(t, newHTTPHandler(handler.Services{Weather: svc}), http.MethodDelete, "/weather/w9", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "weather place not found", decodeError(t, rec).Message)
}
