package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkordes/tripboard/internal/cache"
	"github.com/pkordes/tripboard/internal/domain"
)

const openMeteoProvider = "open-meteo"

// Default Open-Meteo endpoints.
const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com"
	DefaultForecastURL  = "https://api.open-meteo.com"
)

// Place is a geocoding result.
type Place struct {
	Name string
	Lat  float64
	Lon  float64
}

// OpenMeteo geocodes place names and fetches daily forecasts.
type OpenMeteo struct {
	fetch        *Fetcher
	geocodingURL string
	forecastURL  string
	cache        cache.Cache
}

// NewOpenMeteo returns a client. Empty URLs fall back to the public
// endpoints; a nil cache disables caching.
func NewOpenMeteo(f *Fetcher, geocodingURL, forecastURL string, c cache.Cache) *OpenMeteo {
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &OpenMeteo{
		fetch:        f,
		geocodingURL: strings.TrimRight(geocodingURL, "/"),
		forecastURL:  strings.TrimRight(forecastURL, "/"),
		cache:        c,
	}
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// Geocode resolves a free-text place name to its best match. The returned
// name is "Name, Country". ok is false when nothing matched.
func (c *OpenMeteo) Geocode(ctx context.Context, name string) (Place, bool, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")

	var resp geocodingResponse
	if err := c.fetch.GetJSON(ctx, openMeteoProvider, c.geocodingURL+"/v1/search?"+q.Encode(), &resp); err != nil {
		return Place{}, false, fmt.Errorf("client.OpenMeteo.Geocode: %w", err)
	}
	if len(resp.Results) == 0 {
		return Place{}, false, nil
	}
	r := resp.Results[0]
	display := r.Name
	if r.Country != "" {
		display += ", " + r.Country
	}
	return Place{Name: display, Lat: r.Latitude, Lon: r.Longitude}, true, nil
}

type forecastResponse struct {
	Daily domain.DailyForecast `json:"daily"`
}

// Forecast returns the daily max/min temperature and weather code for the
// coming days, in the location's own time zone.
func (c *OpenMeteo) Forecast(ctx context.Context, lat, lon float64) (domain.DailyForecast, error) {
	latS := strconv.FormatFloat(lat, 'f', 4, 64)
	lonS := strconv.FormatFloat(lon, 'f', 4, 64)
	key := cache.Key("forecast", latS, lonS)

	var cached domain.DailyForecast
	if c.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	q := url.Values{}
	q.Set("latitude", latS)
	q.Set("longitude", lonS)
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	q.Set("timezone", "auto")

	var resp forecastResponse
	if err := c.fetch.GetJSON(ctx, openMeteoProvider, c.forecastURL+"/v1/forecast?"+q.Encode(), &resp); err != nil {
		return domain.DailyForecast{}, fmt.Errorf("client.OpenMeteo.Forecast: %w", err)
	}
	_ = c.cache.Set(ctx, key, resp.Daily)
	return resp.Daily, nil
}
