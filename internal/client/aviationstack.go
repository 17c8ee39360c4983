package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkordes/tripboard/internal/cache"
	"github.com/pkordes/tripboard/internal/domain"
)

const aviationstackProvider = "aviationstack"

// DefaultAviationstackURL is the public API base.
const DefaultAviationstackURL = "http://api.aviationstack.com"

// Aviationstack looks up flight status by IATA flight code.
type Aviationstack struct {
	fetch   *Fetcher
	baseURL string
	apiKey  string
	cache   cache.Cache
}

// NewAviationstack returns a client. With an empty apiKey every lookup
// fails with domain.ErrNotConfigured without touching the network.
func NewAviationstack(f *Fetcher, baseURL, apiKey string, c cache.Cache) *Aviationstack {
	if baseURL == "" {
		baseURL = DefaultAviationstackURL
	}
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Aviationstack{fetch: f, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, cache: c}
}

type aviationstackEndpoint struct {
	Airport   string `json:"airport"`
	IATA      string `json:"iata"`
	Timezone  string `json:"timezone"`
	Scheduled string `json:"scheduled"`
	Estimated string `json:"estimated"`
}

type aviationstackResponse struct {
	Data []struct {
		Airline struct {
			Name string `json:"name"`
		} `json:"airline"`
		Flight struct {
			Number string `json:"number"`
			IATA   string `json:"iata"`
		} `json:"flight"`
		Departure aviationstackEndpoint `json:"departure"`
		Arrival   aviationstackEndpoint `json:"arrival"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FlightCode joins an airline code and flight number into an IATA flight
// code: "tp", " 1689" becomes "TP1689".
func FlightCode(airlineCode, number string) string {
	return strings.ToUpper(strings.Join(strings.Fields(airlineCode+number), ""))
}

// Lookup returns every status record for the flight. Fields missing from a
// record fall back to what was asked for.
func (c *Aviationstack) Lookup(ctx context.Context, airlineCode, number string) ([]domain.Flight, error) {
	code := FlightCode(airlineCode, number)
	flights, err := c.status(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("client.Aviationstack.Lookup: %w", err)
	}
	for i := range flights {
		f := &flights[i]
		f.Airline = firstNonEmpty(f.Airline, strings.ToUpper(strings.TrimSpace(airlineCode)))
		f.FlightNumber = firstNonEmpty(f.FlightNumber, strings.TrimSpace(number))
		f.FlightIata = firstNonEmpty(f.FlightIata, code)
	}
	return flights, nil
}

// Status returns the raw status records for an IATA flight code. Fields the
// provider left out stay empty.
func (c *Aviationstack) Status(ctx context.Context, flightIata string) ([]domain.Flight, error) {
	flights, err := c.status(ctx, FlightCode(flightIata, ""))
	if err != nil {
		return nil, fmt.Errorf("client.Aviationstack.Status: %w", err)
	}
	return flights, nil
}

func (c *Aviationstack) status(ctx context.Context, code string) ([]domain.Flight, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: flight status API key is not set", domain.ErrNotConfigured)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: flight code is required", domain.ErrValidation)
	}

	key := cache.Key("flight", code)
	var resp aviationstackResponse
	if !c.cache.Get(ctx, key, &resp) {
		q := url.Values{}
		q.Set("access_key", c.apiKey)
		q.Set("flight_iata", code)
		if err := c.fetch.GetJSON(ctx, aviationstackProvider, c.baseURL+"/v1/flights?"+q.Encode(), &resp); err != nil {
			return nil, err
		}
		if resp.Error != nil {
			return nil, &ProviderError{
				Provider: aviationstackProvider,
				Err:      errors.New(resp.Error.Code + ": " + resp.Error.Message),
			}
		}
		_ = c.cache.Set(ctx, key, resp)
	}

	flights := make([]domain.Flight, 0, len(resp.Data))
	for _, d := range resp.Data {
		flights = append(flights, domain.Flight{
			ID:           domain.NewID(),
			Airline:      strings.TrimSpace(d.Airline.Name),
			FlightNumber: strings.TrimSpace(d.Flight.Number),
			From:         firstNonEmpty(d.Departure.Airport, d.Departure.IATA),
			To:           firstNonEmpty(d.Arrival.Airport, d.Arrival.IATA),
			Depart:       firstNonEmpty(d.Departure.Scheduled, d.Departure.Estimated),
			Arrive:       firstNonEmpty(d.Arrival.Scheduled, d.Arrival.Estimated),
			FlightIata:   strings.TrimSpace(d.Flight.IATA),
			DepartTZ:     d.Departure.Timezone,
			ArriveTZ:     d.Arrival.Timezone,
		})
	}
	return flights, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
