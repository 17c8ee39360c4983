package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/client"
	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
	"github.com/pkordes/tripboard/internal/service"
)

// ---- test doubles ----------------------------------------------------------

// mockDoc is a hand-written test double for repo.Document.
type mockDoc[T any] struct {
	load   func(ctx context.Context) (T, error)
	update func(ctx context.Context, fn func(T) (T, error)) (T, error)
}

func (m *mockDoc[T]) Load(ctx context.Context) (T, error) {
	return m.load(ctx)
}
func (m *mockDoc[T]) Update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	return m.update(ctx, fn)
}

var _ repo.Document[[]domain.Stay] = (*mockDoc[[]domain.Stay])(nil)

// mockGeocoder is a hand-written test double for service.Geocoder.
type mockGeocoder struct {
	geocode  func(ctx context.Context, name string) (client.Place, bool, error)
	forecast func(ctx context.Context, lat, lon float64) (domain.DailyForecast, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, name string) (client.Place, bool, error) {
	return m.geocode(ctx, name)
}
func (m *mockGeocoder) Forecast(ctx context.Context, lat, lon float64) (domain.DailyForecast, error) {
	return m.forecast(ctx, lat, lon)
}

var _ service.Geocoder = (*mockGeocoder)(nil)

// mockFlightStatus is a hand-written test double for service.FlightStatus.
type mockFlightStatus struct {
	lookup func(ctx context.Context, airlineCode, number string) ([]domain.Flight, error)
	status func(ctx context.Context, flightIata string) ([]domain.Flight, error)
}

func (m *mockFlightStatus) Lookup(ctx context.Context, airlineCode, number string) ([]domain.Flight, error) {
	return m.lookup(ctx, airlineCode, number)
}
func (m *mockFlightStatus) Status(ctx context.Context, flightIata string) ([]domain.Flight, error) {
	return m.status(ctx, flightIata)
}

var _ service.FlightStatus = (*mockFlightStatus)(nil)

// mockKMLSource is a hand-written test double for service.KMLSource.
type mockKMLSource struct {
	fetchKML func(ctx context.Context, link string) ([]byte, error)
}

func (m *mockKMLSource) FetchKML(ctx context.Context, link string) ([]byte, error) {
	return m.fetchKML(ctx, link)
}

var _ service.KMLSource = (*mockKMLSource)(nil)

// ---- helpers ---------------------------------------------------------------

// newDoc returns a real document over a fresh in-memory store.
func newDoc[T any](key string) *repo.Doc[T] {
	return repo.NewDoc[T](repo.NewMemoryStore(), key, nil)
}

// seed writes v to doc and fails the test on error.
func seed[T any](t *testing.T, doc *repo.Doc[T], v T) {
	t.Helper()
	require.NoError(t, doc.Put(context.Background(), v))
}

// load reads doc and fails the test on error.
func load[T any](t *testing.T, doc *repo.Doc[T]) T {
	t.Helper()
	v, err := doc.Load(context.Background())
	require.NoError(t, err)
	return v
}
