package merge_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/merge"
)

func TestStays_SkipsExactDuplicate(t *testing.T) {
	existing := []domain.Stay{{ID: "1", Name: "Hotel Miramar", CheckIn: "2026-06-23", CheckOut: "2026-06-25"}}
	candidate := domain.Stay{ID: "2", Name: "Hotel Miramar", CheckIn: "2026-06-23", CheckOut: "2026-06-25"}

	merged, added := merge.Stays(existing, []domain.Stay{candidate})

	assert.Equal(t, existing, merged)
	assert.Empty(t, added)
}

func TestStays_DifferentDatesAreDistinct(t *testing.T) {
	existing := []domain.Stay{{ID: "1", Name: "Hotel Miramar", CheckIn: "2026-06-23"}}
	candidate := domain.Stay{ID: "2", Name: "Hotel Miramar", CheckIn: "2026-06-24"}

	merged, added := merge.Stays(existing, []domain.Stay{candidate})

	assert.Len(t, merged, 2)
	assert.Equal(t, []domain.Stay{candidate}, added)
	assert.Equal(t, "1", merged[0].ID, "existing order preserved")
}

func TestStays_BothDatesMissingStillMatch(t *testing.T) {
	existing := []domain.Stay{{ID: "1", Name: "Casa"}}

	_, added := merge.Stays(existing, []domain.Stay{{ID: "2", Name: "Casa"}})

	assert.Empty(t, added)
}

func TestFlights_NormalisedKey(t *testing.T) {
	existing := []domain.Flight{{ID: "1", Airline: "TAP Air Portugal", FlightNumber: "1689"}}
	candidates := []domain.Flight{
		{ID: "2", Airline: "tap air  portugal", FlightNumber: " 1689 "},
		{ID: "3", Airline: "TAP Air Portugal", FlightNumber: "1690"},
		{ID: "4", Airline: "TAPAirPortugal", FlightNumber: "1690"},
	}

	merged, added := merge.Flights(existing, candidates)

	assert.Len(t, merged, 2)
	assert.Equal(t, []domain.Flight{candidates[1]}, added, "duplicates within the batch are skipped too")
}

func TestBudgetItems_Tolerance(t *testing.T) {
	existing := []domain.BudgetItem{{ID: "1", Desc: "Hotel: Miramar", Amount: decimal.RequireFromString("120.00")}}

	_, added := merge.BudgetItems(existing, []domain.BudgetItem{
		{ID: "2", Desc: "Hotel: Miramar", Amount: decimal.RequireFromString("120.004")},
	})
	assert.Empty(t, added)

	_, added = merge.BudgetItems(existing, []domain.BudgetItem{
		{ID: "3", Desc: "Hotel: Miramar", Amount: decimal.RequireFromString("120.01")},
	})
	assert.Len(t, added, 1, "a full cent apart is a different item")

	_, added = merge.BudgetItems(existing, []domain.BudgetItem{
		{ID: "4", Desc: "Hotel: Other", Amount: decimal.RequireFromString("120.00")},
	})
	assert.Len(t, added, 1)
}

func TestStops_IdempotentImport(t *testing.T) {
	batch := []domain.Stop{
		{ID: "a", Date: "Arrival", Location: "Airport pickup"},
		{ID: "b", Date: "Arrival", Location: "Hotel check-in"},
	}

	first, added := merge.Stops(nil, batch)
	assert.Len(t, added, 2)

	again := []domain.Stop{
		{ID: "c", Date: "Arrival", Location: "airport pickup"},
		{ID: "d", Date: "Arrival", Location: "Hotel check-in"},
	}
	second, added := merge.Stops(first, again)
	assert.Empty(t, added)
	assert.Equal(t, first, second)
}

func TestStops_RevisitInOneBatchKept(t *testing.T) {
	batch := []domain.Stop{
		{ID: "a", Date: "Funchal", Location: "Hotel", Notes: "drop bags"},
		{ID: "b", Date: "Funchal", Location: "Old town"},
		{ID: "c", Date: "Funchal", Location: "Hotel", Notes: "dinner"},
	}

	merged, added := merge.Stops(nil, batch)

	assert.Len(t, added, 3)
	require.Len(t, merged, 3)
	assert.Equal(t, "dinner", merged[2].Notes)

	_, again := merge.Stops(merged, batch)
	assert.Empty(t, again)
}

func TestDedupeFlights_KeepsFirst(t *testing.T) {
	flights := []domain.Flight{
		{ID: "1", Airline: "TAP", FlightNumber: "1689"},
		{ID: "2", Airline: "Ryanair", FlightNumber: "12"},
		{ID: "3", Airline: "tap", FlightNumber: "1689"},
	}

	got := merge.DedupeFlights(flights)

	assert.Equal(t, []domain.Flight{flights[0], flights[1]}, got)
}

func TestFlightKey(t *testing.T) {
	assert.Equal(t, "easyjet|u21234", merge.FlightKey(domain.Flight{Airline: "Easy Jet", FlightNumber: "U2 1234"}))
}
