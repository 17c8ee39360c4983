// Package merge decides which candidate records are appended to a
// collection. Merging is append-only and order-preserving: existing
// records are never modified or reordered, and duplicates are skipped
// silently.
package merge

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pkordes/tripboard/internal/domain"
)

// budgetTolerance is the largest amount difference still treated as the
// same expense.
var budgetTolerance = decimal.New(1, -2)

// AppendUnique appends each candidate that is not the same as an existing
// record or as a candidate accepted earlier in the batch. It returns the
// merged collection and the candidates that were added.
func AppendUnique[T any](existing, candidates []T, same func(a, b T) bool) (merged, added []T) {
	merged = append(make([]T, 0, len(existing)+len(candidates)), existing...)
	for _, c := range candidates {
		dup := false
		for _, e := range merged {
			if same(e, c) {
				dup = true
				break
			}
		}
		if !dup {
			merged = append(merged, c)
			added = append(added, c)
		}
	}
	return merged, added
}

// AppendMissing appends each candidate that matches no existing record.
// Candidates are not compared with each other, so a batch may repeat
// itself; importing the same batch again still adds nothing.
func AppendMissing[T any](existing, candidates []T, same func(a, b T) bool) (merged, added []T) {
	merged = append(make([]T, 0, len(existing)+len(candidates)), existing...)
	for _, c := range candidates {
		dup := false
		for _, e := range existing {
			if same(e, c) {
				dup = true
				break
			}
		}
		if !dup {
			merged = append(merged, c)
			added = append(added, c)
		}
	}
	return merged, added
}

// SameStay compares name, check-in and check-out exactly.
func SameStay(a, b domain.Stay) bool {
	return a.Name == b.Name && a.CheckIn == b.CheckIn && a.CheckOut == b.CheckOut
}

// FlightKey is the normalised identity of a flight: airline and flight
// number, lower-cased, with all whitespace removed.
func FlightKey(f domain.Flight) string {
	return normalizeKey(f.Airline) + "|" + normalizeKey(f.FlightNumber)
}

// SameFlight compares flights by FlightKey.
func SameFlight(a, b domain.Flight) bool {
	return FlightKey(a) == FlightKey(b)
}

// SameBudgetItem matches an identical description with an amount within
// one cent.
func SameBudgetItem(a, b domain.BudgetItem) bool {
	return a.Desc == b.Desc && a.Amount.Sub(b.Amount).Abs().LessThan(budgetTolerance)
}

// SameStop matches stops on the same day at the same location.
func SameStop(a, b domain.Stop) bool {
	return strings.TrimSpace(a.Date) == strings.TrimSpace(b.Date) &&
		strings.EqualFold(strings.TrimSpace(a.Location), strings.TrimSpace(b.Location))
}

// Stays merges stay candidates.
func Stays(existing, candidates []domain.Stay) (merged, added []domain.Stay) {
	return AppendUnique(existing, candidates, SameStay)
}

// Flights merges flight candidates.
func Flights(existing, candidates []domain.Flight) (merged, added []domain.Flight) {
	return AppendUnique(existing, candidates, SameFlight)
}

// BudgetItems merges budget candidates.
func BudgetItems(existing, candidates []domain.BudgetItem) (merged, added []domain.BudgetItem) {
	return AppendUnique(existing, candidates, SameBudgetItem)
}

// Stops merges stop candidates from a preset or document import. A day
// may visit the same place twice, so only existing stops are checked.
func Stops(existing, candidates []domain.Stop) (merged, added []domain.Stop) {
	return AppendMissing(existing, candidates, SameStop)
}

// DedupeFlights removes later flights whose FlightKey repeats an earlier one.
func DedupeFlights(flights []domain.Flight) []domain.Flight {
	seen := make(map[string]struct{}, len(flights))
	out := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		k := FlightKey(f)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, f)
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
