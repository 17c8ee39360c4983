// Package importer builds candidate records from decoded documents.
// Builders are pure: they never touch the store. Merging candidates into
// the persisted collections is the caller's job (see package merge).
package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pkordes/tripboard/internal/decode"
	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/extract"
)

// StayDefaults are the form values used when extraction finds nothing.
type StayDefaults struct {
	Name    string
	Address string
}

// StayCandidate is a Stay built from a booking email, plus the booking
// total when one was found.
type StayCandidate struct {
	Stay     domain.Stay
	Price    decimal.Decimal
	HasPrice bool
}

// StayFromEML builds a Stay from a raw booking email. The name comes from
// the message, then from defaults; when neither yields one it returns
// domain.ErrImport.
func StayFromEML(raw string, defaults StayDefaults) (StayCandidate, error) {
	text := decode.PlainTextFromEML(raw)
	if text == "" {
		text = raw
	}

	name, ok := extract.HotelName(raw, text)
	if !ok {
		name = strings.TrimSpace(defaults.Name)
	}
	if name == "" {
		return StayCandidate{}, fmt.Errorf("importer.StayFromEML: %w: could not parse hotel name from this email", domain.ErrImport)
	}

	address, ok := extract.Address(text)
	if !ok {
		address = strings.TrimSpace(defaults.Address)
	}
	dates := extract.DateRange(text)
	notes, _ := extract.Confirmation(text, extract.DefaultProvider)

	c := StayCandidate{
		Stay: domain.Stay{
			ID:       domain.NewID(),
			Name:     name,
			Address:  address,
			CheckIn:  dates.CheckIn,
			CheckOut: dates.CheckOut,
			Notes:    notes,
		},
	}
	c.Price, c.HasPrice = extract.Price(text)
	return c, nil
}

// BudgetItemForStay returns the "Hotel: <name>" budget line for a stay
// whose booking total is known and positive.
func BudgetItemForStay(c StayCandidate) (domain.BudgetItem, bool) {
	if !c.HasPrice || !c.Price.IsPositive() {
		return domain.BudgetItem{}, false
	}
	return domain.BudgetItem{
		ID:     domain.NewID(),
		Desc:   "Hotel: " + c.Stay.Name,
		Amount: c.Price,
	}, true
}
