package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored and served as JSON numbers. Quoted strings still decode.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// BudgetItem is one expense line. Amount is always finite.
type BudgetItem struct {
	ID     string          `json:"id"`
	Desc   string          `json:"desc"`
	Amount decimal.Decimal `json:"amount"`
}

// NewBudgetItem builds a BudgetItem from form input. See ParseAmount.
func NewBudgetItem(desc, amount string) (BudgetItem, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return BudgetItem{}, fmt.Errorf("%w: desc is required", ErrValidation)
	}
	d, err := ParseAmount(amount)
	if err != nil {
		return BudgetItem{}, err
	}
	return BudgetItem{ID: NewID(), Desc: desc, Amount: d}, nil
}

// ParseAmount parses a user-entered amount. A decimal comma is accepted.
// NaN and infinities are rejected with ErrValidation.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q is not a number", ErrValidation, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must be a finite number", ErrValidation)
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}
	return decimal.NewFromFloat(f), nil
}

// BudgetTotal sums the amounts of all items.
func BudgetTotal(items []BudgetItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
