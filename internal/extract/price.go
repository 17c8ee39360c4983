package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyAmountRe = regexp.MustCompile(`[€$£¥]\s*([0-9]+[.,][0-9]{2})`)
	labeledAmountRe  = regexp.MustCompile(`(?i)(?:Total price|Total|Pay(?:ment)?|Price)[^0-9\n\r]{0,80}?([0-9]+[.,][0-9]{2})`)
	anyAmountRe      = regexp.MustCompile(`([0-9]+[.,][0-9]{2})`)
)

// PriceStrategies is the fallback order for the booking total. The
// heuristic is loose on purpose: booking emails list nightly rates, taxes
// and totals, and the largest explicit amount is usually the total.
var PriceStrategies = Chain[decimal.Decimal]{
	{Name: "currency-symbol", Find: maxCurrencyAmount},
	{Name: "labeled-total", Find: labeledAmount},
	{Name: "largest-number", Find: maxAnyAmount},
}

// Price returns the total price of the booking.
func Price(text string) (decimal.Decimal, bool) {
	v, _, ok := PriceStrategies.First(Input{Text: text})
	return v, ok
}

func maxCurrencyAmount(in Input) (decimal.Decimal, bool) {
	return maxOf(currencyAmountRe.FindAllStringSubmatch(in.Text, -1))
}

func labeledAmount(in Input) (decimal.Decimal, bool) {
	m := labeledAmountRe.FindStringSubmatch(in.Text)
	if m == nil {
		return decimal.Decimal{}, false
	}
	return parseAmount(m[1])
}

func maxAnyAmount(in Input) (decimal.Decimal, bool) {
	return maxOf(anyAmountRe.FindAllStringSubmatch(in.Text, -1))
}

func maxOf(matches [][]string) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, m := range matches {
		v, ok := parseAmount(m[1])
		if !ok {
			continue
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}

// parseAmount reads "120.00" or "120,00"; the comma is a decimal separator.
func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
