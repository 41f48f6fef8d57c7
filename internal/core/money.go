package core

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into an amount.
//
// A single comma is accepted as decimal separator when no dot is present,
// so "12,34" and "12.34" parse to the same value. Any precision is kept;
// rounding happens only when a total is shown.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d with exactly two decimals, e.g. "100.50".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// DisplayAmount is FormatAmount with thousands separators, e.g. "1,234.50".
func DisplayAmount(d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return FormatAmount(d)
	}
	out := humanize.BigComma(n) + "." + frac
	if d.Round(2).IsNegative() {
		out = "-" + out
	}
	return out
}
