// Package money formats raw calculator output for people: rounding to minor
// units, locale digit grouping and ISO 4217 currency labels.
package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is a validated ISO 4217 currency code.
type Currency struct {
	unit currency.Unit
}

// NewCurrency creates a Currency after validating the code is exactly 3
// uppercase letters and a known ISO 4217 code.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return Currency{unit: unit}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string { return c.unit.String() }

// String returns the currency code.
func (c Currency) String() string { return c.Code() }

// Common currencies.
var (
	INR = MustCurrency("INR")
	USD = MustCurrency("USD")
	EUR = MustCurrency("EUR")
)

// Round rounds v half away from zero to the given number of decimal places.
// The float is converted through its shortest decimal representation, so
// 2.345 rounds to 2.35 rather than 2.34.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// ToDecimal converts a calculator amount to a two-place decimal for storage
// or spreadsheet output.
func ToDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
