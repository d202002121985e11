package money

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Defaults used when a caller does not specify a presentation.
const (
	DefaultCurrency = "INR"
	DefaultLocale   = "en-IN"
)

// Formatter renders amounts for one currency and locale.
type Formatter struct {
	currency Currency
	tag      language.Tag
	printer  *message.Printer
}

// NewFormatter parses an ISO 4217 code and a BCP 47 locale. Empty arguments
// select DefaultCurrency and DefaultLocale.
func NewFormatter(currencyCode, locale string) (*Formatter, error) {
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	if locale == "" {
		locale = DefaultLocale
	}

	cur, err := NewCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	return &Formatter{
		currency: cur,
		tag:      tag,
		printer:  message.NewPrinter(tag),
	}, nil
}

// Currency returns the formatter's currency.
func (f *Formatter) Currency() Currency { return f.currency }

// Locale returns the formatter's BCP 47 tag.
func (f *Formatter) Locale() string { return f.tag.String() }

// Number groups digits for the locale and shows exactly two decimals.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(Round(v, 2), number.Scale(2)))
}

// Amount prefixes Number with the ISO currency code, e.g. "INR 43,391.16".
func (f *Formatter) Amount(v float64) string {
	return f.currency.Code() + " " + f.Number(v)
}

// Whole formats v rounded to an integer, for counts and scores.
func (f *Formatter) Whole(v float64) string {
	return f.printer.Sprint(number.Decimal(Round(v, 0), number.Scale(0)))
}

// Percent renders a percentage value such as 8.5 as "8.50%".
func (f *Formatter) Percent(v float64) string {
	return f.Number(v) + "%"
}
