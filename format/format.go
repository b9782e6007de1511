// Package format renders calculator numbers for display.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts with locale-aware digit grouping.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// New returns a Formatter for the given BCP 47 locale and currency symbol.
// An unparsable locale falls back to English.
func New(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: currency}
}

// Grouped formats v with no decimal places and digit grouping, e.g. "2,000".
func (f *Formatter) Grouped(v float64) string {
	return f.printer.Sprintf("%.0f", positiveZero(v))
}

// Currency is Grouped prefixed with the currency symbol, e.g. "Rp 2,000".
func (f *Formatter) Currency(v float64) string {
	if f.currency == "" {
		return f.Grouped(v)
	}
	return f.currency + " " + f.Grouped(v)
}

// Fixed2 formats v with exactly two decimal places.
func Fixed2(v float64) string {
	return fmt.Sprintf("%.2f", positiveZero(v))
}

// positiveZero maps -0 to 0.
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
