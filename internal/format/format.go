// Package format renders money and rates for people, using locale grouping
// and decimal separators.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// MoneyDecimals is used for totals.
	MoneyDecimals = 2
	// RateDecimals is used for unit rates in EUR/kWh.
	RateDecimals = 6
	// DefaultLocale is the locale of the market being served.
	DefaultLocale = "pt-PT"
	// DefaultCurrencySymbol is appended to money amounts.
	DefaultCurrencySymbol = "€"
)

// Formatter formats numbers for one locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithCurrencySymbol overrides the currency symbol.
func WithCurrencySymbol(symbol string) Option {
	return func(f *Formatter) {
		if strings.TrimSpace(symbol) != "" {
			f.symbol = strings.TrimSpace(symbol)
		}
	}
}

// New builds a formatter. An unparsable locale falls back to DefaultLocale.
func New(locale string, opts ...Option) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	f := &Formatter{printer: message.NewPrinter(tag), symbol: DefaultCurrencySymbol}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Default is the pt-PT euro formatter.
func Default() *Formatter {
	return New(DefaultLocale)
}

// Number formats v with exactly decimals fraction digits.
func (f *Formatter) Number(v decimal.Decimal, decimals int) string {
	rounded := v.Round(int32(decimals)).InexactFloat64()
	return f.printer.Sprint(number.Decimal(rounded, number.Scale(decimals)))
}

// Currency formats v as a money amount with the currency symbol after it.
func (f *Formatter) Currency(v decimal.Decimal, decimals int) string {
	return f.Number(v, decimals) + " " + f.symbol
}

// Money formats a total.
func (f *Formatter) Money(v decimal.Decimal) string {
	return f.Currency(v, MoneyDecimals)
}

// Rate formats a unit rate.
func (f *Formatter) Rate(v decimal.Decimal) string {
	return f.Currency(v, RateDecimals)
}
