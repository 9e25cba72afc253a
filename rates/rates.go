/*
Package rates provides currency exchange rates for displaying loan
figures in other currencies.

PURPOSE:
  Rate lookup behind a small Provider interface so the rest of the system
  never cares where a rate came from: a live HTTP source, a 24h cache in
  front of it, or the built-in static table when everything else fails.

KEY CONCEPTS:
  - Table: A base currency plus its quote map, with decimal rates
  - Provider: Anything that can produce a Table for a base currency
  - Convert: Direct or triangulated (through the base) conversion

SEE ALSO:
  - static.go: Built-in fallback table
  - httpclient.go: Live source
  - cache.go: TTL cache with stale-on-error
*/
package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownCurrency marks a currency code outside the catalog or a
	// rate table that has no quote for it.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrUnavailable marks a provider that could not produce rates.
	ErrUnavailable = errors.New("rates unavailable")
)

// Currency describes a supported currency for display purposes.
type Currency struct {
	Code     string
	Symbol   string
	Name     string
	Decimals int32
}

// Currencies is the supported catalog, keyed by ISO code.
var Currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Decimals: 2},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Decimals: 2},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Decimals: 2},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Decimals: 2},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Decimals: 2},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Decimals: 0},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Decimals: 2},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", Decimals: 2},
	"MXN": {Code: "MXN", Symbol: "MX$", Name: "Mexican Peso", Decimals: 2},
	"BRL": {Code: "BRL", Symbol: "R$", Name: "Brazilian Real", Decimals: 2},
	"PEN": {Code: "PEN", Symbol: "S/", Name: "Peruvian Sol", Decimals: 2},
	"COP": {Code: "COP", Symbol: "COL$", Name: "Colombian Peso", Decimals: 0},
	"ARS": {Code: "ARS", Symbol: "AR$", Name: "Argentine Peso", Decimals: 2},
	"CLP": {Code: "CLP", Symbol: "CL$", Name: "Chilean Peso", Decimals: 0},
	"CHF": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc", Decimals: 2},
	"SEK": {Code: "SEK", Symbol: "kr", Name: "Swedish Krona", Decimals: 2},
	"NOK": {Code: "NOK", Symbol: "kr", Name: "Norwegian Krone", Decimals: 2},
	"DKK": {Code: "DKK", Symbol: "kr", Name: "Danish Krone", Decimals: 2},
	"PLN": {Code: "PLN", Symbol: "zł", Name: "Polish Złoty", Decimals: 2},
	"RUB": {Code: "RUB", Symbol: "₽", Name: "Russian Ruble", Decimals: 2},
	"ZAR": {Code: "ZAR", Symbol: "R", Name: "South African Rand", Decimals: 2},
	"KRW": {Code: "KRW", Symbol: "₩", Name: "South Korean Won", Decimals: 0},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Decimals: 2},
	"HKD": {Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar", Decimals: 2},
	"NZD": {Code: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar", Decimals: 2},
	"THB": {Code: "THB", Symbol: "฿", Name: "Thai Baht", Decimals: 2},
	"MYR": {Code: "MYR", Symbol: "RM", Name: "Malaysian Ringgit", Decimals: 2},
	"PHP": {Code: "PHP", Symbol: "₱", Name: "Philippine Peso", Decimals: 2},
	"IDR": {Code: "IDR", Symbol: "Rp", Name: "Indonesian Rupiah", Decimals: 0},
	"VND": {Code: "VND", Symbol: "₫", Name: "Vietnamese Dong", Decimals: 0},
	"TRY": {Code: "TRY", Symbol: "₺", Name: "Turkish Lira", Decimals: 2},
	"ILS": {Code: "ILS", Symbol: "₪", Name: "Israeli Shekel", Decimals: 2},
	"AED": {Code: "AED", Symbol: "د.إ", Name: "UAE Dirham", Decimals: 2},
	"SAR": {Code: "SAR", Symbol: "﷼", Name: "Saudi Riyal", Decimals: 2},
}

// Table is a set of exchange rates quoted against one base currency.
type Table struct {
	Base      string
	Date      string
	Quotes    map[string]decimal.Decimal
	FetchedAt time.Time
}

// Provider produces a rate table for a base currency.
type Provider interface {
	Rates(ctx context.Context, base string) (*Table, error)
}

// Convert converts an amount between two currencies in the table. When
// neither currency is the base, the conversion triangulates through it.
func (t *Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	if t.Base == from {
		quote, ok := t.Quotes[to]
		if !ok {
			return decimal.Zero, fmt.Errorf("no quote for %s: %w", to, ErrUnknownCurrency)
		}
		return amount.Mul(quote), nil
	}

	fromQuote, ok := t.Quotes[from]
	if !ok || fromQuote.IsZero() {
		return decimal.Zero, fmt.Errorf("no quote for %s: %w", from, ErrUnknownCurrency)
	}
	toQuote, ok := t.Quotes[to]
	if !ok {
		if to == t.Base {
			toQuote = decimal.NewFromInt(1)
		} else {
			return decimal.Zero, fmt.Errorf("no quote for %s: %w", to, ErrUnknownCurrency)
		}
	}
	return amount.Div(fromQuote).Mul(toQuote), nil
}

// Format renders an amount with the currency's symbol and decimal
// places. Unknown codes fall back to two decimals, no symbol.
func Format(amount decimal.Decimal, code string) string {
	currency, ok := Currencies[code]
	if !ok {
		return amount.StringFixed(2)
	}
	return currency.Symbol + amount.StringFixed(currency.Decimals)
}
