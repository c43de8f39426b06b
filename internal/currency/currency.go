// Package currency converts amounts between currencies through a fixed table
// of rates against a single reference currency and rounds budget figures to
// human-friendly numbers.
package currency

import (
	"math"
	"strings"
)

// Reference is the currency every rate in the default table is quoted in.
const Reference = "DKK"

// Table maps an ISO 4217 code to how many units of the reference currency one
// unit of that code is worth.
type Table map[string]float64

// DefaultTable returns a fresh copy of the built-in rates.
func DefaultTable() Table {
	return Table{
		"DKK": 1,
		"EUR": 7.46,
		"USD": 6.90,
		"GBP": 8.70,
		"SEK": 0.65,
		"NOK": 0.65,
		"CHF": 7.80,
		"PLN": 1.72,
	}
}

// WithOverrides returns a copy of t with rates replaced or added. Codes are
// normalised to upper case and non-positive rates are ignored.
func (t Table) WithOverrides(overrides map[string]float64) Table {
	out := make(Table, len(t)+len(overrides))
	for code, rate := range t {
		out[code] = rate
	}
	for code, rate := range overrides {
		if rate <= 0 {
			continue
		}
		out[strings.ToUpper(code)] = rate
	}
	return out
}

// Known reports whether code has a rate.
func (t Table) Known(code string) bool {
	_, ok := t[normalize(code)]
	return ok
}

// Convert converts amount from one currency to another. Equal codes and codes
// missing from the table return amount unchanged.
func (t Table) Convert(amount float64, from, to string) float64 {
	from, to = normalize(from), normalize(to)
	if from == to {
		return amount
	}
	fromRate, ok := t[from]
	if !ok {
		return amount
	}
	toRate, ok := t[to]
	if !ok {
		return amount
	}
	return amount * fromRate / toRate
}

// ConvertAndRound converts and then applies SmartRound. Equal codes return
// amount untouched, without rounding.
func (t Table) ConvertAndRound(amount float64, from, to string) float64 {
	if normalize(from) == normalize(to) {
		return amount
	}
	return SmartRound(t.Convert(amount, from, to))
}

// SmartRound rounds to a step chosen by the magnitude of amount, half away
// from zero, keeping the sign.
func SmartRound(amount float64) float64 {
	step := stepFor(math.Abs(amount))
	return math.Round(amount/step) * step
}

func stepFor(abs float64) float64 {
	switch {
	case abs < 100:
		return 1
	case abs < 1000:
		return 5
	case abs < 10000:
		return 50
	case abs < 100000:
		return 500
	default:
		return 1000
	}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var defaultTable = DefaultTable()

func Convert(amount float64, from, to string) float64 {
	return defaultTable.Convert(amount, from, to)
}

func ConvertAndRound(amount float64, from, to string) float64 {
	return defaultTable.ConvertAndRound(amount, from, to)
}
