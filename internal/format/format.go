// Package format turns optional market numbers into display strings.
// Every function accepts nil, NaN and Inf and renders NotAvailable for them.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered for unknown values.
const NotAvailable = "N/A"

const (
	// scientificThreshold is the magnitude below which prices switch to exponential notation.
	scientificThreshold = 1e-6

	priceMinFraction = 2
	priceMaxFraction = 6
)

var printer = message.NewPrinter(language.English)

// Direction of a signed change.
type Direction string

const (
	Up      Direction = "up"
	Down    Direction = "down"
	Flat    Direction = "flat"
	Unknown Direction = "unknown"
)

// Price formats a USD price, e.g. $50,000.00, $0.000123 or 1.00e-7.
func Price(v *float64) string {
	n, ok := value(v)
	if !ok {
		return NotAvailable
	}
	if n != 0 && math.Abs(n) < scientificThreshold {
		return scientific(n)
	}
	return currency(n)
}

// Large formats big amounts with K/M/B suffixes rounded to 2 decimals.
func Large(v *float64) string {
	n, ok := value(v)
	if !ok {
		return NotAvailable
	}
	abs := math.Abs(n)
	switch {
	case abs >= 1e9:
		return fixed(n/1e9, 2) + "B"
	case abs >= 1e6:
		return fixed(n/1e6, 2) + "M"
	case abs >= 1e3:
		return fixed(n/1e3, 2) + "K"
	default:
		return fixed(n, 2)
	}
}

// Percent formats the magnitude of a change with 2 decimals. The sign is
// reported separately by Direction.
func Percent(v *float64) string {
	n, ok := value(v)
	if !ok {
		return NotAvailable
	}
	return fixed(math.Abs(n), 2) + "%"
}

// DirectionOf reports whether a change is positive, negative or zero.
func DirectionOf(v *float64) Direction {
	n, ok := value(v)
	switch {
	case !ok:
		return Unknown
	case n > 0:
		return Up
	case n < 0:
		return Down
	default:
		return Flat
	}
}

// Supply formats a circulating supply followed by the asset symbol.
func Supply(v *float64, symbol string) string {
	s := Large(v)
	if s == NotAvailable || symbol == "" {
		return s
	}
	return s + " " + strings.ToUpper(symbol)
}

func value(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func fixed(n float64, places int32) string {
	return decimal.NewFromFloat(n).StringFixed(places)
}

// scientific renders 2 mantissa decimals with an unpadded exponent (1.00e-7).
func scientific(n float64) string {
	s := strconv.FormatFloat(n, 'e', 2, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	sign := "+"
	if e < 0 {
		sign = "-"
		e = -e
	}
	return mantissa + "e" + sign + strconv.Itoa(e)
}

func currency(n float64) string {
	d := decimal.NewFromFloat(n).Round(priceMaxFraction)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(priceMaxFraction)

	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	for len(frac) < priceMinFraction {
		frac += "0"
	}

	grouped := whole
	if w, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = printer.Sprintf("%d", w)
	}

	out := "$" + grouped + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
