// Package money holds the price arithmetic shared by the catalog, the cart and order
// payloads. Amounts are float64 values rounded to cents with multiply-round-divide so
// the figures match what the backend has always received.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Round2 rounds x to two decimal places, half away from zero.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*100) / 100
}

// ParsePrice canonicalizes a price that may arrive as a number or as a locale
// formatted string ("12,50" or "12.50"). Missing or unparseable input yields 0.
func ParsePrice(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return Round2(v)
	case float32:
		return Round2(float64(v))
	case int:
		return Round2(float64(v))
	case int64:
		return Round2(float64(v))
	case int32:
		return Round2(float64(v))
	case json.Number:
		return parsePriceString(v.String())
	case string:
		return parsePriceString(v)
	case bool:
		return 0
	default:
		return parsePriceString(fmt.Sprint(v))
	}
}

func parsePriceString(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	// only the first comma is treated as the decimal separator
	s = strings.Replace(s, ",", ".", 1)
	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return Round2(f)
}

// LineTotal multiplies a unit price by an integer quantity and rounds to cents.
func LineTotal(price any, quantity int) float64 {
	if quantity == 0 {
		return 0
	}
	unit := ParsePrice(price)
	if unit == 0 {
		return 0
	}
	return Round2(unit * float64(quantity))
}

// Sum adds cent amounts without accumulating binary drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

// FormatBRL renders v the pt-BR way: "1.234,56".
func FormatBRL(v float64) string {
	fixed := decimal.NewFromFloat(Round2(v)).StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
