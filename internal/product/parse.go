package product

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// pricePlaces and maxPrice match the numeric(14,2) price column.
const pricePlaces = 2

// Exponent bounds keep Round and Cmp from rescaling to huge integers.
const (
	maxPriceExponent = 12
	minPriceExponent = -16
)

var maxPrice = decimal.RequireFromString("999999999999.99")

// ParsePrice coerces a string, JSON number or numeric value into a price.
// Negative values and values finer than a cent are rejected.
func ParsePrice(v any) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch p := v.(type) {
	case decimal.Decimal:
		d = p
	case *decimal.Decimal:
		if p == nil {
			return decimal.Zero, fmt.Errorf("price is null")
		}
		d = *p
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(p))
	case json.Number:
		d, err = decimal.NewFromString(p.String())
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		var s string
		s, err = cast.ToStringE(p)
		if err == nil {
			d, err = decimal.NewFromString(s)
		}
	case nil:
		return decimal.Zero, fmt.Errorf("price is null")
	default:
		return decimal.Zero, fmt.Errorf("price has unsupported type %T", v)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %v is not a number", v)
	}
	if d.IsZero() {
		d = decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price %v is negative", v)
	}
	if exp := d.Exponent(); exp > maxPriceExponent {
		return decimal.Zero, fmt.Errorf("price %v is larger than %s", v, maxPrice.StringFixed(pricePlaces))
	} else if exp < minPriceExponent {
		return decimal.Zero, fmt.Errorf("price %v has more than %d decimal places", v, pricePlaces)
	}
	if d.GreaterThan(maxPrice) {
		return decimal.Zero, fmt.Errorf("price %s is larger than %s", d.String(), maxPrice.StringFixed(pricePlaces))
	}
	if !d.Equal(d.Round(pricePlaces)) {
		return decimal.Zero, fmt.Errorf("price %s has more than %d decimal places", d.String(), pricePlaces)
	}
	return d, nil
}

var boolValues = map[string]bool{
	"true":  true,
	"1":     true,
	"t":     true,
	"y":     true,
	"yes":   true,
	"false": false,
	"0":     false,
	"f":     false,
	"n":     false,
	"no":    false,
}

// ParseBool maps query-string spellings of a boolean, ignoring case.
func ParseBool(s string) (bool, error) {
	b, ok := boolValues[strings.ToLower(s)]
	if !ok {
		return false, fmt.Errorf("cannot convert %s to a boolean", s)
	}
	return b, nil
}
