package lynch

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce reads a raw provider value as a finite number.
//
// It accepts every Go numeric kind, json.Number and numeric strings where commas
// are thousands separators ("1,234.5"). NaN, infinities, empty strings and
// non numeric strings such as "None" or "-" are rejected with ErrMalformedValue.
// A nil value is rejected too, but callers usually test for nil first to tell
// missing from malformed.
func Coerce(v any) (float64, error) {
	var x float64
	switch v := v.(type) {
	case nil:
		return math.NaN(), fmt.Errorf("%w: null", ErrMalformedValue)
	case float64:
		x = v
	case float32:
		x = float64(v)
	case int:
		x = float64(v)
	case int8:
		x = float64(v)
	case int16:
		x = float64(v)
	case int32:
		x = float64(v)
	case int64:
		x = float64(v)
	case uint:
		x = float64(v)
	case uint8:
		x = float64(v)
	case uint16:
		x = float64(v)
	case uint32:
		x = float64(v)
	case uint64:
		x = float64(v)
	case json.Number:
		return parseNumber(string(v))
	case string:
		return parseNumber(v)
	default:
		return math.NaN(), fmt.Errorf("%w: unsupported type %T", ErrMalformedValue, v)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.NaN(), fmt.Errorf("%w: %v is not finite", ErrMalformedValue, x)
	}
	return x, nil
}

// parseNumber parses a numeric string, commas are stripped as thousands separators.
func parseNumber(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return math.NaN(), fmt.Errorf("%w: empty string", ErrMalformedValue)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: %q is not a number", ErrMalformedValue, s)
	}
	x := d.InexactFloat64()
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.NaN(), fmt.Errorf("%w: %q is out of range", ErrMalformedValue, s)
	}
	return x, nil
}

// coerceValue converts a raw value into a Value of the given kind.
func coerceValue(kind Kind, raw any) (Value, error) {
	switch kind {
	case Number:
		x, err := Coerce(raw)
		if err != nil {
			return Value{}, err
		}
		v, _ := NumberValue(x)
		return v, nil
	case Text:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: expected a string, got %T", ErrMalformedValue, raw)
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "none") {
			return Value{}, fmt.Errorf("%w: empty string", ErrMalformedValue)
		}
		return TextValue(s), nil
	case Flag:
		switch b := raw.(type) {
		case bool:
			return FlagValue(b), nil
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true":
				return FlagValue(true), nil
			case "false":
				return FlagValue(false), nil
			}
		}
		return Value{}, fmt.Errorf("%w: %v is not a boolean", ErrMalformedValue, raw)
	}
	return Value{}, fmt.Errorf("%w: unknown kind %v", ErrMalformedValue, kind)
}
