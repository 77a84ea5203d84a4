package values

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal converts a JSON-decoded value into an exact decimal.
// Strings are accepted when they hold a plain numeric literal; booleans never are.
// JSON numbers unmarshal to float64, so NewFromFloat is the common path.
// Non-finite floats have no decimal form and are rejected.
func Decimal(v interface{}) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case float64:
		if !isFinite(val) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(val), true
	case float32:
		if !isFinite(float64(val)) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case int32:
		return decimal.NewFromInt(int64(val)), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// Float converts d to a float64, failing when d is outside the float64 range.
func Float(d decimal.Decimal) (float64, bool) {
	f := d.InexactFloat64()
	return f, isFinite(f)
}

// Int64 converts an integral d to an int64, failing when it does not fit.
func Int64(d decimal.Decimal) (int64, bool) {
	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, false
	}
	return d.IntPart(), true
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ExtractDecimal pulls a numeric value from a payload by field name.
func ExtractDecimal(data map[string]interface{}, field string) (decimal.Decimal, bool) {
	if field == "" {
		return decimal.Zero, false
	}
	v, ok := data[field]
	if !ok {
		return decimal.Zero, false
	}
	return Decimal(v)
}

// IsNumber reports whether v is already a finite JSON number (not a numeric string).
func IsNumber(v interface{}) bool {
	switch val := v.(type) {
	case float64:
		return isFinite(val)
	case float32:
		return isFinite(float64(val))
	case int, int64, int32, json.Number:
		return true
	}
	return false
}
