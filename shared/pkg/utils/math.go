package utils

import (
	"math"
	"strings"
)

// Nullable is satisfied by scanned nullable columns such as database.NullDecimal.
type Nullable interface {
	Float64() (float64, bool)
}

// CoerceFloat converts a loosely typed store value into a float.
// ok is false only when the value is absent (nil or blank string). A present
// value that does not parse as a number coerces to 0.
func CoerceFloat(value interface{}) (f float64, ok bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return SanitizeFloat(v), true
	case float32:
		return SanitizeFloat(float64(v)), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		return 0, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		return SanitizeFloat(DecimalToFloat(ParseDecimalSafe(s))), true
	case Nullable:
		f, ok := v.Float64()
		return SanitizeFloat(f), ok
	default:
		return 0, true
	}
}

// SanitizeFloat maps NaN and infinities to zero.
func SanitizeFloat(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0.0
	}
	return value
}
