package number

import (
	"encoding/json"
	"fmt"
)

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int8:
		return float64(current), true
	case int16:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint8:
		return float64(current), true
	case uint16:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ToInt64 converts integer-typed values into int64.
func ToInt64(value any) (int64, error) {
	switch current := value.(type) {
	case int:
		return int64(current), nil
	case int8:
		return int64(current), nil
	case int16:
		return int64(current), nil
	case int32:
		return int64(current), nil
	case int64:
		return current, nil
	case uint:
		return int64(current), nil
	case uint8:
		return int64(current), nil
	case uint16:
		return int64(current), nil
	case uint32:
		return int64(current), nil
	case uint64:
		return int64(current), nil
	case json.Number:
		parsed, err := current.Int64()
		if err != nil {
			return 0, fmt.Errorf("value %v is not an integer", current)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("value %T is not an integer", value)
	}
}

// IsIntegral reports whether a float64 holds a whole number that fits in int64.
func IsIntegral(value float64) bool {
	return value == float64(int64(value))
}
