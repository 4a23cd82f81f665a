// Package normalize converts raw query results back into the plain JSON
// value domain.
package normalize

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jello/internal/dotmap"
)

// ErrReservedName indicates a result that resolved to a built-in accessor
// instead of data.
var ErrReservedName = errors.New("reserved key name, use bracket notation to access this key")

// ErrSerialization indicates a result containing a value outside the plain
// JSON domain.
var ErrSerialization = errors.New("value is not JSON serializable")

// Normalize unwraps navigable values from a query result. Lists keep their
// order with object elements unwrapped individually; plain values pass
// through unchanged, making Normalize idempotent.
func Normalize(raw any) (any, error) {
	if accessor, ok := raw.(dotmap.Accessor); ok {
		return nil, fmt.Errorf("%w: %q", ErrReservedName, accessor.Name)
	}

	value := dotmap.Unwrap(raw)
	if err := check(value); err != nil {
		return nil, err
	}
	return value, nil
}

func check(value any) error {
	switch current := value.(type) {
	case nil, bool, int64, float64, string:
		return nil
	case []any:
		for _, element := range current {
			if err := check(element); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, element := range current {
			if err := check(element); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrSerialization, value)
	}
}
