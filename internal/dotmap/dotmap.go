// Package dotmap exposes decoded JSON objects as attribute-navigable maps.
package dotmap

import (
	"errors"
	"fmt"
	"sort"
)

// ErrLookup indicates an attribute or key that is not present in the document.
var ErrLookup = errors.New("key does not exist")

// reservedNames are accessor names that attribute syntax resolves to the
// accessor itself, never to data. Bracket indexing bypasses this table.
var reservedNames = map[string]bool{
	"get":     true,
	"keys":    true,
	"values":  true,
	"items":   true,
	"to_dict": true,
}

// Reserved reports whether name collides with a built-in accessor.
func Reserved(name string) bool {
	return reservedNames[name]
}

// Map wraps a single JSON object so that its fields are reachable through
// attribute syntax. The underlying map is shared, not copied, so writes
// mutate the original document in place.
type Map struct {
	data map[string]any
}

// NewMap wraps an existing object without copying it.
func NewMap(data map[string]any) *Map {
	return &Map{data: data}
}

// Wrap prepares a decoded JSON value for querying. Objects become navigable
// maps, everything else passes through unchanged. Wrap is idempotent.
func Wrap(value any) any {
	switch current := value.(type) {
	case map[string]any:
		return NewMap(current)
	default:
		return value
	}
}

// Get resolves name as a key in the underlying object. A missing key is a
// lookup failure, never an implicitly created empty node.
func (m *Map) Get(name string) (any, error) {
	value, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLookup, name)
	}
	return Wrap(value), nil
}

// Attr resolves name through attribute syntax. A name colliding with a
// built-in accessor yields the accessor, not the data underneath it.
func (m *Map) Attr(name string) (any, error) {
	if reservedNames[name] {
		return Accessor{Name: name, Receiver: m}, nil
	}
	return m.Get(name)
}

// Set inserts or overwrites a key in place.
func (m *Map) Set(name string, value any) {
	m.data[name] = value
}

// Has reports whether the object contains the key.
func (m *Map) Has(name string) bool {
	_, ok := m.data[name]
	return ok
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.data)
}

// Keys returns the object's keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ToDict converts the wrapped object back into a plain map, recursively
// unwrapping any nested navigable values.
func (m *Map) ToDict() map[string]any {
	return Unwrap(m).(map[string]any)
}

// Unwrap recursively converts a query value back to the plain JSON domain.
// Maps and sequences are copied so later mutation of the document cannot
// alias the normalized result. Accessors pass through untouched so the
// caller can detect the reserved-name case.
func Unwrap(value any) any {
	switch current := value.(type) {
	case *Map:
		return Unwrap(current.data)
	case map[string]any:
		out := make(map[string]any, len(current))
		for key, element := range current {
			out[key] = Unwrap(element)
		}
		return out
	case []any:
		out := make([]any, len(current))
		for i, element := range current {
			out[i] = Unwrap(element)
		}
		return out
	default:
		return value
	}
}

// Accessor is a built-in accessor read through attribute syntax. Calling it
// runs the accessor against its receiver; letting it escape as data is a
// reserved-name error reported during normalization.
type Accessor struct {
	Name     string
	Receiver *Map
}

// Call invokes the accessor with the given arguments.
func (a Accessor) Call(args []any) (any, error) {
	switch a.Name {
	case "keys":
		if len(args) != 0 {
			return nil, fmt.Errorf("keys() takes no arguments, got %d", len(args))
		}
		keys := a.Receiver.Keys()
		out := make([]any, len(keys))
		for i, key := range keys {
			out[i] = key
		}
		return out, nil
	case "values":
		if len(args) != 0 {
			return nil, fmt.Errorf("values() takes no arguments, got %d", len(args))
		}
		keys := a.Receiver.Keys()
		out := make([]any, len(keys))
		for i, key := range keys {
			out[i] = Wrap(a.Receiver.data[key])
		}
		return out, nil
	case "items":
		if len(args) != 0 {
			return nil, fmt.Errorf("items() takes no arguments, got %d", len(args))
		}
		keys := a.Receiver.Keys()
		out := make([]any, len(keys))
		for i, key := range keys {
			out[i] = []any{key, Wrap(a.Receiver.data[key])}
		}
		return out, nil
	case "get":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("get() takes one or two arguments, got %d", len(args))
		}
		key, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("get() key must be a string, got %T", args[0])
		}
		value, exists := a.Receiver.data[key]
		if !exists {
			if len(args) == 2 {
				return args[1], nil
			}
			return nil, nil
		}
		return Wrap(value), nil
	case "to_dict":
		if len(args) != 0 {
			return nil, fmt.Errorf("to_dict() takes no arguments, got %d", len(args))
		}
		return a.Receiver.ToDict(), nil
	default:
		return nil, fmt.Errorf("unknown accessor %q", a.Name)
	}
}
