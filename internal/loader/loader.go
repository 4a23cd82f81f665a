// Package loader decodes input documents into the plain JSON value domain:
// nil, bool, int64, float64, string, []any and map[string]any.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jello/internal/number"
)

// ErrLoad indicates input that is neither a JSON document nor JSON Lines.
var ErrLoad = errors.New("input is not valid JSON or JSON lines")

// Load decodes a JSON document. When the input is not a single valid
// document it is retried as JSON Lines, one document per non-empty line.
func Load(data []byte) (any, error) {
	value, err := decode(data)
	if err == nil {
		return value, nil
	}

	var documents []any
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		document, lineErr := decode([]byte(trimmed))
		if lineErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		documents = append(documents, document)
	}

	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: input is empty", ErrLoad)
	}
	return documents, nil
}

// decode parses exactly one JSON value, rejecting trailing garbage.
// Numbers decode through json.Number and are lowered to int64 when
// integral so integer input prints back without a decimal point.
func decode(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(new(any)); err != io.EOF {
		return nil, errors.New("trailing data after JSON document")
	}

	return lower(value), nil
}

func lower(value any) any {
	switch current := value.(type) {
	case json.Number:
		if integer, err := current.Int64(); err == nil {
			return integer
		}
		if float, err := current.Float64(); err == nil {
			return float
		}
		return string(current)
	case []any:
		for index, element := range current {
			current[index] = lower(element)
		}
		return current
	case map[string]any:
		for key, element := range current {
			current[key] = lower(element)
		}
		return current
	default:
		return value
	}
}

// LoadYAML decodes a YAML document into the same value domain.
func LoadYAML(data []byte) (any, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("input is not valid YAML: %w", err)
	}
	return lowerYAML(value), nil
}

// lowerYAML normalizes the decoder's native types: integer kinds become
// int64, non-string mapping keys are rendered as strings because the JSON
// domain requires string keys.
func lowerYAML(value any) any {
	switch current := value.(type) {
	case map[string]any:
		for key, element := range current {
			current[key] = lowerYAML(element)
		}
		return current
	case map[any]any:
		out := make(map[string]any, len(current))
		for key, element := range current {
			out[fmt.Sprint(key)] = lowerYAML(element)
		}
		return out
	case []any:
		for index, element := range current {
			current[index] = lowerYAML(element)
		}
		return current
	case float64, string, bool, nil:
		return current
	default:
		if integer, err := number.ToInt64(current); err == nil {
			return integer
		}
		if float, ok := number.ToFloat64(current); ok {
			return float
		}
		return current
	}
}
