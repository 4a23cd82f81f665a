package query

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/theory/jsonpath"

	"github.com/jacoelho/jello/internal/dotmap"
	"github.com/jacoelho/jello/internal/number"
)

// callBuiltin dispatches the fixed builtin function table. Builtins are the
// only callable values in the language besides object accessors.
func (i *Interpreter) callBuiltin(name string, args []any) (any, error) {
	switch name {
	case "len":
		return builtinLen(args)
	case "str":
		return builtinStr(args)
	case "int":
		return builtinInt(args)
	case "float":
		return builtinFloat(args)
	case "keys":
		return builtinKeys(args)
	case "values":
		return builtinValues(args)
	case "sum":
		return builtinSum(args)
	case "min":
		return builtinExtreme("min", args)
	case "max":
		return builtinExtreme("max", args)
	case "sorted":
		return builtinSorted(args)
	case "range":
		return builtinRange(args)
	case "uuid":
		if len(args) != 0 {
			return nil, runtimeError("uuid() takes no arguments, got %d", len(args))
		}
		return uuid.New().String(), nil
	case "jsonpath":
		return i.builtinJSONPath(args)
	default:
		return nil, runtimeError("unknown function %q", name)
	}
}

func builtinLen(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("len() takes one argument, got %d", len(args))
	}

	switch value := args[0].(type) {
	case string:
		return int64(utf8.RuneCountInString(value)), nil
	case []any:
		return int64(len(value)), nil
	case map[string]any:
		return int64(len(value)), nil
	case *dotmap.Map:
		return int64(value.Len()), nil
	default:
		return nil, runtimeError("len() is not supported on %T", args[0])
	}
}

func builtinStr(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("str() takes one argument, got %d", len(args))
	}

	switch value := args[0].(type) {
	case nil:
		return "null", nil
	case string:
		return value, nil
	case bool:
		return strconv.FormatBool(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64), nil
	default:
		encoded, err := json.Marshal(dotmap.Unwrap(value))
		if err != nil {
			return nil, runtimeError("str() cannot render %T", args[0])
		}
		return string(encoded), nil
	}
}

func builtinInt(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("int() takes one argument, got %d", len(args))
	}

	switch value := args[0].(type) {
	case int64:
		return value, nil
	case float64:
		return int64(value), nil
	case bool:
		if value {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, runtimeError("int() cannot parse %q", value)
		}
		return parsed, nil
	default:
		return nil, runtimeError("int() is not supported on %T", args[0])
	}
}

func builtinFloat(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("float() takes one argument, got %d", len(args))
	}

	switch value := args[0].(type) {
	case float64:
		return value, nil
	case int64:
		return float64(value), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, runtimeError("float() cannot parse %q", value)
		}
		return parsed, nil
	default:
		return nil, runtimeError("float() is not supported on %T", args[0])
	}
}

func builtinKeys(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("keys() takes one argument, got %d", len(args))
	}

	m, err := asMap(args[0])
	if err != nil {
		return nil, err
	}

	keys := m.Keys()
	out := make([]any, len(keys))
	for index, key := range keys {
		out[index] = key
	}
	return out, nil
}

func builtinValues(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("values() takes one argument, got %d", len(args))
	}

	m, err := asMap(args[0])
	if err != nil {
		return nil, err
	}

	keys := m.Keys()
	out := make([]any, len(keys))
	for index, key := range keys {
		value, err := m.Get(key)
		if err != nil {
			return nil, err
		}
		out[index] = value
	}
	return out, nil
}

func asMap(value any) (*dotmap.Map, error) {
	switch current := value.(type) {
	case *dotmap.Map:
		return current, nil
	case map[string]any:
		return dotmap.NewMap(current), nil
	default:
		return nil, runtimeError("expected an object, got %T", value)
	}
}

func builtinSum(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("sum() takes one argument, got %d", len(args))
	}

	elements, ok := args[0].([]any)
	if !ok {
		return nil, runtimeError("sum() expects a list, got %T", args[0])
	}

	var intTotal int64
	var floatTotal float64
	sawFloat := false

	for _, element := range elements {
		switch value := element.(type) {
		case int64:
			intTotal += value
			floatTotal += float64(value)
		case float64:
			sawFloat = true
			floatTotal += value
		default:
			return nil, runtimeError("sum() expects numbers, got %T", element)
		}
	}

	if sawFloat {
		return floatTotal, nil
	}
	return intTotal, nil
}

func builtinExtreme(name string, args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("%s() takes one argument, got %d", name, len(args))
	}

	elements, ok := args[0].([]any)
	if !ok {
		return nil, runtimeError("%s() expects a list, got %T", name, args[0])
	}
	if len(elements) == 0 {
		return nil, runtimeError("%s() of an empty list", name)
	}

	best := elements[0]
	for _, element := range elements[1:] {
		op := tokenLess
		if name == "max" {
			op = tokenGreater
		}
		better, err := orderValues(op, element, best)
		if err != nil {
			return nil, err
		}
		if better.(bool) {
			best = element
		}
	}
	return best, nil
}

func builtinSorted(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("sorted() takes one argument, got %d", len(args))
	}

	elements, ok := args[0].([]any)
	if !ok {
		return nil, runtimeError("sorted() expects a list, got %T", args[0])
	}

	out := make([]any, len(elements))
	copy(out, elements)

	var sortErr error
	sort.SliceStable(out, func(a, b int) bool {
		less, err := orderValues(tokenLess, out[a], out[b])
		if err != nil {
			if sortErr == nil {
				sortErr = err
			}
			return false
		}
		return less.(bool)
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return out, nil
}

func builtinRange(args []any) (any, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, runtimeError("range() takes one to three arguments, got %d", len(args))
	}

	bounds := make([]int64, len(args))
	for index, arg := range args {
		value, err := number.ToInt64(arg)
		if err != nil {
			return nil, runtimeError("range() expects integers, got %T", arg)
		}
		bounds[index] = value
	}

	start, stop, step := int64(0), int64(0), int64(1)
	switch len(bounds) {
	case 1:
		stop = bounds[0]
	case 2:
		start, stop = bounds[0], bounds[1]
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
	}
	if step == 0 {
		return nil, runtimeError("range() step must not be zero")
	}

	var out []any
	if step > 0 {
		for value := start; value < stop; value += step {
			out = append(out, value)
		}
	} else {
		for value := start; value > stop; value += step {
			out = append(out, value)
		}
	}
	return out, nil
}

// builtinJSONPath evaluates a standard JSONPath expression against the plain
// input document and returns the list of matches.
func (i *Interpreter) builtinJSONPath(args []any) (any, error) {
	if len(args) != 1 {
		return nil, runtimeError("jsonpath() takes one argument, got %d", len(args))
	}

	pathExpr, ok := args[0].(string)
	if !ok {
		return nil, runtimeError("jsonpath() expects a string, got %T", args[0])
	}
	if i.root == nil {
		return nil, runtimeError("jsonpath() requires an input document")
	}

	path, err := jsonpath.Parse(pathExpr)
	if err != nil {
		return nil, runtimeError("invalid JSONPath %q: %v", pathExpr, err)
	}

	results := path.Select(i.root)
	out := make([]any, len(results))
	for index, result := range results {
		out[index] = dotmap.Wrap(result)
	}
	return out, nil
}
