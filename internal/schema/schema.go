// Package schema renders a grep-able flat view of a JSON value, one
// "path.key = value;" line per leaf.
package schema

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jacoelho/jello/internal/theme"
)

// Lines flattens a value into schema lines. Keys are visited in sorted
// order so output is deterministic.
func Lines(value any, th theme.Theme) []string {
	var out []string
	walk(value, "", th, &out)
	return out
}

// Fprint writes the schema of value to w.
func Fprint(w io.Writer, value any, th theme.Theme) error {
	for _, line := range Lines(value, th) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func walk(value any, path string, th theme.Theme, out *[]string) {
	switch current := value.(type) {
	case []any:
		for index, element := range current {
			walk(element, path+indexSegment(path, index, th), th, out)
		}
	case map[string]any:
		keys := make([]string, 0, len(current))
		for key := range current {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			walk(current[key], path+"."+th.KeyNameBold(key), th, out)
		}
	default:
		line := path
		if line == "" {
			line = "."
		}
		*out = append(*out, fmt.Sprintf("%s = %s;", line, leaf(current, th)))
	}
}

// indexSegment renders "[i]" with colored brackets; a root-level list gets
// a leading dot so every path starts with one.
func indexSegment(path string, index int, th theme.Theme) string {
	segment := th.Bracket("[") + th.ArrayID(strconv.Itoa(index)) + th.Bracket("]")
	if path == "" {
		return "." + segment
	}
	return segment
}

func leaf(value any, th theme.Theme) string {
	switch current := value.(type) {
	case nil:
		return th.Keyword("null")
	case bool:
		return th.Keyword(strconv.FormatBool(current))
	case int64:
		return th.Number(strconv.FormatInt(current, 10))
	case float64:
		return th.Number(strconv.FormatFloat(current, 'g', -1, 64))
	case string:
		return th.String(strconv.Quote(current))
	default:
		return th.String(fmt.Sprintf("%v", current))
	}
}
