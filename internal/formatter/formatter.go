// Package formatter renders normalized query results as JSON text,
// honoring the compact, lines, raw and nulls options.
package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jacoelho/jello/internal/options"
	"github.com/jacoelho/jello/internal/theme"
)

// ErrLines indicates a list of lists, which has no lines representation.
var ErrLines = errors.New("cannot print list of lists as lines, try normal JSON output")

const indentWidth = 2

// Formatter renders values with a fixed option set and theme.
type Formatter struct {
	opts  options.Effective
	theme theme.Theme
}

// New creates a formatter for one invocation.
func New(opts options.Effective, th theme.Theme) *Formatter {
	return &Formatter{opts: opts, theme: th}
}

// Format renders a plain JSON value. The result carries no trailing
// newline; an empty string means nothing should be printed (a null result
// without the nulls option).
func (f *Formatter) Format(value any) (string, error) {
	switch current := value.(type) {
	case nil:
		if f.opts.Nulls {
			return f.theme.Keyword("null"), nil
		}
		return "", nil
	case string:
		// Literal newlines print as the two characters \n so one result
		// stays on one line.
		escaped := strings.ReplaceAll(current, "\n", "\\n")
		if f.opts.Raw {
			return f.theme.String(escaped), nil
		}
		return f.theme.String(quoteString(escaped)), nil
	case []any:
		if f.opts.Lines {
			return f.formatLines(current)
		}
		return f.writeDocument(current)
	case map[string]any:
		return f.writeDocument(current)
	default:
		return f.scalar(current)
	}
}

// formatLines prints one list element per line. Only flat lists qualify.
func (f *Formatter) formatLines(elements []any) (string, error) {
	var b strings.Builder

	for index, element := range elements {
		if index > 0 {
			b.WriteByte('\n')
		}

		switch current := element.(type) {
		case nil:
			if f.opts.Nulls {
				b.WriteString(f.theme.Keyword("null"))
			}
		case []any:
			return "", ErrLines
		case map[string]any:
			compact := *f
			compact.opts.Compact = true
			line, err := compact.writeDocument(current)
			if err != nil {
				return "", err
			}
			b.WriteString(line)
		case string:
			escaped := strings.ReplaceAll(current, "\n", "\\n")
			if f.opts.Raw {
				b.WriteString(f.theme.String(escaped))
			} else {
				b.WriteString(f.theme.String(quoteString(escaped)))
			}
		default:
			rendered, err := f.scalar(current)
			if err != nil {
				return "", err
			}
			b.WriteString(rendered)
		}
	}

	return b.String(), nil
}

func (f *Formatter) writeDocument(value any) (string, error) {
	var b strings.Builder
	if err := f.writeValue(&b, value, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (f *Formatter) writeValue(b *strings.Builder, value any, depth int) error {
	switch current := value.(type) {
	case nil:
		b.WriteString(f.theme.Keyword("null"))
		return nil
	case bool:
		b.WriteString(f.theme.Keyword(strconv.FormatBool(current)))
		return nil
	case string:
		b.WriteString(f.theme.String(quoteString(current)))
		return nil
	case []any:
		return f.writeList(b, current, depth)
	case map[string]any:
		return f.writeObject(b, current, depth)
	default:
		rendered, err := f.scalar(current)
		if err != nil {
			return err
		}
		b.WriteString(rendered)
		return nil
	}
}

func (f *Formatter) writeList(b *strings.Builder, elements []any, depth int) error {
	if len(elements) == 0 {
		b.WriteString(f.theme.Bracket("[]"))
		return nil
	}

	b.WriteString(f.theme.Bracket("["))
	for index, element := range elements {
		if index > 0 {
			b.WriteString(",")
		}
		f.newlineIndent(b, depth+1)
		if err := f.writeValue(b, element, depth+1); err != nil {
			return err
		}
	}
	f.newlineIndent(b, depth)
	b.WriteString(f.theme.Bracket("]"))
	return nil
}

func (f *Formatter) writeObject(b *strings.Builder, object map[string]any, depth int) error {
	if len(object) == 0 {
		b.WriteString(f.theme.Bracket("{}"))
		return nil
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	b.WriteString(f.theme.Bracket("{"))
	for index, key := range keys {
		if index > 0 {
			b.WriteString(",")
		}
		f.newlineIndent(b, depth+1)
		b.WriteString(f.theme.KeyName(quoteString(key)))
		if f.opts.Compact {
			b.WriteString(":")
		} else {
			b.WriteString(": ")
		}
		if err := f.writeValue(b, object[key], depth+1); err != nil {
			return err
		}
	}
	f.newlineIndent(b, depth)
	b.WriteString(f.theme.Bracket("}"))
	return nil
}

func (f *Formatter) newlineIndent(b *strings.Builder, depth int) {
	if f.opts.Compact {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < depth*indentWidth; i++ {
		b.WriteByte(' ')
	}
}

func (f *Formatter) scalar(value any) (string, error) {
	switch current := value.(type) {
	case bool:
		return f.theme.Keyword(strconv.FormatBool(current)), nil
	case int64:
		return f.theme.Number(strconv.FormatInt(current, 10)), nil
	case float64:
		encoded, err := json.Marshal(current)
		if err != nil {
			return "", fmt.Errorf("value is not JSON serializable: %w", err)
		}
		return f.theme.Number(string(encoded)), nil
	default:
		return "", fmt.Errorf("value of type %T is not JSON serializable", value)
	}
}

// quoteString renders a JSON string without escaping HTML characters.
func quoteString(value string) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return strconv.Quote(value)
	}
	return strings.TrimRight(buf.String(), "\n")
}
