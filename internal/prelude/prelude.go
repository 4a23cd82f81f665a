// Package prelude loads and validates the optional per-user initialization
// script executed before the query.
package prelude

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jacoelho/jello/internal/options"
	"github.com/jacoelho/jello/internal/query"
	"github.com/jacoelho/jello/internal/theme"
)

// FileName is the initialization file looked up in the platform's home
// directory.
const FileName = ".jelloconf.jello"

// ErrMissingConfig indicates that the prelude was explicitly requested but
// the initialization file does not exist.
var ErrMissingConfig = errors.New("initialization file not found")

// Warning is a non-fatal validation problem. The affected option group has
// already been reset when a warning is reported.
type Warning struct {
	Message string
}

// Locate returns the platform default path of the initialization file.
func Locate() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA is not set")
		}
		return filepath.Join(appData, FileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the initialization file. A missing file is fatal because Load
// is only called when the prelude was explicitly requested; the error names
// the expected path.
func Load(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return "", fmt.Errorf("read initialization file: %w", err)
	}
	return string(content), nil
}

// staging collects raw assignment values before validation; nil means unset.
type staging struct {
	booleans map[string]any
	colors   map[string]any
}

var booleanOptions = []string{"compact", "raw", "lines", "nulls", "mono", "schema"}

var colorOptions = []string{
	"keyname_color", "keyword_color", "number_color",
	"string_color", "arrayid_color", "arraybracket_color",
}

// Parse extracts option assignments from the prelude script and validates
// them. Validation is all-or-nothing per group: one invalid boolean unsets
// all six boolean options with a single warning, and one invalid color
// unsets all six color options with a single warning. Non-option
// assignments are ignored here; they take effect when the prelude text is
// prepended to the query.
func Parse(text string, path string) (options.Set, []Warning, error) {
	if text == "" {
		return options.Set{}, nil, nil
	}

	program, err := query.Parse(text)
	if err != nil {
		return options.Set{}, nil, fmt.Errorf("parse initialization file %s: %w", path, err)
	}

	stage := staging{
		booleans: make(map[string]any),
		colors:   make(map[string]any),
	}

	for _, assignment := range program.Assignments() {
		if !isBooleanOption(assignment.Name) && !isColorOption(assignment.Name) {
			continue
		}

		value, err := assignment.Eval()
		if err != nil {
			return options.Set{}, nil, fmt.Errorf("evaluate option %q in %s: %w", assignment.Name, path, err)
		}

		if isBooleanOption(assignment.Name) {
			stage.booleans[assignment.Name] = value
		} else {
			stage.colors[assignment.Name] = value
		}
	}

	var warnings []Warning

	if invalid := invalidBoolean(stage.booleans); invalid {
		stage.booleans = map[string]any{}
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("options must be set to true or false in %s; unsetting all options", path),
		})
	}

	if invalid := invalidColor(stage.colors); invalid {
		stage.colors = map[string]any{}
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("colors must be set to one of: %s in %s; unsetting all colors", theme.ValidNames(), path),
		})
	}

	return buildSet(stage), warnings, nil
}

func isBooleanOption(name string) bool {
	for _, option := range booleanOptions {
		if option == name {
			return true
		}
	}
	return false
}

func isColorOption(name string) bool {
	for _, option := range colorOptions {
		if option == name {
			return true
		}
	}
	return false
}

func invalidBoolean(values map[string]any) bool {
	for _, value := range values {
		if _, ok := value.(bool); !ok {
			return true
		}
	}
	return false
}

func invalidColor(values map[string]any) bool {
	for _, value := range values {
		name, ok := value.(string)
		if !ok || !theme.Valid(name) {
			return true
		}
	}
	return false
}

func buildSet(stage staging) options.Set {
	var set options.Set

	for name, value := range stage.booleans {
		enabled, ok := value.(bool)
		if !ok {
			continue
		}
		pointer := new(bool)
		*pointer = enabled
		switch name {
		case "compact":
			set.Compact = pointer
		case "raw":
			set.Raw = pointer
		case "lines":
			set.Lines = pointer
		case "nulls":
			set.Nulls = pointer
		case "mono":
			set.Mono = pointer
		case "schema":
			set.Schema = pointer
		}
	}

	for name, value := range stage.colors {
		colorName, ok := value.(string)
		if !ok {
			continue
		}
		switch name {
		case "keyname_color":
			set.KeynameColor = colorName
		case "keyword_color":
			set.KeywordColor = colorName
		case "number_color":
			set.NumberColor = colorName
		case "string_color":
			set.StringColor = colorName
		case "arrayid_color":
			set.ArrayidColor = colorName
		case "arraybracket_color":
			set.ArraybracketColor = colorName
		}
	}

	return set
}
