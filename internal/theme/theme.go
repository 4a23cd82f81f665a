// Package theme maps the sixteen named terminal colors onto output styles
// for the JSON formatter and the schema printer.
package theme

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/jacoelho/jello/internal/options"
)

// EnvVar configures the six color slots from the environment, overriding
// both the prelude and the built-in defaults.
const EnvVar = "JELLO_COLORS"

// validNames lists the recognized color names in their canonical order.
var validNames = []string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "gray",
	"brightblack", "brightred", "brightgreen", "brightyellow",
	"brightblue", "brightmagenta", "brightcyan", "white",
}

var attributes = map[string]color.Attribute{
	"black":         color.FgBlack,
	"red":           color.FgRed,
	"green":         color.FgGreen,
	"yellow":        color.FgYellow,
	"blue":          color.FgBlue,
	"magenta":       color.FgMagenta,
	"cyan":          color.FgCyan,
	"gray":          color.FgWhite,
	"brightblack":   color.FgHiBlack,
	"brightred":     color.FgHiRed,
	"brightgreen":   color.FgHiGreen,
	"brightyellow":  color.FgHiYellow,
	"brightblue":    color.FgHiBlue,
	"brightmagenta": color.FgHiMagenta,
	"brightcyan":    color.FgHiCyan,
	"white":         color.FgHiWhite,
}

// Valid reports whether name is one of the sixteen recognized colors.
func Valid(name string) bool {
	_, ok := attributes[name]
	return ok
}

// ValidNames returns the recognized color names as a comma-separated list
// for warning messages.
func ValidNames() string {
	return strings.Join(validNames, ", ")
}

// defaults per slot: key names, keywords, numbers, strings, array indices,
// array brackets.
var defaults = [6]string{"blue", "brightblack", "magenta", "green", "red", "magenta"}

// Env holds per-slot color overrides from the environment; an empty slot
// means no override.
type Env [6]string

// FromEnv parses the JELLO_COLORS value: six comma-separated color names,
// each a valid name or "default". A malformed value yields no overrides and
// a single warning, never an error.
func FromEnv(value string) (Env, bool) {
	var env Env
	if value == "" {
		return env, false
	}

	parts := strings.Split(value, ",")
	if len(parts) != 6 {
		return Env{}, true
	}

	for index, part := range parts {
		name := strings.TrimSpace(part)
		if name == "default" {
			continue
		}
		if !Valid(name) {
			return Env{}, true
		}
		env[index] = name
	}

	return env, false
}

// Theme renders the six output roles. Under mono every style is the
// identity function.
type Theme struct {
	KeyName     func(a ...any) string
	KeyNameBold func(a ...any) string
	Keyword     func(a ...any) string
	Number      func(a ...any) string
	String      func(a ...any) string
	ArrayID     func(a ...any) string
	Bracket     func(a ...any) string
}

// New resolves the six slots with precedence environment > options >
// built-in default, then binds them to styles. Mono disables all styling.
func New(opts options.Effective, env Env) Theme {
	if opts.Mono {
		return Theme{
			KeyName:     plain,
			KeyNameBold: plain,
			Keyword:     plain,
			Number:      plain,
			String:      plain,
			ArrayID:     plain,
			Bracket:     plain,
		}
	}

	slots := [6]string{
		opts.KeynameColor,
		opts.KeywordColor,
		opts.NumberColor,
		opts.StringColor,
		opts.ArrayidColor,
		opts.ArraybracketColor,
	}
	for index := range slots {
		if env[index] != "" {
			slots[index] = env[index]
		}
		if slots[index] == "" {
			slots[index] = defaults[index]
		}
	}

	return Theme{
		KeyName:     color.New(attributes[slots[0]]).SprintFunc(),
		KeyNameBold: color.New(attributes[slots[0]], color.Bold).SprintFunc(),
		Keyword:     color.New(attributes[slots[1]]).SprintFunc(),
		Number:      color.New(attributes[slots[2]]).SprintFunc(),
		String:      color.New(attributes[slots[3]]).SprintFunc(),
		ArrayID:     color.New(attributes[slots[4]]).SprintFunc(),
		Bracket:     color.New(attributes[slots[5]]).SprintFunc(),
	}
}

func plain(a ...any) string {
	return fmt.Sprint(a...)
}
