// Package config parses the command line into an invocation configuration.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jacoelho/jello/internal/options"
)

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrHelp             = errors.New("help requested")
	ErrTooManyArguments = errors.New("expected at most one query argument")
)

// Config represents the complete configuration for one jello invocation.
type Config struct {
	// Query is the script to run; "_" echoes the input unchanged.
	Query string

	// Initialize loads the per-user prelude file before running the query.
	Initialize bool

	// YAMLInput decodes stdin as YAML instead of JSON.
	YAMLInput bool

	// Version prints the version string and exits.
	Version bool

	// Flags holds options enabled on the command line. Flags beat both
	// prelude assignments and built-in defaults.
	Flags options.Set
}

// Parse parses and validates CLI arguments.
func Parse(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, ErrNoArguments
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	compact := fs.Bool("c", false, "Compact JSON output")
	initialize := fs.Bool("i", false, "Initialize environment with the prelude file")
	lines := fs.Bool("l", false, "Output one value per line")
	mono := fs.Bool("m", false, "Monochrome output")
	nulls := fs.Bool("n", false, "Print null values instead of blanks")
	raw := fs.Bool("r", false, "Raw string output without quotes")
	schema := fs.Bool("s", false, "Print the JSON schema in grep-able format")
	yamlInput := fs.Bool("y", false, "Read stdin as YAML instead of JSON")
	version := fs.Bool("v", false, "Print version information")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return nil, fmt.Errorf("%w, got %d", ErrTooManyArguments, len(rest))
	}

	queryText := "_"
	if len(rest) == 1 && rest[0] != "" {
		queryText = rest[0]
	}

	var flagSet options.Set
	if *compact {
		flagSet.Compact = options.True()
	}
	if *lines {
		flagSet.Lines = options.True()
	}
	if *mono {
		flagSet.Mono = options.True()
	}
	if *nulls {
		flagSet.Nulls = options.True()
	}
	if *raw {
		flagSet.Raw = options.True()
	}
	if *schema {
		flagSet.Schema = options.True()
	}

	return &Config{
		Query:      queryText,
		Initialize: *initialize,
		YAMLInput:  *yamlInput,
		Version:    *version,
		Flags:      flagSet,
	}, nil
}

// Usage returns command usage text.
func Usage() string {
	return `jello - query JSON at the command line with a small expression language

Usage:
  cat data.json | jello [OPTIONS] [QUERY]

The input document is bound to the reserved name "_". The query runs zero
or more setup statements and ends in the expression whose value is printed.

Options:
  -c   Compact JSON output
  -i   Initialize environment with ~/.jelloconf.jello
  -l   Output one value per line
  -m   Monochrome output
  -n   Print selected null values
  -r   Raw string output (no quotes)
  -s   Print the JSON schema in grep-able format
  -y   Read stdin as YAML instead of JSON
  -v   Print version information
  -h   Print help

Examples:
  jq-style navigation:    jello '_.foo.bar'
  list projection:        jello '[item.name for item in _.items]'
  setup then expression:  jello 'total = sum([i.n for i in _]); total'`
}
