package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jello/internal/config"
	"github.com/jacoelho/jello/internal/formatter"
	"github.com/jacoelho/jello/internal/jello"
	"github.com/jacoelho/jello/internal/loader"
	"github.com/jacoelho/jello/internal/options"
	"github.com/jacoelho/jello/internal/prelude"
	"github.com/jacoelho/jello/internal/schema"
	"github.com/jacoelho/jello/internal/theme"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			fmt.Fprintln(stdout, config.Usage())
			return 0
		}
		fmt.Fprintf(stderr, "jello: %v\n\n%s\n", err, config.Usage())
		return 1
	}

	if cfg.Version {
		fmt.Fprintf(stdout, "jello %s\n", version)
		return 0
	}

	input, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "jello: read input: %v\n", err)
		return 1
	}

	var data any
	if cfg.YAMLInput {
		data, err = loader.LoadYAML(input)
	} else {
		data, err = loader.Load(input)
	}
	if err != nil {
		fmt.Fprintf(stderr, "jello: %v\n", err)
		return 1
	}

	var preludeText, preludePath string
	if cfg.Initialize {
		preludePath, err = prelude.Locate()
		if err != nil {
			fmt.Fprintf(stderr, "jello: %v\n", err)
			return 1
		}
		preludeText, err = prelude.Load(preludePath)
		if err != nil {
			fmt.Fprintf(stderr, "jello: %v\n", err)
			return 1
		}
	}

	overrides, warnings, err := prelude.Parse(preludeText, preludePath)
	if err != nil {
		fmt.Fprintf(stderr, "jello: %v\n", err)
		return 1
	}
	for _, warning := range warnings {
		fmt.Fprintf(stderr, "jello:  Warning: %s\n", warning.Message)
	}

	opts := options.Set{}.Merge(overrides).Merge(cfg.Flags).Effective()

	result, err := jello.Query(data, preludeText, cfg.Query)
	if err != nil {
		fmt.Fprintf(stderr, "jello: %v\n", err)
		return 1
	}

	envColors, envWarn := theme.FromEnv(os.Getenv(theme.EnvVar))
	if envWarn {
		fmt.Fprintf(stderr, "jello:  Warning: could not parse %s environment variable\n", theme.EnvVar)
	}
	th := theme.New(opts, envColors)

	if opts.Schema {
		if err := schema.Fprint(stdout, result, th); err != nil {
			fmt.Fprintf(stderr, "jello: %v\n", err)
			return 1
		}
		return 0
	}

	output, err := formatter.New(opts, th).Format(result)
	if err != nil {
		fmt.Fprintf(stderr, "jello: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, output)

	return 0
}
