// Package jello wires the query evaluation pipeline: wrap the input, split
// the script, execute setup statements, evaluate the final expression, and
// normalize the result.
package jello

import (
	"github.com/jacoelho/jello/internal/dotmap"
	"github.com/jacoelho/jello/internal/normalize"
	"github.com/jacoelho/jello/internal/query"
)

// Query runs a script against a decoded input document and returns a plain
// JSON value. preludeText, when non-empty, is prepended to the user script
// so its variable bindings are in scope.
func Query(data any, preludeText, src string) (any, error) {
	script := src
	if preludeText != "" {
		script = preludeText + "\n" + src
	}

	program, err := query.Parse(script)
	if err != nil {
		return nil, err
	}

	setup, final, err := program.Split()
	if err != nil {
		return nil, err
	}

	interp := query.NewInterpreter(dotmap.Wrap(data), data)
	if err := interp.Run(setup); err != nil {
		return nil, err
	}

	raw, err := interp.Eval(final)
	if err != nil {
		return nil, err
	}

	return normalize.Normalize(raw)
}
