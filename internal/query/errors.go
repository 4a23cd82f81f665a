package query

import (
	"errors"
	"fmt"
)

// ErrSyntax indicates a script that does not parse.
var ErrSyntax = errors.New("syntax error")

// ErrShape indicates a script whose final top-level node is not an expression.
var ErrShape = errors.New("script must end in an expression")

// ErrRuntime indicates a failure while executing statements or evaluating
// the final expression.
var ErrRuntime = errors.New("evaluation error")

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

func runtimeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRuntime, fmt.Sprintf(format, args...))
}
