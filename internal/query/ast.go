package query

type expr interface{}

type literalExpr struct {
	value any
}

type identifierExpr struct {
	name string
}

type listExpr struct {
	elements []expr
}

type dictExpr struct {
	keys   []expr
	values []expr
}

type attrExpr struct {
	target expr
	name   string
}

type indexExpr struct {
	target expr
	index  expr
}

// sliceExpr bounds may be nil for open ends.
type sliceExpr struct {
	target expr
	low    expr
	high   expr
}

type callExpr struct {
	target expr
	args   []expr
}

type unaryExpr struct {
	op    tokenType
	right expr
}

type binaryExpr struct {
	op    tokenType
	left  expr
	right expr
}

type comprehensionExpr struct {
	body     expr
	name     string
	iterable expr
	cond     expr
}

type statement interface{}

type exprStatement struct {
	value expr
}

type assignStatement struct {
	target expr
	value  expr
}

type forStatement struct {
	name     string
	iterable expr
	body     []statement
}

type ifStatement struct {
	cond expr
	then []statement
	els  []statement
}

// Program is a parsed script: a sequence of top-level statements.
type Program struct {
	statements []statement
}

// Expr is an opaque handle to a parsed expression, produced by Split.
type Expr struct {
	node expr
}

// Assignment is a top-level assignment to a plain identifier, surfaced for
// prelude option extraction.
type Assignment struct {
	Name  string
	value expr
}

// Assignments returns the program's top-level identifier assignments in
// source order.
func (p *Program) Assignments() []Assignment {
	var out []Assignment
	for _, stmt := range p.statements {
		assign, ok := stmt.(assignStatement)
		if !ok {
			continue
		}
		ident, ok := assign.target.(identifierExpr)
		if !ok {
			continue
		}
		out = append(out, Assignment{Name: ident.name, value: assign.value})
	}
	return out
}

// Eval evaluates the assignment's right-hand side in an isolated scope with
// no access to the input document.
func (a Assignment) Eval() (any, error) {
	interp := &Interpreter{scope: map[string]any{}}
	return interp.evalExpr(a.value)
}

// Split separates the script into setup statements and the trailing
// expression whose value becomes the query result. A script whose final
// top-level node is not an expression is a shape error.
func (p *Program) Split() (*Program, Expr, error) {
	if len(p.statements) == 0 {
		return nil, Expr{}, ErrShape
	}

	last, ok := p.statements[len(p.statements)-1].(exprStatement)
	if !ok {
		return nil, Expr{}, ErrShape
	}

	setup := &Program{statements: p.statements[:len(p.statements)-1]}
	return setup, Expr{node: last.value}, nil
}
