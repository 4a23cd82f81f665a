package query

import "strconv"

type parserState struct {
	tokens []token
	pos    int
}

// Parse parses a full script into a statement sequence.
func Parse(input string) (*Program, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	state := parserState{tokens: tokens}
	statements, err := state.parseStatements(tokenEOF)
	if err != nil {
		return nil, err
	}

	if current := state.current(); current.typ != tokenEOF {
		return nil, syntaxError("unexpected token at position %d", current.pos)
	}

	return &Program{statements: statements}, nil
}

// parseStatements parses statements until the terminator token, which is
// left unconsumed.
func (p *parserState) parseStatements(terminator tokenType) ([]statement, error) {
	var statements []statement

	for {
		p.skipSeparators()
		if p.current().typ == terminator || p.current().typ == tokenEOF {
			return statements, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)

		switch p.current().typ {
		case tokenNewline, tokenSemicolon:
			p.advance()
		case terminator, tokenEOF:
		default:
			return nil, syntaxError("unexpected token at position %d", p.current().pos)
		}
	}
}

func (p *parserState) parseStatement() (statement, error) {
	switch p.current().typ {
	case tokenFor:
		return p.parseFor()
	case tokenIf:
		return p.parseIf()
	default:
		return p.parseSimpleStatement()
	}
}

// parseSimpleStatement parses either an assignment or a bare expression.
func (p *parserState) parseSimpleStatement() (statement, error) {
	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current().typ != tokenAssign {
		return exprStatement{value: target}, nil
	}

	assignPos := p.current().pos
	p.advance()

	switch target.(type) {
	case identifierExpr, attrExpr, indexExpr:
	default:
		return nil, syntaxError("invalid assignment target at position %d", assignPos)
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return assignStatement{target: target, value: value}, nil
}

func (p *parserState) parseFor() (statement, error) {
	p.advance()

	name := p.current()
	if name.typ != tokenIdentifier {
		return nil, syntaxError("expected loop variable at position %d", name.pos)
	}
	p.advance()

	if p.current().typ != tokenIn {
		return nil, syntaxError("expected 'in' at position %d", p.current().pos)
	}
	p.advance()

	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return forStatement{name: name.literal, iterable: iterable, body: body}, nil
}

func (p *parserState) parseIf() (statement, error) {
	p.advance()

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	// An else clause may sit on the next line; keep the separator when
	// there is no else so it still terminates this statement.
	mark := p.pos
	p.skipSeparators()
	if p.current().typ != tokenElse {
		p.pos = mark
		return ifStatement{cond: cond, then: then}, nil
	}
	p.advance()

	if p.current().typ == tokenIf {
		chained, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		return ifStatement{cond: cond, then: then, els: []statement{chained}}, nil
	}

	els, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return ifStatement{cond: cond, then: then, els: els}, nil
}

func (p *parserState) parseBlock() ([]statement, error) {
	if p.current().typ != tokenLBrace {
		return nil, syntaxError("expected '{' at position %d", p.current().pos)
	}
	p.advance()

	statements, err := p.parseStatements(tokenRBrace)
	if err != nil {
		return nil, err
	}

	if p.current().typ != tokenRBrace {
		return nil, syntaxError("missing closing '}' at position %d", p.current().pos)
	}
	p.advance()

	return statements, nil
}

func (p *parserState) parseExpression() (expr, error) {
	return p.parseOr()
}

func (p *parserState) parseOr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenOr {
		op := p.advance().typ
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}

	return left, nil
}

func (p *parserState) parseAnd() (expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenAnd {
		op := p.advance().typ
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}

	return left, nil
}

func (p *parserState) parseNot() (expr, error) {
	if p.current().typ == tokenNot {
		op := p.advance().typ
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return unaryExpr{op: op, right: right}, nil
	}

	return p.parseComparison()
}

func (p *parserState) parseComparison() (expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		typ := p.current().typ
		switch typ {
		case tokenEqual, tokenNotEqual, tokenLess, tokenLessEqual, tokenGreater, tokenGreaterEqual, tokenIn:
		default:
			return left, nil
		}

		op := p.advance().typ
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
}

func (p *parserState) parseAdditive() (expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		typ := p.current().typ
		if typ != tokenPlus && typ != tokenMinus {
			return left, nil
		}

		op := p.advance().typ
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
}

func (p *parserState) parseMultiplicative() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		typ := p.current().typ
		if typ != tokenStar && typ != tokenSlash && typ != tokenPercent {
			return left, nil
		}

		op := p.advance().typ
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
}

func (p *parserState) parseUnary() (expr, error) {
	if p.current().typ == tokenMinus {
		op := p.advance().typ
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryExpr{op: op, right: right}, nil
	}

	return p.parsePostfix()
}

func (p *parserState) parsePostfix() (expr, error) {
	target, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current().typ {
		case tokenDot:
			p.advance()
			name := p.current()
			if name.typ != tokenIdentifier {
				return nil, syntaxError("expected attribute name at position %d", name.pos)
			}
			p.advance()
			target = attrExpr{target: target, name: name.literal}
		case tokenLBracket:
			p.advance()
			target, err = p.parseIndexOrSlice(target)
			if err != nil {
				return nil, err
			}
		case tokenLParen:
			p.advance()
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			target = callExpr{target: target, args: args}
		default:
			return target, nil
		}
	}
}

// parseIndexOrSlice parses the bracket suffix after '[' has been consumed.
func (p *parserState) parseIndexOrSlice(target expr) (expr, error) {
	var low expr
	var err error

	if p.current().typ != tokenColon {
		low, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if p.current().typ == tokenColon {
		p.advance()
		var high expr
		if p.current().typ != tokenRBracket {
			high, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if p.current().typ != tokenRBracket {
			return nil, syntaxError("missing closing ']' at position %d", p.current().pos)
		}
		p.advance()
		return sliceExpr{target: target, low: low, high: high}, nil
	}

	if low == nil {
		return nil, syntaxError("empty index at position %d", p.current().pos)
	}
	if p.current().typ != tokenRBracket {
		return nil, syntaxError("missing closing ']' at position %d", p.current().pos)
	}
	p.advance()

	return indexExpr{target: target, index: low}, nil
}

func (p *parserState) parseArguments() ([]expr, error) {
	var args []expr

	if p.current().typ == tokenRParen {
		p.advance()
		return args, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.current().typ {
		case tokenComma:
			p.advance()
		case tokenRParen:
			p.advance()
			return args, nil
		default:
			return nil, syntaxError("expected ',' or ')' at position %d", p.current().pos)
		}
	}
}

func (p *parserState) parsePrimary() (expr, error) {
	tok := p.current()
	switch tok.typ {
	case tokenIdentifier:
		p.advance()
		return identifierExpr{name: tok.literal}, nil
	case tokenNumber:
		p.advance()
		return parseNumberLiteral(tok)
	case tokenString:
		p.advance()
		return literalExpr{value: tok.literal}, nil
	case tokenTrue:
		p.advance()
		return literalExpr{value: true}, nil
	case tokenFalse:
		p.advance()
		return literalExpr{value: false}, nil
	case tokenNull:
		p.advance()
		return literalExpr{value: nil}, nil
	case tokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current().typ != tokenRParen {
			return nil, syntaxError("missing closing ')' at position %d", p.current().pos)
		}
		p.advance()
		return inner, nil
	case tokenLBracket:
		p.advance()
		return p.parseListOrComprehension()
	case tokenLBrace:
		p.advance()
		return p.parseDict()
	default:
		return nil, syntaxError("unexpected token at position %d", tok.pos)
	}
}

func parseNumberLiteral(tok token) (expr, error) {
	if !containsAny(tok.literal, ".eE") {
		value, err := strconv.ParseInt(tok.literal, 10, 64)
		if err == nil {
			return literalExpr{value: value}, nil
		}
	}

	value, err := strconv.ParseFloat(tok.literal, 64)
	if err != nil {
		return nil, syntaxError("invalid number literal %q at position %d", tok.literal, tok.pos)
	}
	return literalExpr{value: value}, nil
}

func containsAny(s, chars string) bool {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(chars); j++ {
			if s[i] == chars[j] {
				return true
			}
		}
	}
	return false
}

// parseListOrComprehension parses the remainder of a '[' expression: either
// a list literal or a comprehension.
func (p *parserState) parseListOrComprehension() (expr, error) {
	if p.current().typ == tokenRBracket {
		p.advance()
		return listExpr{}, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current().typ == tokenFor {
		p.advance()

		name := p.current()
		if name.typ != tokenIdentifier {
			return nil, syntaxError("expected comprehension variable at position %d", name.pos)
		}
		p.advance()

		if p.current().typ != tokenIn {
			return nil, syntaxError("expected 'in' at position %d", p.current().pos)
		}
		p.advance()

		iterable, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		var cond expr
		if p.current().typ == tokenIf {
			p.advance()
			cond, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}

		if p.current().typ != tokenRBracket {
			return nil, syntaxError("missing closing ']' at position %d", p.current().pos)
		}
		p.advance()

		return comprehensionExpr{body: first, name: name.literal, iterable: iterable, cond: cond}, nil
	}

	elements := []expr{first}
	for {
		switch p.current().typ {
		case tokenComma:
			p.advance()
			if p.current().typ == tokenRBracket {
				p.advance()
				return listExpr{elements: elements}, nil
			}
			element, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
		case tokenRBracket:
			p.advance()
			return listExpr{elements: elements}, nil
		default:
			return nil, syntaxError("expected ',' or ']' at position %d", p.current().pos)
		}
	}
}

// parseDict parses the remainder of a '{' dict literal. Newlines between
// entries are tolerated because '{' does not suppress newline tokens.
func (p *parserState) parseDict() (expr, error) {
	var keys []expr
	var values []expr

	p.skipNewlines()
	if p.current().typ == tokenRBrace {
		p.advance()
		return dictExpr{}, nil
	}

	for {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if p.current().typ != tokenColon {
			return nil, syntaxError("expected ':' at position %d", p.current().pos)
		}
		p.advance()

		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		keys = append(keys, key)
		values = append(values, value)

		p.skipNewlines()
		switch p.current().typ {
		case tokenComma:
			p.advance()
			p.skipNewlines()
			if p.current().typ == tokenRBrace {
				p.advance()
				return dictExpr{keys: keys, values: values}, nil
			}
		case tokenRBrace:
			p.advance()
			return dictExpr{keys: keys, values: values}, nil
		default:
			return nil, syntaxError("expected ',' or '}' at position %d", p.current().pos)
		}
	}
}

func (p *parserState) skipNewlines() {
	for p.current().typ == tokenNewline {
		p.advance()
	}
}

func (p *parserState) skipSeparators() {
	for {
		typ := p.current().typ
		if typ != tokenNewline && typ != tokenSemicolon {
			return
		}
		p.advance()
	}
}

func (p *parserState) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF, pos: len(p.tokens)}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}
