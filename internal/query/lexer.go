package query

import (
	"strings"
	"unicode"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenNewline
	tokenIdentifier
	tokenNumber
	tokenString
	tokenTrue
	tokenFalse
	tokenNull
	tokenAssign
	tokenEqual
	tokenNotEqual
	tokenLess
	tokenLessEqual
	tokenGreater
	tokenGreaterEqual
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenAnd
	tokenOr
	tokenNot
	tokenIn
	tokenFor
	tokenIf
	tokenElse
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenLBrace
	tokenRBrace
	tokenComma
	tokenColon
	tokenSemicolon
	tokenDot
)

type token struct {
	typ     tokenType
	literal string
	pos     int
}

var keywords = map[string]tokenType{
	"true":  tokenTrue,
	"false": tokenFalse,
	"null":  tokenNull,
	"and":   tokenAnd,
	"or":    tokenOr,
	"not":   tokenNot,
	"in":    tokenIn,
	"for":   tokenFor,
	"if":    tokenIf,
	"else":  tokenElse,
}

// lex tokenizes a script. Newlines separate statements except inside
// parentheses and square brackets, where they are insignificant.
func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2)
	pos := 0
	groupDepth := 0

	for pos < len(input) {
		ch := input[pos]

		if ch == '\n' {
			if groupDepth == 0 {
				tokens = append(tokens, token{typ: tokenNewline, pos: pos})
			}
			pos++
			continue
		}

		if unicode.IsSpace(rune(ch)) {
			pos++
			continue
		}

		if ch == '#' {
			for pos < len(input) && input[pos] != '\n' {
				pos++
			}
			continue
		}

		if isIdentifierStart(rune(ch)) {
			start := pos
			pos++
			for pos < len(input) && isIdentifierPart(rune(input[pos])) {
				pos++
			}
			literal := input[start:pos]
			if typ, ok := keywords[literal]; ok {
				tokens = append(tokens, token{typ: typ, pos: start})
				continue
			}
			tokens = append(tokens, token{typ: tokenIdentifier, literal: literal, pos: start})
			continue
		}

		if ch >= '0' && ch <= '9' {
			numberToken, nextPos, err := lexNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, numberToken)
			pos = nextPos
			continue
		}

		if ch == '\'' || ch == '"' {
			literal, nextPos, err := lexString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: literal, pos: pos})
			pos = nextPos
			continue
		}

		switch ch {
		case '=':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{typ: tokenEqual, pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, token{typ: tokenAssign, pos: pos})
			pos++
		case '!':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{typ: tokenNotEqual, pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, token{typ: tokenNot, pos: pos})
			pos++
		case '<':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{typ: tokenLessEqual, pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, token{typ: tokenLess, pos: pos})
			pos++
		case '>':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{typ: tokenGreaterEqual, pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, token{typ: tokenGreater, pos: pos})
			pos++
		case '&':
			if pos+1 < len(input) && input[pos+1] == '&' {
				tokens = append(tokens, token{typ: tokenAnd, pos: pos})
				pos += 2
				continue
			}
			return nil, syntaxError("unexpected '&' at position %d", pos)
		case '|':
			if pos+1 < len(input) && input[pos+1] == '|' {
				tokens = append(tokens, token{typ: tokenOr, pos: pos})
				pos += 2
				continue
			}
			return nil, syntaxError("unexpected '|' at position %d", pos)
		case '+':
			tokens = append(tokens, token{typ: tokenPlus, pos: pos})
			pos++
		case '-':
			tokens = append(tokens, token{typ: tokenMinus, pos: pos})
			pos++
		case '*':
			tokens = append(tokens, token{typ: tokenStar, pos: pos})
			pos++
		case '/':
			tokens = append(tokens, token{typ: tokenSlash, pos: pos})
			pos++
		case '%':
			tokens = append(tokens, token{typ: tokenPercent, pos: pos})
			pos++
		case '(':
			groupDepth++
			tokens = append(tokens, token{typ: tokenLParen, pos: pos})
			pos++
		case ')':
			groupDepth--
			tokens = append(tokens, token{typ: tokenRParen, pos: pos})
			pos++
		case '[':
			groupDepth++
			tokens = append(tokens, token{typ: tokenLBracket, pos: pos})
			pos++
		case ']':
			groupDepth--
			tokens = append(tokens, token{typ: tokenRBracket, pos: pos})
			pos++
		case '{':
			tokens = append(tokens, token{typ: tokenLBrace, pos: pos})
			pos++
		case '}':
			tokens = append(tokens, token{typ: tokenRBrace, pos: pos})
			pos++
		case ',':
			tokens = append(tokens, token{typ: tokenComma, pos: pos})
			pos++
		case ':':
			tokens = append(tokens, token{typ: tokenColon, pos: pos})
			pos++
		case ';':
			tokens = append(tokens, token{typ: tokenSemicolon, pos: pos})
			pos++
		case '.':
			tokens = append(tokens, token{typ: tokenDot, pos: pos})
			pos++
		default:
			return nil, syntaxError("unexpected character %q at position %d", ch, pos)
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lexNumber(input string, start int) (token, int, error) {
	pos := start
	for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
		pos++
	}

	if pos < len(input) && input[pos] == '.' {
		pos++
		fracStart := pos
		for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
			pos++
		}
		if pos == fracStart {
			return token{}, 0, syntaxError("invalid decimal number at position %d", start)
		}
	}

	if pos < len(input) && (input[pos] == 'e' || input[pos] == 'E') {
		pos++
		if pos < len(input) && (input[pos] == '+' || input[pos] == '-') {
			pos++
		}
		expStart := pos
		for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
			pos++
		}
		if pos == expStart {
			return token{}, 0, syntaxError("invalid exponent at position %d", start)
		}
	}

	return token{typ: tokenNumber, literal: input[start:pos], pos: start}, pos, nil
}

func lexString(input string, start int) (string, int, error) {
	quote := input[start]
	var b strings.Builder

	for pos := start + 1; pos < len(input); pos++ {
		ch := input[pos]
		if ch == quote {
			return b.String(), pos + 1, nil
		}

		if ch == '\\' {
			pos++
			if pos >= len(input) {
				return "", 0, syntaxError("unterminated escape sequence at position %d", start)
			}
			escaped := input[pos]
			switch escaped {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '\'', '"':
				b.WriteByte(escaped)
			default:
				b.WriteByte(escaped)
			}
			continue
		}

		if ch == '\n' || ch == '\r' {
			return "", 0, syntaxError("unterminated string at position %d", start)
		}

		b.WriteByte(ch)
	}

	return "", 0, syntaxError("unterminated string at position %d", start)
}
