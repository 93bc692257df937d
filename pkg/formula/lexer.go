package formula

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokLParen
	tokRParen
	tokComma
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokPow
	tokBitAnd
	tokBitOr
	tokBitXor
	tokTilde
	tokShl
	tokShr
	tokEq
	tokNe
	tokLt
	tokGt
	tokLe
	tokGe
	tokAnd
	tokOr
	tokQuestion
	tokColon
)

var tokenNames = map[tokenKind]string{
	tokEOF: "end of formula", tokNumber: "number", tokIdent: "identifier",
	tokLParen: "(", tokRParen: ")", tokComma: ",",
	tokPlus: "+", tokMinus: "-", tokStar: "*", tokSlash: "/", tokPercent: "%", tokPow: "**",
	tokBitAnd: "&", tokBitOr: "|", tokBitXor: "^", tokTilde: "~", tokShl: "<<", tokShr: ">>",
	tokEq: "=", tokNe: "<>", tokLt: "<", tokGt: ">", tokLe: "<=", tokGe: ">=",
	tokAnd: "&&", tokOr: "||", tokQuestion: "?", tokColon: ":",
}

func (k tokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool   { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// lex splits src into tokens.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
			continue
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			end, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end
			continue
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
				// NAME.Min, NAME.Entry.On
				if i+1 < len(src) && src[i] == '.' && isIdentStart(src[i+1]) {
					i++
				}
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
			continue
		}

		kind, width, err := scanOperator(src, i)
		if err != nil {
			return nil, err
		}
		toks = append(toks, token{kind: kind, text: src[i : i+width], pos: i})
		i += width
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func scanNumber(src string, i int) (int, error) {
	start := i
	if src[i] == '0' && i+1 < len(src) && (src[i+1] == 'x' || src[i+1] == 'X') {
		i += 2
		digits := i
		for i < len(src) && isHexDigit(src[i]) {
			i++
		}
		if i == digits {
			return 0, fmt.Errorf("%w at offset %d: hexadecimal literal without digits", ErrSyntax, start)
		}
	} else {
		for i < len(src) && isDigit(src[i]) {
			i++
		}
		if i < len(src) && src[i] == '.' {
			i++
			for i < len(src) && isDigit(src[i]) {
				i++
			}
		}
		if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
			j := i + 1
			if j < len(src) && (src[j] == '+' || src[j] == '-') {
				j++
			}
			if j < len(src) && isDigit(src[j]) {
				for j < len(src) && isDigit(src[j]) {
					j++
				}
				i = j
			}
		}
	}
	if i < len(src) && (isIdentPart(src[i]) || src[i] == '.') {
		return 0, fmt.Errorf("%w at offset %d: malformed number %q", ErrSyntax, start, src[start:i+1])
	}
	return i, nil
}

func scanOperator(src string, i int) (tokenKind, int, error) {
	next := byte(0)
	if i+1 < len(src) {
		next = src[i+1]
	}
	switch src[i] {
	case '(':
		return tokLParen, 1, nil
	case ')':
		return tokRParen, 1, nil
	case ',':
		return tokComma, 1, nil
	case '+':
		return tokPlus, 1, nil
	case '-':
		return tokMinus, 1, nil
	case '*':
		if next == '*' {
			return tokPow, 2, nil
		}
		return tokStar, 1, nil
	case '/':
		return tokSlash, 1, nil
	case '%':
		return tokPercent, 1, nil
	case '&':
		if next == '&' {
			return tokAnd, 2, nil
		}
		return tokBitAnd, 1, nil
	case '|':
		if next == '|' {
			return tokOr, 2, nil
		}
		return tokBitOr, 1, nil
	case '^':
		return tokBitXor, 1, nil
	case '~':
		return tokTilde, 1, nil
	case '?':
		return tokQuestion, 1, nil
	case ':':
		return tokColon, 1, nil
	case '=':
		if next == '=' {
			return 0, 0, fmt.Errorf("%w at offset %d: unsupported operator \"==\" (use \"=\")", ErrSyntax, i)
		}
		return tokEq, 1, nil
	case '<':
		switch next {
		case '<':
			return tokShl, 2, nil
		case '=':
			return tokLe, 2, nil
		case '>':
			return tokNe, 2, nil
		}
		return tokLt, 1, nil
	case '>':
		switch next {
		case '>':
			return tokShr, 2, nil
		case '=':
			return tokGe, 2, nil
		}
		return tokGt, 1, nil
	case '!':
		return 0, 0, fmt.Errorf("%w at offset %d: unsupported operator %q", ErrSyntax, i, "!")
	}
	return 0, 0, fmt.Errorf("%w at offset %d: unexpected character %q", ErrSyntax, i, src[i])
}
