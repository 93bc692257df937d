package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// expr is a node of the parsed formula tree.
type expr interface{ pos() int }

type numberExpr struct {
	at      int
	text    string
	isFloat bool
	i       int64
	f       float64
}

type identExpr struct {
	at   int
	name string
}

type unaryExpr struct {
	at int
	op tokenKind
	x  expr
}

type binaryExpr struct {
	at   int
	op   tokenKind
	x, y expr
}

type condExpr struct {
	at         int
	cond, a, b expr
}

type callExpr struct {
	at   int
	name string
	args []expr
}

func (e *numberExpr) pos() int { return e.at }
func (e *identExpr) pos() int  { return e.at }
func (e *unaryExpr) pos() int  { return e.at }
func (e *binaryExpr) pos() int { return e.at }
func (e *condExpr) pos() int   { return e.at }
func (e *callExpr) pos() int   { return e.at }

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = [][]tokenKind{
	{tokOr},
	{tokAnd},
	{tokBitOr},
	{tokBitXor},
	{tokBitAnd},
	{tokEq, tokNe},
	{tokLt, tokGt, tokLe, tokGe},
	{tokShl, tokShr},
	{tokPlus, tokMinus},
	{tokStar, tokSlash, tokPercent},
}

type parser struct {
	toks []token
	i    int
}

// parse builds the expression tree of src.
func parse(src string) (expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmpty
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return e, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, fmt.Errorf("%w at offset %d: expected %s, found %s", ErrSyntax, t.pos, kind, describe(t))
	}
	return t, nil
}

func (p *parser) unexpected(t token) error {
	return fmt.Errorf("%w at offset %d: unexpected %s", ErrSyntax, t.pos, describe(t))
}

func describe(t token) string {
	switch t.kind {
	case tokNumber, tokIdent:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	case tokEOF:
		return t.kind.String()
	default:
		return fmt.Sprintf("%q", t.kind.String())
	}
}

func (p *parser) parseConditional() (expr, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	q := p.next()
	a, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	b, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return &condExpr{at: q.pos, cond: cond, a: a, b: b}, nil
}

func (p *parser) parseBinary(level int) (expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	x, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !containsKind(binaryLevels[level], t.kind) {
			return x, nil
		}
		p.next()
		y, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		x = &binaryExpr{at: t.pos, op: t.kind, x: x, y: y}
	}
}

func (p *parser) parseUnary() (expr, error) {
	t := p.peek()
	switch t.kind {
	case tokMinus, tokPlus, tokTilde:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{at: t.pos, op: t.kind, x: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	t := p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryExpr{at: t.pos, op: tokPow, x: base, y: exp}, nil
}

func (p *parser) parsePrimary() (expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return parseNumber(t)
	case tokIdent:
		if p.peek().kind != tokLParen {
			return &identExpr{at: t.pos, name: t.text}, nil
		}
		p.next()
		var args []expr
		if p.peek().kind != tokRParen {
			for {
				a, err := p.parseConditional()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.peek().kind != tokComma {
					break
				}
				p.next()
			}
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return &callExpr{at: t.pos, name: strings.ToUpper(t.text), args: args}, nil
	case tokLParen:
		e, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.unexpected(t)
}

func parseNumber(t token) (expr, error) {
	n := &numberExpr{at: t.pos, text: t.text}
	if len(t.text) > 2 && (t.text[1] == 'x' || t.text[1] == 'X') {
		u, err := strconv.ParseUint(t.text[2:], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("%w at offset %d: %v", ErrSyntax, t.pos, err)
		}
		n.i = int64(u)
		n.f = float64(u)
		return n, nil
	}
	if strings.ContainsAny(t.text, ".eE") {
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w at offset %d: %v", ErrSyntax, t.pos, err)
		}
		n.isFloat = true
		n.f = f
		return n, nil
	}
	i, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w at offset %d: %v", ErrSyntax, t.pos, err)
	}
	n.i = i
	n.f = float64(i)
	return n, nil
}

func containsKind(kinds []tokenKind, k tokenKind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}
