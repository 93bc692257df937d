package formula

import (
	"math"
	"sync"
)

// Named is a named sub-formula: a Constant or an Expression of a SwissKnife.
type Named struct {
	Name string
	Text string
}

// Definition is the source of a formula together with the named constants
// and expressions it may reference.
type Definition struct {
	Formula     string
	Constants   []Named
	Expressions []Named
}

// Vars binds variable names to values. The second return value reports
// whether the name is bound at all; an unbound name falls through to
// constants, expressions and the built-in constants.
type Vars interface {
	Int(name string) (int64, bool, error)
	Float(name string) (float64, bool, error)
}

// IntMap is a Vars backed by integer values.
type IntMap map[string]int64

func (m IntMap) Int(name string) (int64, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

func (m IntMap) Float(name string) (float64, bool, error) {
	v, ok := m[name]
	return float64(v), ok, nil
}

// FloatMap is a Vars backed by floating point values. Int truncates.
type FloatMap map[string]float64

func (m FloatMap) Int(name string) (int64, bool, error) {
	v, ok := m[name]
	return int64(v), ok, nil
}

func (m FloatMap) Float(name string) (float64, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

// Program is a compiled formula. It is safe for concurrent use.
type Program struct {
	def Definition

	once sync.Once
	root parsed
	subs map[string]parsed
}

type parsed struct {
	text string
	expr expr
	err  error
}

// parseCache holds the trees of every formula text seen so far. Descriptions
// reuse the same address and conversion formulas across many nodes.
var parseCache sync.Map // string -> parsed

func parseCached(text string) parsed {
	if p, ok := parseCache.Load(text); ok {
		return p.(parsed)
	}
	e, err := parse(text)
	p := parsed{text: text, expr: e, err: err}
	parseCache.Store(text, p)
	return p
}

// Compile prepares def for evaluation. Parsing happens on first evaluation
// and errors are reported by the Eval methods.
func Compile(def Definition) *Program {
	return &Program{def: def}
}

// Text returns the main formula.
func (p *Program) Text() string { return p.def.Formula }

func (p *Program) init() {
	p.once.Do(func() {
		p.root = parseCached(p.def.Formula)
		p.subs = make(map[string]parsed, len(p.def.Constants)+len(p.def.Expressions))
		for _, c := range p.def.Constants {
			p.subs[c.Name] = parseCached(c.Text)
		}
		for _, x := range p.def.Expressions {
			p.subs[x.Name] = parseCached(x.Text)
		}
	})
}

// Check parses the formula and every sub-formula and reports the first syntax
// error without evaluating anything.
func (p *Program) Check() error {
	p.init()
	if p.root.err != nil {
		return &Error{Formula: p.root.text, Err: p.root.err}
	}
	for _, n := range append(append([]Named(nil), p.def.Constants...), p.def.Expressions...) {
		if s := p.subs[n.Name]; s.err != nil {
			return &Error{Formula: s.text, Err: s.err}
		}
	}
	return nil
}

// EvalInt evaluates the formula in 64-bit integer arithmetic.
func (p *Program) EvalInt(vars Vars) (int64, error) {
	p.init()
	if p.root.err != nil {
		return 0, &Error{Formula: p.root.text, Err: p.root.err}
	}
	ev := &evaluator{prog: p, vars: vars}
	v, err := ev.intExpr(p.root.expr)
	if err != nil {
		return 0, ev.wrap(err)
	}
	return v, nil
}

// EvalFloat evaluates the formula in float64 arithmetic.
func (p *Program) EvalFloat(vars Vars) (float64, error) {
	p.init()
	if p.root.err != nil {
		return 0, &Error{Formula: p.root.text, Err: p.root.err}
	}
	ev := &evaluator{prog: p, vars: vars}
	v, err := ev.floatExpr(p.root.expr)
	if err != nil {
		return 0, ev.wrap(err)
	}
	if math.IsNaN(v) {
		return 0, &Error{Formula: p.root.text, Err: ErrNotANumber}
	}
	return v, nil
}
