package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type evaluator struct {
	prog   *Program
	vars   Vars
	active map[string]bool
}

func (ev *evaluator) wrap(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Formula: ev.prog.def.Formula, Err: err}
}

// sub returns the named constant or expression, guarding against an
// expression that refers to itself.
func (ev *evaluator) sub(name string) (parsed, bool, error) {
	s, ok := ev.prog.subs[name]
	if !ok {
		return parsed{}, false, nil
	}
	if s.err != nil {
		return s, true, &Error{Formula: s.text, Err: s.err}
	}
	if ev.active[name] {
		return s, true, fmt.Errorf("%w: %s", ErrRecursion, name)
	}
	if ev.active == nil {
		ev.active = make(map[string]bool)
	}
	return s, true, nil
}

func builtinConstant(name string) (float64, bool) {
	switch strings.ToUpper(name) {
	case "PI":
		return math.Pi, true
	case "E":
		return math.E, true
	}
	return 0, false
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (ev *evaluator) intExpr(x expr) (int64, error) {
	switch x := x.(type) {
	case *numberExpr:
		if x.isFloat {
			return 0, fmt.Errorf("%w: literal %s", ErrIntegerDomain, x.text)
		}
		return x.i, nil

	case *identExpr:
		v, ok, err := ev.vars.Int(x.name)
		if err != nil {
			return 0, err
		}
		if ok {
			return v, nil
		}
		s, ok, err := ev.sub(x.name)
		if err != nil {
			return 0, err
		}
		if ok {
			ev.active[x.name] = true
			defer delete(ev.active, x.name)
			return ev.intExpr(s.expr)
		}
		if _, ok := builtinConstant(x.name); ok {
			return 0, fmt.Errorf("%w: constant %s", ErrIntegerDomain, x.name)
		}
		return 0, fmt.Errorf("%w: %s", ErrUnknownIdentifier, x.name)

	case *unaryExpr:
		v, err := ev.intExpr(x.x)
		if err != nil {
			return 0, err
		}
		switch x.op {
		case tokMinus:
			return -v, nil
		case tokTilde:
			return ^v, nil
		}
		return v, nil

	case *condExpr:
		c, err := ev.intExpr(x.cond)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return ev.intExpr(x.a)
		}
		return ev.intExpr(x.b)

	case *callExpr:
		fn, args, err := ev.callArgs(x)
		if err != nil {
			return 0, err
		}
		if fn.intFn == nil {
			return 0, fmt.Errorf("%w: function %s", ErrIntegerDomain, x.name)
		}
		vals := make([]int64, len(args))
		for i, a := range args {
			if vals[i], err = ev.intExpr(a); err != nil {
				return 0, err
			}
		}
		return fn.intFn(vals), nil

	case *binaryExpr:
		return ev.intBinary(x)
	}
	return 0, fmt.Errorf("%w: unexpected expression at offset %d", ErrSyntax, x.pos())
}

func (ev *evaluator) intBinary(x *binaryExpr) (int64, error) {
	a, err := ev.intExpr(x.x)
	if err != nil {
		return 0, err
	}
	switch x.op {
	case tokAnd:
		if a == 0 {
			return 0, nil
		}
		b, err := ev.intExpr(x.y)
		return boolInt(b != 0), err
	case tokOr:
		if a != 0 {
			return 1, nil
		}
		b, err := ev.intExpr(x.y)
		return boolInt(b != 0), err
	}

	b, err := ev.intExpr(x.y)
	if err != nil {
		return 0, err
	}
	switch x.op {
	case tokPlus:
		return a + b, nil
	case tokMinus:
		return a - b, nil
	case tokStar:
		return a * b, nil
	case tokSlash:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case tokPercent:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a % b, nil
	case tokPow:
		if b < 0 {
			return 0, ErrNegativeExponent
		}
		return ipow(a, b), nil
	case tokBitAnd:
		return a & b, nil
	case tokBitOr:
		return a | b, nil
	case tokBitXor:
		return a ^ b, nil
	case tokShl:
		if b < 0 {
			return 0, ErrNegativeShift
		}
		return a << uint64(b), nil
	case tokShr:
		if b < 0 {
			return 0, ErrNegativeShift
		}
		return a >> uint64(b), nil
	case tokEq:
		return boolInt(a == b), nil
	case tokNe:
		return boolInt(a != b), nil
	case tokLt:
		return boolInt(a < b), nil
	case tokGt:
		return boolInt(a > b), nil
	case tokLe:
		return boolInt(a <= b), nil
	case tokGe:
		return boolInt(a >= b), nil
	}
	return 0, fmt.Errorf("%w: operator %s", ErrSyntax, x.op)
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func (ev *evaluator) floatExpr(x expr) (float64, error) {
	switch x := x.(type) {
	case *numberExpr:
		return x.f, nil

	case *identExpr:
		v, ok, err := ev.vars.Float(x.name)
		if err != nil {
			return 0, err
		}
		if ok {
			return v, nil
		}
		s, ok, err := ev.sub(x.name)
		if err != nil {
			return 0, err
		}
		if ok {
			ev.active[x.name] = true
			defer delete(ev.active, x.name)
			return ev.floatExpr(s.expr)
		}
		if c, ok := builtinConstant(x.name); ok {
			return c, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnknownIdentifier, x.name)

	case *unaryExpr:
		v, err := ev.floatExpr(x.x)
		if err != nil {
			return 0, err
		}
		switch x.op {
		case tokMinus:
			return -v, nil
		case tokTilde:
			return float64(^int64(v)), nil
		}
		return v, nil

	case *condExpr:
		c, err := ev.floatExpr(x.cond)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return ev.floatExpr(x.a)
		}
		return ev.floatExpr(x.b)

	case *callExpr:
		fn, args, err := ev.callArgs(x)
		if err != nil {
			return 0, err
		}
		vals := make([]float64, len(args))
		for i, a := range args {
			if vals[i], err = ev.floatExpr(a); err != nil {
				return 0, err
			}
		}
		return fn.floatFn(vals), nil

	case *binaryExpr:
		return ev.floatBinary(x)
	}
	return 0, fmt.Errorf("%w: unexpected expression at offset %d", ErrSyntax, x.pos())
}

func (ev *evaluator) floatBinary(x *binaryExpr) (float64, error) {
	a, err := ev.floatExpr(x.x)
	if err != nil {
		return 0, err
	}
	switch x.op {
	case tokAnd:
		if a == 0 {
			return 0, nil
		}
		b, err := ev.floatExpr(x.y)
		return boolFloat(b != 0), err
	case tokOr:
		if a != 0 {
			return 1, nil
		}
		b, err := ev.floatExpr(x.y)
		return boolFloat(b != 0), err
	}

	b, err := ev.floatExpr(x.y)
	if err != nil {
		return 0, err
	}
	switch x.op {
	case tokPlus:
		return a + b, nil
	case tokMinus:
		return a - b, nil
	case tokStar:
		return a * b, nil
	case tokSlash:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case tokPercent:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return math.Mod(a, b), nil
	case tokPow:
		return math.Pow(a, b), nil
	case tokBitAnd:
		return float64(int64(a) & int64(b)), nil
	case tokBitOr:
		return float64(int64(a) | int64(b)), nil
	case tokBitXor:
		return float64(int64(a) ^ int64(b)), nil
	case tokShl:
		if b < 0 {
			return 0, ErrNegativeShift
		}
		return float64(int64(a) << uint64(b)), nil
	case tokShr:
		if b < 0 {
			return 0, ErrNegativeShift
		}
		return float64(int64(a) >> uint64(b)), nil
	case tokEq:
		return boolFloat(a == b), nil
	case tokNe:
		return boolFloat(a != b), nil
	case tokLt:
		return boolFloat(a < b), nil
	case tokGt:
		return boolFloat(a > b), nil
	case tokLe:
		return boolFloat(a <= b), nil
	case tokGe:
		return boolFloat(a >= b), nil
	}
	return 0, fmt.Errorf("%w: operator %s", ErrSyntax, x.op)
}

func (ev *evaluator) callArgs(x *callExpr) (function, []expr, error) {
	fn, ok := functions[x.name]
	if !ok {
		return function{}, nil, fmt.Errorf("%w: %s", ErrUnknownFunction, x.name)
	}
	if len(x.args) < fn.minArgs || len(x.args) > fn.maxArgs {
		return function{}, nil, fmt.Errorf("%w: %s takes %d to %d, got %d",
			ErrArity, x.name, fn.minArgs, fn.maxArgs, len(x.args))
	}
	return fn, x.args, nil
}
