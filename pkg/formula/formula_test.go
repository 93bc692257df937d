package formula

import (
	"errors"
	"math"
	"testing"
)

func TestEvalInt(t *testing.T) {
	vars := IntMap{"A": 5, "B": 3, "SEL": 2, "Neg": -8, "A.Max": 100}

	tests := []struct {
		name    string
		formula string
		want    int64
	}{
		{"literal", "42", 42},
		{"hex literal", "0x1F", 31},
		{"hex upper prefix", "0XfF", 255},
		{"hex wraps", "0xFFFFFFFFFFFFFFFF", -1},
		{"addition", "A + B", 8},
		{"precedence mul over add", "A + B * 2", 11},
		{"parentheses", "(A + B) * 2", 16},
		{"left associative minus", "10 - 4 - 3", 3},
		{"integer division truncates", "7 / 2", 3},
		{"negative division truncates", "Neg / 3", -2},
		{"modulo", "A % B", 2},
		{"power", "2 ** 10", 1024},
		{"power right associative", "2 ** 3 ** 2", 512},
		{"unary minus below power", "-2 ** 2", -4},
		{"unary plus", "+A", 5},
		{"bit and", "0xF0 & 0x3C", 0x30},
		{"bit or", "0xF0 | 0x0F", 0xFF},
		{"bit xor", "0xFF ^ 0x0F", 0xF0},
		{"bit not", "~0", -1},
		{"shift left", "1 << SEL", 4},
		{"shift right arithmetic", "Neg >> 1", -4},
		{"shift binds looser than add", "1 << 1 + 1", 4},
		{"equality", "A = 5", 1},
		{"inequality", "A <> 5", 0},
		{"relational", "A > B", 1},
		{"less equal", "A <= B", 0},
		{"logical and", "A && 0", 0},
		{"logical or", "0 || B", 1},
		{"and binds tighter than or", "1 || 0 && 0", 1},
		{"ternary", "A > B ? 10 : 20", 10},
		{"ternary false", "A < B ? 10 : 20", 20},
		{"nested ternary", "SEL = 0 ? 100 : SEL = 1 ? 200 : 300", 300},
		{"address formula", "0x1000 + SEL * 0x10", 0x1020},
		{"dotted variable", "A.Max - A", 95},
		{"neg", "NEG(A)", -5},
		{"sgn", "SGN(Neg)", -1},
		{"abs", "ABS(Neg)", 8},
		{"function case insensitive", "abs(Neg)", 8},
		{"trunc identity", "TRUNC(A)", 5},
		{"round identity", "ROUND(A, 2)", 5},
		{"frac zero", "FRAC(A)", 0},
		{"whitespace", "  A\t+\nB ", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(Definition{Formula: tt.formula}).EvalInt(vars)
			if err != nil {
				t.Fatalf("EvalInt(%q): %v", tt.formula, err)
			}
			if got != tt.want {
				t.Errorf("EvalInt(%q) = %d, want %d", tt.formula, got, tt.want)
			}
		})
	}
}

func TestEvalFloat(t *testing.T) {
	vars := FloatMap{"TO": 2.5, "FROM": 10, "X": -1.5}

	tests := []struct {
		name    string
		formula string
		want    float64
	}{
		{"fraction", "TO * 2", 5},
		{"exponent literal", "1.5e2", 150},
		{"leading dot", ".5 + .25", 0.75},
		{"division", "FROM / 4", 2.5},
		{"modulo is floating", "5.5 % 2", 1.5},
		{"pi", "PI", math.Pi},
		{"e lower case", "e", math.E},
		{"sqrt", "SQRT(16)", 4},
		{"ln", "LN(E)", 1},
		{"lg", "LG(1000)", 3},
		{"exp", "EXP(0)", 1},
		{"sin", "SIN(0)", 0},
		{"cos", "COS(0)", 1},
		{"atan", "ATAN(1) * 4", math.Pi},
		{"trunc", "TRUNC(X)", -1},
		{"floor", "FLOOR(X)", -2},
		{"ceil", "CEIL(X)", -1},
		{"frac", "FRAC(TO)", 0.5},
		{"round", "ROUND(TO)", 3},
		{"round precision", "ROUND(3.14159, 2)", 3.14},
		{"power", "2 ** 0.5 ** 2", math.Pow(2, 0.25)},
		{"bitwise truncates", "5.9 & 3.2", 1},
		{"shift truncates", "1.7 << 3", 8},
		{"comparison", "TO > 2", 1},
		{"ternary", "X < 0 ? NEG(X) : X", 1.5},
		{"hex as unsigned", "0xFFFFFFFF", 4294967295},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(Definition{Formula: tt.formula}).EvalFloat(vars)
			if err != nil {
				t.Fatalf("EvalFloat(%q): %v", tt.formula, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EvalFloat(%q) = %g, want %g", tt.formula, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	vars := IntMap{"A": 5, "B": 0}

	tests := []struct {
		name    string
		formula string
		float   bool
		want    error
	}{
		{"modulo by zero", "A % B", false, ErrDivisionByZero},
		{"division by zero", "A / B", false, ErrDivisionByZero},
		{"float division by zero", "A / B", true, ErrDivisionByZero},
		{"float modulo by zero", "A % B", true, ErrDivisionByZero},
		{"empty", "", false, ErrEmpty},
		{"blank", "   ", false, ErrEmpty},
		{"unbalanced open", "(A + 1", false, ErrSyntax},
		{"unbalanced close", "A + 1)", false, ErrSyntax},
		{"double equals", "A == 5", false, ErrSyntax},
		{"not operator", "!A", false, ErrSyntax},
		{"adjacent literals", "1 2", false, ErrSyntax},
		{"adjacent identifiers", "A A", false, ErrSyntax},
		{"dangling operator", "A +", false, ErrSyntax},
		{"malformed number", "12abc", false, ErrSyntax},
		{"legacy hex prefix", "&hFF", false, ErrSyntax},
		{"missing ternary branch", "A ? 1", false, ErrSyntax},
		{"unknown function", "FOO(A)", false, ErrUnknownFunction},
		{"wrong arity", "ABS(A, 1)", false, ErrArity},
		{"unknown identifier", "C + 1", false, ErrUnknownIdentifier},
		{"variables are case sensitive", "a + 1", false, ErrUnknownIdentifier},
		{"float literal in integer domain", "A * 1.5", false, ErrIntegerDomain},
		{"pi in integer domain", "PI", false, ErrIntegerDomain},
		{"sqrt in integer domain", "SQRT(A)", false, ErrIntegerDomain},
		{"sin in integer domain", "SIN(A)", false, ErrIntegerDomain},
		{"negative shift", "1 << -1", false, ErrNegativeShift},
		{"negative exponent", "2 ** -1", false, ErrNegativeExponent},
		{"not a number", "SQRT(-1)", true, ErrNotANumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := Compile(Definition{Formula: tt.formula})
			var err error
			if tt.float {
				_, err = prog.EvalFloat(vars)
			} else {
				_, err = prog.EvalInt(vars)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var fe *Error
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not a *formula.Error", err)
			}
		})
	}
}

func TestShortCircuit(t *testing.T) {
	vars := IntMap{"A": 0, "B": 0}

	tests := []struct {
		formula string
		want    int64
	}{
		{"A && 1 / B", 0},
		{"1 || 1 / B", 1},
		{"A = 0 ? 7 : 1 / B", 7},
		{"A <> 0 ? 1 / B : 9", 9},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, err := Compile(Definition{Formula: tt.formula}).EvalInt(vars)
			if err != nil {
				t.Fatalf("EvalInt: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConstantsAndExpressions(t *testing.T) {
	prog := Compile(Definition{
		Formula:     "BASE + STRIDE * SEL",
		Constants:   []Named{{Name: "BASE", Text: "0x2000"}},
		Expressions: []Named{{Name: "STRIDE", Text: "WIDTH * 4"}},
	})

	got, err := prog.EvalInt(IntMap{"SEL": 3, "WIDTH": 2})
	if err != nil {
		t.Fatalf("EvalInt: %v", err)
	}
	if got != 0x2000+24 {
		t.Errorf("got %#x, want %#x", got, 0x2000+24)
	}

	// Variables shadow sub-formulas of the same name.
	got, err = prog.EvalInt(IntMap{"SEL": 1, "WIDTH": 2, "BASE": 0})
	if err != nil {
		t.Fatalf("EvalInt: %v", err)
	}
	if got != 8 {
		t.Errorf("shadowed: got %d, want 8", got)
	}
}

func TestExpressionRecursion(t *testing.T) {
	prog := Compile(Definition{
		Formula:     "X + 1",
		Expressions: []Named{{Name: "X", Text: "Y * 2"}, {Name: "Y", Text: "X - 1"}},
	})
	if _, err := prog.EvalInt(IntMap{}); !errors.Is(err, ErrRecursion) {
		t.Fatalf("error = %v, want ErrRecursion", err)
	}

	// The same expression may be used twice as long as it does not nest.
	prog = Compile(Definition{
		Formula:     "X + X",
		Expressions: []Named{{Name: "X", Text: "3"}},
	})
	got, err := prog.EvalInt(IntMap{})
	if err != nil || got != 6 {
		t.Fatalf("EvalInt = %d, %v; want 6", got, err)
	}
}

func TestBrokenSubFormulaOnlyFailsWhenUsed(t *testing.T) {
	prog := Compile(Definition{
		Formula:     "A + 1",
		Expressions: []Named{{Name: "UNUSED", Text: "(("}},
	})
	got, err := prog.EvalInt(IntMap{"A": 1})
	if err != nil || got != 2 {
		t.Fatalf("EvalInt = %d, %v; want 2", got, err)
	}
	if err := prog.Check(); !errors.Is(err, ErrSyntax) {
		t.Errorf("Check() = %v, want ErrSyntax", err)
	}
}

type failingVars struct{ err error }

func (f failingVars) Int(string) (int64, bool, error)     { return 0, false, f.err }
func (f failingVars) Float(string) (float64, bool, error) { return 0, false, f.err }

func TestVariableErrorAbortsEvaluation(t *testing.T) {
	readErr := errors.New("port timeout")
	_, err := Compile(Definition{Formula: "A + 1"}).EvalInt(failingVars{readErr})
	if !errors.Is(err, readErr) {
		t.Fatalf("error = %v, want %v", err, readErr)
	}
}

func TestParseCacheSharesTrees(t *testing.T) {
	a := parseCached("A * 2 + 1")
	b := parseCached("A * 2 + 1")
	if a.expr != b.expr {
		t.Error("same formula text parsed twice")
	}
}
