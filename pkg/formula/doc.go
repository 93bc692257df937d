// Package formula parses and evaluates the expression language used by
// SwissKnife and Converter nodes.
//
// A formula is an arithmetic, bitwise and logical expression over named
// variables:
//
//	prog := formula.Compile(formula.Definition{Formula: "(A + B) * 2"})
//	v, err := prog.EvalInt(formula.IntMap{"A": 3, "B": 4}) // 14
//
// # Operators
//
// From lowest to highest precedence:
//
//	?:                 ternary (right associative)
//	||                 logical or
//	&&                 logical and
//	|                  bitwise or
//	^                  bitwise xor
//	&                  bitwise and
//	=  <>              equality (= is comparison, never assignment)
//	<  >  <=  >=       relational
//	<<  >>             shifts
//	+  -               additive
//	*  /  %            multiplicative
//	- + ~              unary
//	**                 power (right associative)
//
// Functions (case-insensitive): NEG SGN ABS TRUNC FRAC FLOOR CEIL
// ROUND(x[,precision]) SIN COS TAN ASIN ACOS ATAN SQRT LN LG EXP. Constants:
// PI and E. Literals are decimal (with optional fraction and exponent) or
// hexadecimal with a 0x prefix.
//
// # Domains
//
// EvalInt computes in int64 arithmetic and rejects anything that needs
// floating point: fractional literals, PI, E and the transcendental
// functions. EvalFloat computes in float64; bitwise operators act on the
// truncated integer parts of their operands.
//
// # Errors
//
// Compile never fails. Syntax errors, unknown identifiers, division by zero
// and domain violations are reported when the program is evaluated, so a
// description with a broken formula still loads and only the affected node
// fails.
package formula
