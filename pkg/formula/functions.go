package formula

import "math"

// function is a built-in. A nil intFn means the function needs floating
// point and is rejected by EvalInt.
type function struct {
	minArgs, maxArgs int
	intFn            func(args []int64) int64
	floatFn          func(args []float64) float64
}

var functions = map[string]function{
	"NEG": {1, 1,
		func(a []int64) int64 { return -a[0] },
		func(a []float64) float64 { return -a[0] }},
	"SGN": {1, 1,
		func(a []int64) int64 {
			switch {
			case a[0] > 0:
				return 1
			case a[0] < 0:
				return -1
			}
			return 0
		},
		func(a []float64) float64 {
			switch {
			case a[0] > 0:
				return 1
			case a[0] < 0:
				return -1
			}
			return 0
		}},
	"ABS": {1, 1,
		func(a []int64) int64 {
			if a[0] < 0 {
				return -a[0]
			}
			return a[0]
		},
		func(a []float64) float64 { return math.Abs(a[0]) }},
	"TRUNC": {1, 1, identity, func(a []float64) float64 { return math.Trunc(a[0]) }},
	"FLOOR": {1, 1, identity, func(a []float64) float64 { return math.Floor(a[0]) }},
	"CEIL":  {1, 1, identity, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"FRAC": {1, 1,
		func([]int64) int64 { return 0 },
		func(a []float64) float64 { return a[0] - math.Trunc(a[0]) }},
	"ROUND": {1, 2, identity, round},
	"SIN":   {1, 1, nil, unary(math.Sin)},
	"COS":   {1, 1, nil, unary(math.Cos)},
	"TAN":   {1, 1, nil, unary(math.Tan)},
	"ASIN":  {1, 1, nil, unary(math.Asin)},
	"ACOS":  {1, 1, nil, unary(math.Acos)},
	"ATAN":  {1, 1, nil, unary(math.Atan)},
	"SQRT":  {1, 1, nil, unary(math.Sqrt)},
	"LN":    {1, 1, nil, unary(math.Log)},
	"LG":    {1, 1, nil, unary(math.Log10)},
	"EXP":   {1, 1, nil, unary(math.Exp)},
}

func identity(a []int64) int64 { return a[0] }

func unary(fn func(float64) float64) func([]float64) float64 {
	return func(a []float64) float64 { return fn(a[0]) }
}

// round rounds half away from zero to the given number of decimals.
func round(a []float64) float64 {
	if len(a) == 1 {
		return math.Round(a[0])
	}
	scale := math.Pow(10, math.Trunc(a[1]))
	return math.Round(a[0]*scale) / scale
}
