package nodemap

import (
	"strconv"
)

// Float is the floating point view of a node.
type Float struct{ *Node }

// Value returns the current value.
func (f Float) Value(opts ...AccessOption) (float64, error) {
	f.m.lock()
	defer f.m.unlock()
	return f.floatGet(getConfig(opts))
}

// SetValue writes v.
func (f Float) SetValue(v float64, opts ...AccessOption) error {
	f.m.lock()
	defer f.m.unlock()
	return f.floatSet(v, setConfig(opts))
}

// Min returns the smallest valid value.
func (f Float) Min() (float64, error) {
	f.m.lock()
	defer f.m.unlock()
	return f.floatMin()
}

// Max returns the largest valid value.
func (f Float) Max() (float64, error) {
	f.m.lock()
	defer f.m.unlock()
	return f.floatMax()
}

// Inc returns the increment and whether the node has one.
func (f Float) Inc() (float64, bool, error) {
	f.m.lock()
	defer f.m.unlock()
	return f.floatInc()
}

// Unit returns the physical unit.
func (f Float) Unit() string {
	if f.num == nil {
		return ""
	}
	return f.num.unit
}

// DisplayNotation returns the preferred notation.
func (f Float) DisplayNotation() DisplayNotation {
	if f.num == nil {
		return NotationAutomatic
	}
	return f.num.notation
}

// DisplayPrecision returns the number of digits shown.
func (f Float) DisplayPrecision() int {
	if f.num == nil {
		return defaultPrecision
	}
	return f.num.precision
}

const defaultPrecision = 6

func (n *Node) formatFloat(v float64) string {
	notation, precision := NotationAutomatic, defaultPrecision
	if n.num != nil {
		notation, precision = n.num.notation, n.num.precision
	}
	switch notation {
	case NotationFixed:
		return strconv.FormatFloat(v, 'f', precision, 64)
	case NotationScientific:
		return strconv.FormatFloat(v, 'e', precision, 64)
	}
	return strconv.FormatFloat(v, 'g', precision, 64)
}
