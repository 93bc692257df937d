package nodemap

import (
	"math"
)

// intGet reads n as an integer. This is the one place integer reads are
// dispatched on the node kind.
func (n *Node) intGet(c accessConfig) (int64, error) {
	if err := n.checkReadable(); err != nil {
		return 0, err
	}
	switch n.kind {
	case KindInteger:
		v, err := n.backingInt(c)
		if err != nil {
			return 0, err
		}
		if c.verify {
			if err := n.verifyInt(v, false); err != nil {
				return 0, err
			}
		}
		return v, nil
	case KindEnumeration:
		return n.backingInt(c)
	case KindIntReg, KindMaskedIntReg, KindStructEntry:
		return n.regIntGet(c)
	case KindIntSwissKnife, KindIntConverter:
		return n.fxIntGet(c)
	case KindBoolean:
		b, err := n.boolGet(c)
		if b {
			return 1, err
		}
		return 0, err
	case KindEnumEntry:
		return n.entry.value, nil
	case KindFloat, KindFloatReg, KindSwissKnife, KindConverter:
		f, err := n.floatGet(c)
		return int64(f), err
	}
	return 0, newError(LogicalError, n.name, "%s node has no integer value", n.kind)
}

// backingInt reads the pValue of n or its local value.
func (n *Node) backingInt(c accessConfig) (int64, error) {
	if n.value.node != nil {
		return n.value.node.intGet(accessConfig{ignoreCache: c.ignoreCache})
	}
	return n.local.i, nil
}

// intSet writes n as an integer.
func (n *Node) intSet(v int64, c accessConfig) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	switch n.kind {
	case KindInteger:
		if c.verify {
			if err := n.verifyInt(v, true); err != nil {
				return err
			}
		}
		if n.value.node != nil {
			return n.value.node.intSet(v, c)
		}
		n.local.i = v
		n.m.changed(n)
		return nil
	case KindEnumeration:
		return n.enumSetInt(v, c)
	case KindIntReg, KindMaskedIntReg, KindStructEntry:
		return n.regIntSet(v, c)
	case KindIntConverter:
		return n.converterIntSet(v, c)
	case KindBoolean:
		return n.boolSet(v != 0, c)
	case KindFloat, KindFloatReg, KindConverter:
		return n.floatSet(float64(v), c)
	}
	return newError(AccessError, n.name, "%s node cannot be written as an integer", n.kind)
}

// refInt resolves an integer poly-reference.
func refInt(r ref) (int64, error) {
	if r.node != nil {
		return r.node.intGet(accessConfig{})
	}
	return r.i, nil
}

// refFloat resolves a float poly-reference.
func refFloat(r ref) (float64, error) {
	if r.node != nil {
		return r.node.floatGet(accessConfig{})
	}
	return r.f, nil
}

// hasIntRange reports whether n defines its own integer Min/Max/Inc.
func (n *Node) hasIntRange() bool {
	switch n.kind {
	case KindInteger, KindIntReg, KindMaskedIntReg, KindStructEntry, KindIntConverter, KindIntSwissKnife:
		return true
	}
	return false
}

func (n *Node) intMin() (int64, error) {
	switch n.kind {
	case KindInteger:
		if n.min.ok {
			return refInt(n.min)
		}
		if p := n.value.node; p != nil && p.hasIntRange() {
			return p.intMin()
		}
	case KindIntReg, KindMaskedIntReg, KindStructEntry:
		lo, _, err := n.regRange()
		return lo, err
	case KindIntConverter:
		lo, _, err := n.converterIntRange()
		return lo, err
	case KindFloat, KindFloatReg, KindConverter, KindSwissKnife:
		f, err := n.floatMin()
		return clampInt(f), err
	}
	return math.MinInt64, nil
}

func (n *Node) intMax() (int64, error) {
	switch n.kind {
	case KindInteger:
		if n.max.ok {
			return refInt(n.max)
		}
		if p := n.value.node; p != nil && p.hasIntRange() {
			return p.intMax()
		}
	case KindIntReg, KindMaskedIntReg, KindStructEntry:
		_, hi, err := n.regRange()
		return hi, err
	case KindIntConverter:
		_, hi, err := n.converterIntRange()
		return hi, err
	case KindFloat, KindFloatReg, KindConverter, KindSwissKnife:
		f, err := n.floatMax()
		return clampInt(f), err
	}
	return math.MaxInt64, nil
}

func (n *Node) intInc() (int64, error) {
	if n.kind == KindInteger {
		if n.inc.ok {
			return refInt(n.inc)
		}
		if p := n.value.node; p != nil && p.hasIntRange() {
			return p.intInc()
		}
	}
	return 1, nil
}

// clampInt converts f to int64, saturating at the int64 limits.
func clampInt(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// verifyInt checks v against the live Min, Max and Inc of n. An increment of
// zero is accepted on write and reported as a logical error on read.
func (n *Node) verifyInt(v int64, write bool) error {
	lo, err := n.intMin()
	if err != nil {
		return err
	}
	hi, err := n.intMax()
	if err != nil {
		return err
	}
	if v < lo || v > hi {
		return newError(OutOfRange, n.name, "value %d not in [%d, %d]", v, lo, hi)
	}
	inc, err := n.intInc()
	if err != nil {
		return err
	}
	switch {
	case inc == 0:
		if write {
			return nil
		}
		return newError(LogicalError, n.name, "increment is zero")
	case inc < 0:
		inc = -inc
	}
	if inc == 1 {
		return nil
	}
	// Without a declared minimum the increment counts from zero.
	base, off := lo, (uint64(v)-uint64(lo))%uint64(inc)
	if lo == math.MinInt64 {
		base, off = 0, uint64(v%inc)
	}
	if off != 0 {
		return newError(OutOfRange, n.name, "value %d does not match increment %d from %d", v, inc, base)
	}
	return nil
}

// floatGet reads n as a float.
func (n *Node) floatGet(c accessConfig) (float64, error) {
	if err := n.checkReadable(); err != nil {
		return 0, err
	}
	switch n.kind {
	case KindFloat:
		var v float64
		if n.value.node != nil {
			f, err := n.value.node.floatGet(accessConfig{ignoreCache: c.ignoreCache})
			if err != nil {
				return 0, err
			}
			v = f
		} else {
			v = n.local.f
		}
		if c.verify {
			if err := n.verifyFloat(v, false); err != nil {
				return 0, err
			}
		}
		return v, nil
	case KindFloatReg:
		return n.regFloatGet(c)
	case KindSwissKnife, KindConverter:
		return n.fxFloatGet(c)
	case KindEnumEntry:
		if n.entry.hasNumeric {
			return n.entry.numeric, nil
		}
		return float64(n.entry.value), nil
	}
	if n.kind.isInteger() {
		i, err := n.intGet(c)
		return float64(i), err
	}
	return 0, newError(LogicalError, n.name, "%s node has no numeric value", n.kind)
}

// floatSet writes n as a float.
func (n *Node) floatSet(v float64, c accessConfig) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	switch n.kind {
	case KindFloat:
		if c.verify {
			if err := n.verifyFloat(v, true); err != nil {
				return err
			}
		}
		if n.value.node != nil {
			return n.value.node.floatSet(v, c)
		}
		n.local.f = v
		n.m.changed(n)
		return nil
	case KindFloatReg:
		return n.regFloatSet(v, c)
	case KindConverter:
		return n.converterFloatSet(v, c)
	}
	if n.kind.isInteger() {
		return n.intSet(int64(math.Round(v)), c)
	}
	return newError(AccessError, n.name, "%s node cannot be written as a number", n.kind)
}

func (n *Node) floatMin() (float64, error) {
	switch n.kind {
	case KindFloat:
		if n.min.ok {
			return refFloat(n.min)
		}
		if p := n.value.node; p != nil && p.kind.isNumber() {
			return p.floatMin()
		}
	case KindConverter:
		lo, _, err := n.converterFloatRange()
		return lo, err
	case KindFloatReg, KindSwissKnife:
	default:
		if n.kind.isInteger() {
			i, err := n.intMin()
			return float64(i), err
		}
	}
	return -math.MaxFloat64, nil
}

func (n *Node) floatMax() (float64, error) {
	switch n.kind {
	case KindFloat:
		if n.max.ok {
			return refFloat(n.max)
		}
		if p := n.value.node; p != nil && p.kind.isNumber() {
			return p.floatMax()
		}
	case KindConverter:
		_, hi, err := n.converterFloatRange()
		return hi, err
	case KindFloatReg, KindSwissKnife:
	default:
		if n.kind.isInteger() {
			i, err := n.intMax()
			return float64(i), err
		}
	}
	return math.MaxFloat64, nil
}

// floatInc returns the increment of n and whether it has one.
func (n *Node) floatInc() (float64, bool, error) {
	switch n.kind {
	case KindFloat:
		if n.inc.ok {
			v, err := refFloat(n.inc)
			return v, true, err
		}
		if p := n.value.node; p != nil && p.kind == KindFloat {
			return p.floatInc()
		}
		return 0, false, nil
	case KindFloatReg, KindSwissKnife, KindConverter:
		return 0, false, nil
	}
	if n.kind.isInteger() {
		i, err := n.intInc()
		return float64(i), true, err
	}
	return 0, false, nil
}

// incTolerance is the relative slack allowed when checking a float against
// its increment.
const incTolerance = 1e-9

func (n *Node) verifyFloat(v float64, write bool) error {
	lo, err := n.floatMin()
	if err != nil {
		return err
	}
	hi, err := n.floatMax()
	if err != nil {
		return err
	}
	if v < lo || v > hi {
		return newError(OutOfRange, n.name, "value %g not in [%g, %g]", v, lo, hi)
	}
	inc, ok, err := n.floatInc()
	if err != nil || !ok {
		return err
	}
	if inc == 0 {
		if write {
			return nil
		}
		return newError(LogicalError, n.name, "increment is zero")
	}
	inc = math.Abs(inc)
	base := lo
	if base == -math.MaxFloat64 {
		base = 0
	}
	r := math.Abs(math.Mod(v-base, inc))
	if r > incTolerance*inc && inc-r > incTolerance*inc {
		return newError(OutOfRange, n.name, "value %g does not match increment %g from %g", v, inc, base)
	}
	return nil
}
