package nodemap

import (
	"math"
	"strings"

	"github.com/nodemap-go/nodemap/pkg/formula"
)

// nodeVars binds the pVariable names of a formula node to the nodes behind
// them. A converter adds TO or FROM on top.
type nodeVars struct {
	n      *Node
	extra  string
	extraI int64
	extraF float64
}

var _ formula.Vars = nodeVars{}

func (v nodeVars) with(name string, i int64, f float64) nodeVars {
	v.extra, v.extraI, v.extraF = name, i, f
	return v
}

// lookup splits name into a bound node and a suffix such as Min or
// Entry.On.
func (v nodeVars) lookup(name string) (*Node, string, bool) {
	for _, b := range v.n.fx.vars {
		if b.name == name {
			return b.node, "", true
		}
	}
	base, suffix, ok := strings.Cut(name, ".")
	if !ok {
		return nil, "", false
	}
	for _, b := range v.n.fx.vars {
		if b.name == base {
			return b.node, suffix, true
		}
	}
	return nil, "", false
}

func (v nodeVars) Int(name string) (int64, bool, error) {
	if v.extra != "" && name == v.extra {
		return v.extraI, true, nil
	}
	node, suffix, ok := v.lookup(name)
	if !ok {
		return 0, false, nil
	}
	var (
		i   int64
		err error
	)
	switch suffix {
	case "", "Value":
		i, err = node.intGet(accessConfig{})
	case "Min":
		i, err = node.intMin()
	case "Max":
		i, err = node.intMax()
	case "Inc":
		i, err = node.intInc()
	default:
		i, err = v.meta(node, suffix)
	}
	return i, true, err
}

func (v nodeVars) Float(name string) (float64, bool, error) {
	if v.extra != "" && name == v.extra {
		return v.extraF, true, nil
	}
	node, suffix, ok := v.lookup(name)
	if !ok {
		return 0, false, nil
	}
	var (
		f   float64
		err error
	)
	switch suffix {
	case "", "Value":
		f, err = node.floatGet(accessConfig{})
	case "Min":
		f, err = node.floatMin()
	case "Max":
		f, err = node.floatMax()
	case "Inc":
		f, _, err = node.floatInc()
	default:
		var i int64
		i, err = v.meta(node, suffix)
		f = float64(i)
	}
	return f, true, err
}

// meta resolves the metadata suffixes.
func (v nodeVars) meta(node *Node, suffix string) (int64, error) {
	switch suffix {
	case "AccessMode":
		return int64(node.accessMode()), nil
	case "Visibility":
		return int64(node.visibility), nil
	case "CachingMode":
		return int64(node.effCaching), nil
	}
	if name, ok := strings.CutPrefix(suffix, "Entry."); ok {
		if node.kind != KindEnumeration {
			return 0, newError(LogicalError, v.n.name, "%s is not an enumeration", node.name)
		}
		e := node.entryByName(name)
		if e == nil {
			return 0, newError(LogicalError, v.n.name, "enumeration %s has no entry %s", node.name, name)
		}
		return e.entry.value, nil
	}
	return 0, newError(LogicalError, v.n.name, "unknown variable suffix %q", suffix)
}

// fxIntGet evaluates an IntSwissKnife or the forward formula of an
// IntConverter.
func (n *Node) fxIntGet(c accessConfig) (int64, error) {
	if n.cached(c) {
		return n.cache.i, nil
	}
	vars := nodeVars{n: n}
	if n.kind == KindIntConverter {
		to, err := n.value.node.intGet(accessConfig{ignoreCache: c.ignoreCache})
		if err != nil {
			return 0, err
		}
		vars = vars.with("TO", to, float64(to))
	}
	v, err := n.fx.from.EvalInt(vars)
	if err != nil {
		return 0, formulaError(n.name, err)
	}
	n.store(cacheEntry{i: v})
	return v, nil
}

// fxFloatGet evaluates a SwissKnife or the forward formula of a Converter.
func (n *Node) fxFloatGet(c accessConfig) (float64, error) {
	if n.cached(c) {
		return n.cache.f, nil
	}
	vars := nodeVars{n: n}
	if n.kind == KindConverter {
		to, err := n.value.node.floatGet(accessConfig{ignoreCache: c.ignoreCache})
		if err != nil {
			return 0, err
		}
		vars = vars.with("TO", clampInt(to), to)
	}
	v, err := n.fx.from.EvalFloat(vars)
	if err != nil {
		return 0, formulaError(n.name, err)
	}
	n.store(cacheEntry{f: v})
	return v, nil
}

// converterIntSet maps v through FormulaTo and writes the result to the
// backing value.
func (n *Node) converterIntSet(v int64, c accessConfig) error {
	raw, err := n.fx.to.EvalInt(nodeVars{n: n}.with("FROM", v, float64(v)))
	if err != nil {
		return formulaError(n.name, err)
	}
	return n.value.node.intSet(raw, c)
}

func (n *Node) converterFloatSet(v float64, c accessConfig) error {
	raw, err := n.fx.to.EvalFloat(nodeVars{n: n}.with("FROM", clampInt(v), v))
	if err != nil {
		return formulaError(n.name, err)
	}
	if n.value.node.kind.isInteger() {
		return n.value.node.intSet(clampInt(math.Round(raw)), c)
	}
	return n.value.node.floatSet(raw, c)
}

// increasing reports the direction of the converter's forward mapping for
// endpoints a (at the backing Min) and b (at the backing Max).
func (n *Node) increasing(aBelowB bool) bool {
	switch n.fx.slope {
	case SlopeIncreasing:
		return true
	case SlopeDecreasing:
		return false
	case SlopeVarying:
		return aBelowB
	}
	if !n.fx.slopeKnown {
		n.fx.increasing, n.fx.slopeKnown = aBelowB, true
	}
	return n.fx.increasing
}

func (n *Node) converterFloatRange() (lo, hi float64, err error) {
	p := n.value.node
	pmin, err := p.floatMin()
	if err != nil {
		return 0, 0, err
	}
	pmax, err := p.floatMax()
	if err != nil {
		return 0, 0, err
	}
	a, err := n.fx.from.EvalFloat(nodeVars{n: n}.with("TO", clampInt(pmin), pmin))
	if err != nil {
		return 0, 0, formulaError(n.name, err)
	}
	b, err := n.fx.from.EvalFloat(nodeVars{n: n}.with("TO", clampInt(pmax), pmax))
	if err != nil {
		return 0, 0, formulaError(n.name, err)
	}
	if n.increasing(a <= b) {
		return a, b, nil
	}
	return b, a, nil
}

func (n *Node) converterIntRange() (lo, hi int64, err error) {
	p := n.value.node
	pmin, err := p.intMin()
	if err != nil {
		return 0, 0, err
	}
	pmax, err := p.intMax()
	if err != nil {
		return 0, 0, err
	}
	a, err := n.fx.from.EvalInt(nodeVars{n: n}.with("TO", pmin, float64(pmin)))
	if err != nil {
		return 0, 0, formulaError(n.name, err)
	}
	b, err := n.fx.from.EvalInt(nodeVars{n: n}.with("TO", pmax, float64(pmax)))
	if err != nil {
		return 0, 0, formulaError(n.name, err)
	}
	if n.increasing(a <= b) {
		return a, b, nil
	}
	return b, a, nil
}
