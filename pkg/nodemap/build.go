package nodemap

import (
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/nodemap-go/nodemap/pkg/description"
	"github.com/nodemap-go/nodemap/pkg/formula"
	"github.com/nodemap-go/nodemap/pkg/port"
)

// builder turns a description into linked nodes. Problems are collected so
// that a broken description reports all of them at once.
type builder struct {
	m     *NodeMap
	descs map[*Node]*description.NodeDesc
	errs  *multierror.Error
}

func (b *builder) fail(node, format string, args ...any) {
	b.errs = multierror.Append(b.errs, newError(LogicalError, node, format, args...))
}

func (b *builder) build(desc *description.Description) error {
	for i := range desc.Nodes {
		b.declare(&desc.Nodes[i])
	}
	for _, n := range b.m.nodes {
		b.configure(n, b.descs[n])
	}
	if err := b.errs.ErrorOrNil(); err != nil {
		return err
	}

	for _, n := range b.m.nodes {
		b.linkDependents(n, b.descs[n])
	}
	b.checkCycles()
	if err := b.errs.ErrorOrNil(); err != nil {
		return err
	}

	caching := make(map[*Node]bool)
	for _, n := range b.m.nodes {
		resolveCaching(n, caching)
	}
	access := make(map[*Node]bool)
	for _, n := range b.m.nodes {
		resolveAccessCacheable(n, access)
		if n.pollingTime > 0 {
			b.m.polled = append(b.m.polled, n)
		}
		if n.kind == KindPort {
			b.m.ports = append(b.m.ports, n)
		}
	}
	return nil
}

func (b *builder) add(name string, kind Kind, d *description.NodeDesc) *Node {
	if name == "" {
		b.fail("", "%s node without a name", kind)
		return nil
	}
	if _, dup := b.m.byName[name]; dup {
		b.fail(name, "duplicate node name")
		return nil
	}
	n := &Node{m: b.m, name: name, kind: kind}
	b.m.nodes = append(b.m.nodes, n)
	b.m.byName[name] = n
	b.descs[n] = d
	return n
}

// declare creates the nodes of one description entry. Enumerations add their
// entries and a StructReg expands into one node per StructEntry.
func (b *builder) declare(d *description.NodeDesc) {
	switch d.Kind {
	case description.KindStructReg:
		var siblings []*Node
		for i := range d.StructEntries {
			e := structEntryDesc(d, &d.StructEntries[i])
			if n := b.add(e.Name, KindStructEntry, e); n != nil {
				siblings = append(siblings, n)
			}
		}
		for _, n := range siblings {
			n.reg = &registerData{siblings: siblings}
		}
		return
	case description.KindEnumeration:
		enum := b.add(d.Name, KindEnumeration, d)
		if enum == nil {
			return
		}
		enum.enum = &enumData{}
		for i := range d.Entries {
			e := &d.Entries[i]
			entry := b.add("EnumEntry_"+d.Name+"_"+e.Name, KindEnumEntry, e)
			if entry == nil {
				continue
			}
			entry.entry = &entryData{parent: enum}
			enum.enum.entries = append(enum.enum.entries, entry)
		}
		return
	}
	kind, ok := kindsByName[d.Kind]
	if !ok {
		b.fail(d.Name, "unknown node kind %q", d.Kind)
		return
	}
	b.add(d.Name, kind, d)
}

// structEntryDesc merges the shared register fields of a StructReg into one
// of its entries.
func structEntryDesc(reg, entry *description.NodeDesc) *description.NodeDesc {
	e := *entry
	e.Kind = description.KindStructEntry
	e.Address, e.PAddress, e.PIndex = reg.Address, reg.PAddress, reg.PIndex
	e.Length, e.PLength, e.PPort = reg.Length, reg.PLength, reg.PPort
	e.Endianess = reg.Endianess
	if e.AccessMode == "" {
		e.AccessMode = reg.AccessMode
	}
	if e.Cachable == "" {
		e.Cachable = reg.Cachable
	}
	if e.PollingTime == 0 {
		e.PollingTime = reg.PollingTime
	}
	e.PInvalidator = append(append(description.Strings(nil), reg.PInvalidator...), entry.PInvalidator...)
	return &e
}

func (b *builder) link(n *Node, name, role string, ok func(Kind) bool) *Node {
	if name == "" {
		return nil
	}
	t, found := b.m.byName[name]
	if !found {
		b.fail(n.name, "%s references unknown node %q", role, name)
		return nil
	}
	if ok != nil && !ok(t.kind) {
		b.fail(n.name, "%s references %s node %q", role, t.kind, name)
		return nil
	}
	return t
}

func (b *builder) intRef(n *Node, lit, pname, role string) ref {
	if pname != "" {
		t := b.link(n, pname, "p"+role, Kind.isNumber)
		return ref{node: t, ok: t != nil}
	}
	if lit == "" {
		return ref{}
	}
	v, err := parseInt(lit)
	if err != nil {
		b.fail(n.name, "%s: %v", role, err)
		return ref{}
	}
	return ref{i: v, f: float64(v), ok: true}
}

func (b *builder) floatRef(n *Node, lit, pname, role string) ref {
	if pname != "" {
		t := b.link(n, pname, "p"+role, Kind.isNumber)
		return ref{node: t, ok: t != nil}
	}
	if lit == "" {
		return ref{}
	}
	v, err := parseFloat(lit)
	if err != nil {
		b.fail(n.name, "%s: %v", role, err)
		return ref{}
	}
	return ref{i: clampInt(v), f: v, ok: true}
}

func isPort(k Kind) bool { return k == KindPort }

func (b *builder) configure(n *Node, d *description.NodeDesc) {
	n.namespace = d.NameSpace
	if n.namespace == "" {
		n.namespace = "Custom"
	}
	n.displayName = d.DisplayName
	n.toolTip = d.ToolTip
	n.description = d.Description
	n.streamable = d.Streamable == "Yes" || strings.EqualFold(d.Streamable, "true")
	n.pollingTime = time.Duration(d.PollingTime) * time.Millisecond

	var ok bool
	if n.visibility, ok = ParseVisibility(d.Visibility); !ok {
		b.fail(n.name, "invalid visibility %q", d.Visibility)
	}
	if n.caching, ok = parseCachingMode(d.Cachable); !ok {
		b.fail(n.name, "invalid caching mode %q", d.Cachable)
	}
	n.imposed = RW
	if d.ImposedAccessMode != "" {
		if n.imposed, ok = port.ParseAccessMode(d.ImposedAccessMode); !ok {
			b.fail(n.name, "invalid imposed access mode %q", d.ImposedAccessMode)
		}
	}
	n.declared = RO
	if d.AccessMode != "" {
		if n.declared, ok = port.ParseAccessMode(d.AccessMode); !ok {
			b.fail(n.name, "invalid access mode %q", d.AccessMode)
		}
	}

	n.isImplemented = b.link(n, d.PIsImplemented, "pIsImplemented", Kind.isNumber)
	n.isAvailable = b.link(n, d.PIsAvailable, "pIsAvailable", Kind.isNumber)
	n.isLocked = b.link(n, d.PIsLocked, "pIsLocked", Kind.isNumber)

	for _, name := range d.PSelected {
		t := b.link(n, name, "pSelected", nil)
		if t == nil || t.kind == KindCategory {
			continue
		}
		n.selected = appendUnique(n.selected, t)
		t.selecting = appendUnique(t.selecting, n)
	}

	switch n.kind {
	case KindCategory:
		for _, name := range d.PFeature {
			if t := b.link(n, name, "pFeature", nil); t != nil {
				t.isFeature = true
				n.features = appendUnique(n.features, t)
			}
		}
	case KindPort:
		n.port = &portData{}
	case KindInteger:
		b.configureInteger(n, d)
	case KindFloat:
		b.configureFloat(n, d)
	case KindBoolean:
		b.configureBoolean(n, d)
	case KindString:
		b.configureString(n, d)
	case KindEnumeration:
		b.configureValue(n, d, Kind.isInteger, func(lit string) error {
			v, err := parseInt(lit)
			n.local.i = v
			return err
		})
	case KindEnumEntry:
		b.configureEntry(n, d)
	case KindCommand:
		b.configureValue(n, d, Kind.isInteger, nil)
		n.cmd = &commandData{value: b.intRef(n, d.CommandValue, d.PCommandValue, "CommandValue")}
		if !n.cmd.value.ok {
			b.fail(n.name, "command needs CommandValue or pCommandValue")
		}
	case KindRegister, KindIntReg, KindMaskedIntReg, KindFloatReg, KindStringReg, KindStructEntry:
		b.configureRegister(n, d)
	case KindSwissKnife, KindIntSwissKnife, KindConverter, KindIntConverter:
		b.configureFormula(n, d)
	}
}

// configureValue links pValue or parses the local Value.
func (b *builder) configureValue(n *Node, d *description.NodeDesc, ok func(Kind) bool, local func(string) error) {
	switch {
	case d.PValue != "":
		n.value = ref{node: b.link(n, d.PValue, "pValue", ok), ok: true}
	case local != nil && d.Value != "":
		if err := local(d.Value); err != nil {
			b.fail(n.name, "Value: %v", err)
		}
	case n.kind == KindString || n.kind == KindCommand:
	default:
		b.fail(n.name, "%s needs Value or pValue", n.kind)
	}
}

func (b *builder) configureNumber(n *Node, d *description.NodeDesc) {
	n.num = &numberData{unit: d.Unit, precision: defaultPrecision}
	if d.Representation != "" {
		found := false
		for i, name := range representationNames {
			if name == d.Representation {
				n.num.representation, found = Representation(i), true
			}
		}
		if !found {
			b.fail(n.name, "invalid representation %q", d.Representation)
		}
	}
	switch d.DisplayNotation {
	case "", "Automatic":
	case "Fixed":
		n.num.notation = NotationFixed
	case "Scientific":
		n.num.notation = NotationScientific
	default:
		b.fail(n.name, "invalid display notation %q", d.DisplayNotation)
	}
	if d.DisplayPrecision != nil {
		n.num.precision = *d.DisplayPrecision
	}
}

func (b *builder) configureInteger(n *Node, d *description.NodeDesc) {
	b.configureNumber(n, d)
	b.configureValue(n, d, Kind.isNumber, func(lit string) error {
		v, err := parseIntAs(lit, n.num.representation)
		n.local.i = v
		return err
	})
	n.min = b.intRef(n, d.Min, d.PMin, "Min")
	n.max = b.intRef(n, d.Max, d.PMax, "Max")
	n.inc = b.intRef(n, d.Inc, d.PInc, "Inc")
}

func (b *builder) configureFloat(n *Node, d *description.NodeDesc) {
	b.configureNumber(n, d)
	b.configureValue(n, d, Kind.isNumber, func(lit string) error {
		v, err := parseFloat(lit)
		n.local.f = v
		return err
	})
	n.min = b.floatRef(n, d.Min, d.PMin, "Min")
	n.max = b.floatRef(n, d.Max, d.PMax, "Max")
	n.inc = b.floatRef(n, d.Inc, d.PInc, "Inc")
}

func (b *builder) configureBoolean(n *Node, d *description.NodeDesc) {
	n.boo = &booleanData{on: 1, off: 0}
	var err error
	if d.OnValue != "" {
		if n.boo.on, err = parseInt(d.OnValue); err != nil {
			b.fail(n.name, "OnValue: %v", err)
		}
	}
	if d.OffValue != "" {
		if n.boo.off, err = parseInt(d.OffValue); err != nil {
			b.fail(n.name, "OffValue: %v", err)
		}
	}
	b.configureValue(n, d, Kind.isInteger, func(lit string) error {
		v, err := parseBool(lit)
		n.local.i = n.boo.off
		if v {
			n.local.i = n.boo.on
		}
		return err
	})
}

func (b *builder) configureString(n *Node, d *description.NodeDesc) {
	n.str = &stringData{}
	if d.MaxLength != "" {
		v, err := parseInt(d.MaxLength)
		if err != nil || v <= 0 {
			b.fail(n.name, "invalid MaxLength %q", d.MaxLength)
		}
		n.str.maxLength = v
	}
	b.configureValue(n, d, Kind.isString, nil)
	if n.value.node == nil {
		n.local.s = d.Value
	}
}

func (b *builder) configureEntry(n *Node, d *description.NodeDesc) {
	n.entry.symbolic = d.Symbolic
	if n.entry.symbolic == "" {
		n.entry.symbolic = d.Name
	}
	if d.Value == "" {
		b.fail(n.name, "enum entry needs a Value")
	} else if v, err := parseInt(d.Value); err != nil {
		b.fail(n.name, "Value: %v", err)
	} else {
		n.entry.value = v
	}
	if d.NumericValue != "" {
		f, err := parseFloat(d.NumericValue)
		if err != nil {
			b.fail(n.name, "NumericValue: %v", err)
		}
		n.entry.numeric, n.entry.hasNumeric = f, true
	}
}

func (b *builder) configureRegister(n *Node, d *description.NodeDesc) {
	if n.reg == nil {
		n.reg = &registerData{}
	}
	r := n.reg
	for _, a := range d.Address {
		v, err := parseInt(a)
		if err != nil {
			b.fail(n.name, "Address: %v", err)
			continue
		}
		r.addresses = append(r.addresses, v)
	}
	for _, name := range d.PAddress {
		if t := b.link(n, name, "pAddress", Kind.isNumber); t != nil {
			r.pAddress = append(r.pAddress, t)
		}
	}
	if len(d.Address) == 0 && len(d.PAddress) == 0 {
		b.fail(n.name, "register needs Address or pAddress")
	}
	if d.PIndex != nil {
		r.index = b.link(n, d.PIndex.Node, "pIndex", Kind.isNumber)
		r.offset = b.intRef(n, d.PIndex.Offset, d.PIndex.POffset, "Offset")
		if !r.offset.ok {
			b.fail(n.name, "pIndex needs Offset or pOffset")
		}
	}
	r.length = b.intRef(n, d.Length, d.PLength, "Length")
	if !r.length.ok {
		b.fail(n.name, "register needs Length or pLength")
	}
	if d.PPort == "" {
		b.fail(n.name, "register needs pPort")
	}
	r.port = b.link(n, d.PPort, "pPort", isPort)

	switch d.Sign {
	case "", "Unsigned":
	case "Signed":
		r.signed = true
	default:
		b.fail(n.name, "invalid sign %q", d.Sign)
	}
	switch d.Endianess {
	case "", "LittleEndian":
	case "BigEndian":
		r.order = port.BigEndian
	default:
		b.fail(n.name, "invalid endianess %q", d.Endianess)
	}

	switch n.kind {
	case KindIntReg:
		if r.length.node == nil && r.length.ok && (r.length.i < 1 || r.length.i > 8) {
			b.fail(n.name, "integer register length %d", r.length.i)
		}
	case KindFloatReg:
		if r.length.node == nil && r.length.ok && r.length.i != 4 && r.length.i != 8 {
			b.fail(n.name, "float register length %d", r.length.i)
		}
	case KindMaskedIntReg, KindStructEntry:
		r.masked = true
		switch {
		case d.Bit != nil:
			r.lsb, r.msb = *d.Bit, *d.Bit
		case d.LSB != nil && d.MSB != nil:
			r.lsb, r.msb = *d.LSB, *d.MSB
		default:
			b.fail(n.name, "masked register needs Bit or LSB and MSB")
		}
	}
	if n.kind == KindIntReg || n.kind == KindMaskedIntReg || n.kind == KindStructEntry {
		b.configureNumber(n, d)
	}
}

func (b *builder) configureFormula(n *Node, d *description.NodeDesc) {
	n.fx = &formulaData{}
	for _, v := range d.Variables {
		if t := b.link(n, v.Node, "pVariable "+v.Name, nil); t != nil {
			n.fx.vars = append(n.fx.vars, variable{name: v.Name, node: t})
		}
	}
	def := formula.Definition{}
	for _, c := range d.Constants {
		def.Constants = append(def.Constants, formula.Named{Name: c.Name, Text: c.Text})
	}
	for _, e := range d.Expressions {
		def.Expressions = append(def.Expressions, formula.Named{Name: e.Name, Text: e.Text})
	}
	b.configureNumber(n, d)

	switch n.kind {
	case KindSwissKnife, KindIntSwissKnife:
		def.Formula = d.Formula
		n.fx.from = formula.Compile(def)
		return
	}

	if d.FormulaTo == "" || d.FormulaFrom == "" {
		b.fail(n.name, "converter needs FormulaTo and FormulaFrom")
	}
	from, to := def, def
	from.Formula, to.Formula = d.FormulaFrom, d.FormulaTo
	n.fx.from, n.fx.to = formula.Compile(from), formula.Compile(to)

	if d.PValue == "" {
		b.fail(n.name, "converter needs pValue")
	}
	n.value = ref{node: b.link(n, d.PValue, "pValue", Kind.isNumber), ok: true}

	switch d.Slope {
	case "", "Automatic":
	case "Increasing":
		n.fx.slope = SlopeIncreasing
	case "Decreasing":
		n.fx.slope = SlopeDecreasing
	case "Varying":
		n.fx.slope = SlopeVarying
	default:
		b.fail(n.name, "invalid slope %q", d.Slope)
	}
}

func appendUnique(list []*Node, n *Node) []*Node {
	for _, x := range list {
		if x == n {
			return list
		}
	}
	return append(list, n)
}

// valueDeps are the nodes n reads to produce its value.
func (n *Node) valueDeps() []*Node {
	var deps []*Node
	add := func(d *Node) {
		if d != nil {
			deps = appendUnique(deps, d)
		}
	}
	add(n.value.node)
	if n.fx != nil {
		for _, v := range n.fx.vars {
			add(v.node)
		}
	}
	if n.reg != nil {
		for _, d := range n.reg.addressNodes() {
			add(d)
		}
	}
	return deps
}

// evalDeps are the nodes evaluated when reading n or its access mode. They
// must not form a cycle.
func (n *Node) evalDeps() []*Node {
	deps := n.valueDeps()
	for _, d := range []*Node{n.min.node, n.max.node, n.inc.node, n.isImplemented, n.isAvailable, n.isLocked} {
		if d != nil {
			deps = appendUnique(deps, d)
		}
	}
	if n.cmd != nil && n.cmd.value.node != nil {
		deps = appendUnique(deps, n.cmd.value.node)
	}
	return deps
}

func addDependent(on, n *Node) {
	if on != nil && on != n {
		on.dependents = appendUnique(on.dependents, n)
	}
}

// linkDependents records the reverse edges invalidation travels along.
func (b *builder) linkDependents(n *Node, d *description.NodeDesc) {
	for _, dep := range n.evalDeps() {
		addDependent(dep, n)
	}
	if n.reg != nil {
		addDependent(n.reg.port, n)
		for _, s := range n.reg.siblings {
			addDependent(s, n)
		}
	}
	if n.entry != nil {
		addDependent(n, n.entry.parent)
	}
	for _, s := range n.selected {
		addDependent(n, s)
	}
	for _, name := range d.PInvalidator {
		if t := b.link(n, name, "pInvalidator", nil); t != nil {
			addDependent(t, n)
		}
	}
}

// checkCycles reports every cycle among the evaluation dependencies.
func (b *builder) checkCycles() {
	const (
		white = iota
		grey
		black
	)
	color := make(map[*Node]int)
	var stack []*Node
	var visit func(*Node)
	visit = func(n *Node) {
		color[n] = grey
		stack = append(stack, n)
		deps := n.evalDeps()
		if n.kind == KindCategory {
			// Category access is computed from the features.
			deps = append(deps, n.features...)
		}
		for _, d := range deps {
			switch color[d] {
			case white:
				visit(d)
			case grey:
				var path []string
				for i := len(stack) - 1; i >= 0; i-- {
					path = append([]string{stack[i].name}, path...)
					if stack[i] == d {
						break
					}
				}
				b.fail(n.name, "dependency cycle %s -> %s", strings.Join(path, " -> "), d.name)
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
	}
	for _, n := range b.m.nodes {
		if color[n] == white {
			visit(n)
		}
	}
}

// resolveCaching sets the effective caching mode: the most conservative of
// the node's own mode and those of its value dependencies.
func resolveCaching(n *Node, done map[*Node]bool) CachingMode {
	if done[n] {
		return n.effCaching
	}
	mode := n.caching
	for _, d := range n.valueDeps() {
		mode = conservative(mode, resolveCaching(d, done))
	}
	n.effCaching = mode
	done[n] = true
	return mode
}

// resolveAccessCacheable decides whether the access mode of n may be cached:
// every flag must be cached itself and every contributing node must have a
// cacheable access mode.
func resolveAccessCacheable(n *Node, done map[*Node]bool) bool {
	if done[n] {
		return n.accessCacheable
	}
	done[n] = true
	ok := n.kind != KindCategory && n.kind != KindPort
	for _, f := range []*Node{n.isImplemented, n.isAvailable, n.isLocked} {
		if f != nil && (f.effCaching == NoCache || !resolveAccessCacheable(f, done)) {
			ok = false
		}
	}
	for _, d := range n.valueDeps() {
		if !resolveAccessCacheable(d, done) {
			ok = false
		}
	}
	n.accessCacheable = ok
	return ok
}
