package nodemap

// Enumeration is the view of a node that maps symbolic names to integer
// values through its entries.
type Enumeration struct{ *Node }

// EnumEntry is one value of an enumeration.
type EnumEntry struct{ *Node }

// Value returns the integer value of the entry.
func (e EnumEntry) Value() int64 { return e.entry.value }

// NumericValue returns the float alias of the entry, falling back to its
// integer value.
func (e EnumEntry) NumericValue() float64 {
	if e.entry.hasNumeric {
		return e.entry.numeric
	}
	return float64(e.entry.value)
}

// Symbolic returns the name the entry is selected by.
func (e EnumEntry) Symbolic() string { return e.entry.symbolic }

// IsAvailable reports whether the entry can currently be selected.
func (e EnumEntry) IsAvailable() bool { return e.AccessMode().CanRead() }

// IntValue returns the integer value of the current entry.
func (e Enumeration) IntValue(opts ...AccessOption) (int64, error) {
	e.m.lock()
	defer e.m.unlock()
	return e.intGet(getConfig(opts))
}

// SetIntValue selects the entry with value v.
func (e Enumeration) SetIntValue(v int64, opts ...AccessOption) error {
	e.m.lock()
	defer e.m.unlock()
	return e.intSet(v, setConfig(opts))
}

// CurrentEntry returns the entry matching the current value.
func (e Enumeration) CurrentEntry(opts ...AccessOption) (EnumEntry, error) {
	e.m.lock()
	defer e.m.unlock()
	entry, err := e.currentEntry(getConfig(opts))
	if err != nil {
		return EnumEntry{}, err
	}
	return EnumEntry{entry}, nil
}

// Entries returns every entry, available or not.
func (e Enumeration) Entries() []EnumEntry {
	entries := make([]EnumEntry, len(e.enum.entries))
	for i, n := range e.enum.entries {
		entries[i] = EnumEntry{n}
	}
	return entries
}

// Entry returns the entry with the given name or symbolic.
func (e Enumeration) Entry(name string) (EnumEntry, bool) {
	n := e.entryByName(name)
	if n == nil {
		return EnumEntry{}, false
	}
	return EnumEntry{n}, true
}

// EntryByValue returns the entry with integer value v.
func (e Enumeration) EntryByValue(v int64) (EnumEntry, bool) {
	n := e.entryByValue(v)
	if n == nil {
		return EnumEntry{}, false
	}
	return EnumEntry{n}, true
}

// Symbolics returns the symbolics of the available entries.
func (e Enumeration) Symbolics() []string {
	e.m.lock()
	defer e.m.unlock()
	var out []string
	for _, n := range e.enum.entries {
		if n.accessMode().CanRead() {
			out = append(out, n.entry.symbolic)
		}
	}
	return out
}

func (n *Node) entryByName(name string) *Node {
	for _, e := range n.enum.entries {
		if e.entry.symbolic == name || e.name == name {
			return e
		}
	}
	return nil
}

func (n *Node) entryByValue(v int64) *Node {
	for _, e := range n.enum.entries {
		if e.entry.value == v {
			return e
		}
	}
	return nil
}

func (n *Node) currentEntry(c accessConfig) (*Node, error) {
	v, err := n.intGet(c)
	if err != nil {
		return nil, err
	}
	e := n.entryByValue(v)
	if e == nil {
		return nil, newError(AccessError, n.name, "value %d matches no entry", v)
	}
	return e, nil
}

// enumSetInt writes v after checking that an available entry carries it.
func (n *Node) enumSetInt(v int64, c accessConfig) error {
	e := n.entryByValue(v)
	if e == nil {
		return newError(InvalidArgument, n.name, "no entry with value %d", v)
	}
	if !e.accessMode().CanRead() {
		return newError(AccessError, n.name, "entry %s is not available", e.entry.symbolic)
	}
	if n.value.node != nil {
		return n.value.node.intSet(v, c)
	}
	n.local.i = v
	n.m.changed(n)
	return nil
}

// enumSetSymbolic selects the entry called symbolic.
func (n *Node) enumSetSymbolic(symbolic string, c accessConfig) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	e := n.entryByName(symbolic)
	if e == nil {
		return newError(InvalidArgument, n.name, "no entry %q", symbolic)
	}
	return n.enumSetInt(e.entry.value, c)
}
