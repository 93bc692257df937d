package nodemap

import "strings"

// Register is the raw byte view of a register node.
type Register struct{ *Node }

// Get returns the register bytes. Only plain Register nodes cache raw bytes;
// the typed registers read the port.
func (r Register) Get(opts ...AccessOption) ([]byte, error) {
	r.m.lock()
	defer r.m.unlock()
	if err := r.checkReadable(); err != nil {
		return nil, err
	}
	return r.regBytesGet(getConfig(opts))
}

// Set writes b, which must have the register length.
func (r Register) Set(b []byte) error {
	r.m.lock()
	defer r.m.unlock()
	if err := r.checkWritable(); err != nil {
		return err
	}
	return r.regBytesSet(b)
}

// Address returns the current register address.
func (r Register) Address() (int64, error) {
	r.m.lock()
	defer r.m.unlock()
	return r.address()
}

// Length returns the current register length in bytes.
func (r Register) Length() (int64, error) {
	r.m.lock()
	defer r.m.unlock()
	return r.length()
}

// Category is the view of a node grouping other nodes.
type Category struct{ *Node }

// Features returns the members of the category in declaration order.
func (c Category) Features() []*Node { return append([]*Node(nil), c.features...) }

// ToString renders the value of n as text.
func (n *Node) ToString(opts ...AccessOption) (string, error) {
	n.m.lock()
	defer n.m.unlock()
	c := getConfig(opts)

	switch n.kind {
	case KindRegister:
		if err := n.checkReadable(); err != nil {
			return "", err
		}
		b, err := n.regBytesGet(c)
		if err != nil {
			return "", err
		}
		return formatBytes(b), nil
	case KindString, KindStringReg:
		return n.strGet(c)
	case KindBoolean:
		v, err := n.boolGet(c)
		if err != nil {
			return "", err
		}
		if v {
			return "true", nil
		}
		return "false", nil
	case KindEnumeration:
		e, err := n.currentEntry(c)
		if err != nil {
			return "", err
		}
		return e.entry.symbolic, nil
	case KindEnumEntry:
		return n.entry.symbolic, nil
	case KindFloat, KindFloatReg, KindSwissKnife, KindConverter:
		v, err := n.floatGet(c)
		if err != nil {
			return "", err
		}
		return n.formatFloat(v), nil
	case KindInteger, KindIntReg, KindMaskedIntReg, KindStructEntry, KindIntSwissKnife, KindIntConverter:
		v, err := n.intGet(c)
		if err != nil {
			return "", err
		}
		return formatInt(v, n.representation()), nil
	}
	return "", newError(LogicalError, n.name, "%s node has no value", n.kind)
}

// FromString parses s and writes the result to n.
func (n *Node) FromString(s string, opts ...AccessOption) error {
	n.m.lock()
	defer n.m.unlock()
	c := setConfig(opts)

	switch n.kind {
	case KindRegister:
		b, ok := parseBytes(s)
		if !ok {
			return newError(InvalidArgument, n.name, "invalid register bytes %q", s)
		}
		if err := n.checkWritable(); err != nil {
			return err
		}
		return n.regBytesSet(b)
	case KindString, KindStringReg:
		return n.strSet(s, c)
	case KindBoolean:
		v, err := parseBool(s)
		if err != nil {
			return &Error{Kind: InvalidArgument, Node: n.name, Err: err}
		}
		if err := n.checkWritable(); err != nil {
			return err
		}
		return n.boolSet(v, c)
	case KindEnumeration:
		return n.enumSetSymbolic(strings.TrimSpace(s), c)
	case KindFloat, KindFloatReg, KindConverter:
		v, err := parseFloat(s)
		if err != nil {
			return &Error{Kind: InvalidArgument, Node: n.name, Err: err}
		}
		return n.floatSet(v, c)
	case KindInteger, KindIntReg, KindMaskedIntReg, KindStructEntry, KindIntConverter:
		v, err := parseIntAs(s, n.representation())
		if err != nil {
			return &Error{Kind: InvalidArgument, Node: n.name, Err: err}
		}
		return n.intSet(v, c)
	}
	return newError(AccessError, n.name, "%s node cannot be written", n.kind)
}
