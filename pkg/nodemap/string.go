package nodemap

import (
	"math"
)

// String is the string view of a node.
type String struct{ *Node }

// Value returns the current value.
func (s String) Value(opts ...AccessOption) (string, error) {
	s.m.lock()
	defer s.m.unlock()
	return s.strGet(getConfig(opts))
}

// SetValue writes v.
func (s String) SetValue(v string, opts ...AccessOption) error {
	s.m.lock()
	defer s.m.unlock()
	return s.strSet(v, setConfig(opts))
}

// MaxLength returns the longest value the node accepts, in bytes.
func (s String) MaxLength() (int64, error) {
	s.m.lock()
	defer s.m.unlock()
	return s.maxLength()
}

func (n *Node) strGet(c accessConfig) (string, error) {
	if err := n.checkReadable(); err != nil {
		return "", err
	}
	switch n.kind {
	case KindString:
		if n.value.node != nil {
			return n.value.node.strGet(accessConfig{ignoreCache: c.ignoreCache})
		}
		return n.local.s, nil
	case KindStringReg:
		return n.regStringGet(c)
	}
	return "", newError(LogicalError, n.name, "%s node has no string value", n.kind)
}

func (n *Node) strSet(v string, c accessConfig) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	switch n.kind {
	case KindString:
		limit, err := n.maxLength()
		if err != nil {
			return err
		}
		if int64(len(v)) > limit {
			return newError(OutOfRange, n.name, "string of %d bytes exceeds maximum length %d", len(v), limit)
		}
		if n.value.node != nil {
			return n.value.node.strSet(v, c)
		}
		n.local.s = v
		n.m.changed(n)
		return nil
	case KindStringReg:
		return n.regStringSet(v)
	}
	return newError(AccessError, n.name, "%s node cannot be written as a string", n.kind)
}

func (n *Node) maxLength() (int64, error) {
	switch n.kind {
	case KindStringReg:
		return n.length()
	case KindString:
		if n.str.maxLength > 0 {
			return n.str.maxLength, nil
		}
		if n.value.node != nil {
			return n.value.node.maxLength()
		}
	}
	return math.MaxInt64, nil
}
