package nodemap

// Boolean is the boolean view of a node.
type Boolean struct{ *Node }

// Value returns the current value.
func (b Boolean) Value(opts ...AccessOption) (bool, error) {
	b.m.lock()
	defer b.m.unlock()
	return b.boolGet(getConfig(opts))
}

// SetValue writes OnValue for true and OffValue for false.
func (b Boolean) SetValue(v bool, opts ...AccessOption) error {
	b.m.lock()
	defer b.m.unlock()
	if err := b.checkWritable(); err != nil {
		return err
	}
	return b.boolSet(v, setConfig(opts))
}

func (n *Node) boolGet(c accessConfig) (bool, error) {
	if err := n.checkReadable(); err != nil {
		return false, err
	}
	v, err := n.backingInt(c)
	if err != nil {
		return false, err
	}
	switch v {
	case n.boo.on:
		return true, nil
	case n.boo.off:
		return false, nil
	}
	return false, newError(OutOfRange, n.name, "value %d is neither on (%d) nor off (%d)", v, n.boo.on, n.boo.off)
}

func (n *Node) boolSet(v bool, c accessConfig) error {
	raw := n.boo.off
	if v {
		raw = n.boo.on
	}
	if n.value.node != nil {
		return n.value.node.intSet(raw, c)
	}
	n.local.i = raw
	n.m.changed(n)
	return nil
}
