package nodemap

// Command is the view of a node that triggers an action on the device.
type Command struct{ *Node }

// Execute writes the command value to the backing value.
func (c Command) Execute() error {
	c.m.lock()
	defer c.m.unlock()
	return c.execute()
}

// IsDone reports whether the device has finished the command, which is when
// the backing value no longer equals the command value.
func (c Command) IsDone(opts ...AccessOption) (bool, error) {
	c.m.lock()
	defer c.m.unlock()
	return c.isDone(getConfig(opts))
}

// CommandValue returns the value Execute writes.
func (c Command) CommandValue() (int64, error) {
	c.m.lock()
	defer c.m.unlock()
	return refInt(c.cmd.value)
}

func (n *Node) execute() error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	v, err := refInt(n.cmd.value)
	if err != nil {
		return err
	}
	n.elapsed = 0
	if n.value.node == nil {
		n.local.i = v
		n.m.changed(n)
		return nil
	}
	return n.value.node.intSet(v, accessConfig{})
}

func (n *Node) isDone(c accessConfig) (bool, error) {
	// Local commands and write only triggers complete immediately.
	if n.value.node == nil {
		return true, nil
	}
	if !n.value.node.accessMode().CanRead() {
		return true, nil
	}
	cur, err := n.value.node.intGet(accessConfig{ignoreCache: c.ignoreCache})
	if err != nil {
		return false, err
	}
	v, err := refInt(n.cmd.value)
	if err != nil {
		return false, err
	}
	return cur != v, nil
}
