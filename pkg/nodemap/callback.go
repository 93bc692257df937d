package nodemap

// Callback is called after a node was invalidated or changed. It runs with
// the node map locked and may call back into the map.
type Callback func(n *Node)

// CallbackHandle identifies a registered callback.
type CallbackHandle uint64

type registration struct {
	node *Node
	fn   Callback
}

// Register adds fn to the callbacks of n.
func (m *NodeMap) Register(n *Node, fn Callback) (CallbackHandle, error) {
	if n == nil || fn == nil {
		return 0, newError(InvalidArgument, "", "register needs a node and a callback")
	}
	if n.m != m {
		return 0, newError(InvalidArgument, n.name, "node belongs to another node map")
	}
	m.lock()
	defer m.unlock()
	m.nextHandle++
	h := m.nextHandle
	m.callbacks[h] = registration{node: n, fn: fn}
	n.callbacks = append(n.callbacks, h)
	return h, nil
}

// Deregister removes a callback.
func (m *NodeMap) Deregister(h CallbackHandle) error {
	m.lock()
	defer m.unlock()
	reg, ok := m.callbacks[h]
	if !ok {
		return newError(InvalidArgument, "", "unknown callback handle %d", h)
	}
	delete(m.callbacks, h)
	cbs := reg.node.callbacks
	for i, c := range cbs {
		if c == h {
			reg.node.callbacks = append(cbs[:i:i], cbs[i+1:]...)
			break
		}
	}
	return nil
}

// DeregisterAll removes every callback.
func (m *NodeMap) DeregisterAll() {
	m.lock()
	defer m.unlock()
	for _, reg := range m.callbacks {
		reg.node.callbacks = nil
	}
	m.callbacks = make(map[CallbackHandle]registration)
}
