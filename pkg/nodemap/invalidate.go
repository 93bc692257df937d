package nodemap

import (
	"time"

	"github.com/nodemap-go/nodemap/pkg/log"
)

// changed propagates a successful write of origin: everything depending on
// origin is invalidated and origin's own cache is left as the write set it.
func (m *NodeMap) changed(origin *Node) {
	m.propagate(origin, false)
}

// invalidate drops the cache of origin and of everything depending on it.
func (m *NodeMap) invalidate(origin *Node) {
	m.propagate(origin, true)
}

// propagate walks the dependents of origin breadth first. Every reached node
// is queued for notification once per outermost operation.
func (m *NodeMap) propagate(origin *Node, includeOrigin bool) {
	if includeOrigin {
		origin.drop()
	}
	origin.accessValid = false
	m.notify(origin)

	seen := map[*Node]bool{origin: true}
	queue := append([]*Node(nil), origin.dependents...)
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		if seen[d] {
			continue
		}
		seen[d] = true
		d.drop()
		m.notify(d)
		queue = append(queue, d.dependents...)
	}
}

// notify adds n to the set of nodes whose callbacks fire when the outermost
// operation ends.
func (m *NodeMap) notify(n *Node) {
	if m.pendingSet[n] {
		return
	}
	m.pendingSet[n] = true
	m.pending = append(m.pending, n)
	m.events.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: m.session,
		Layer:     log.LayerNode,
		Category:  log.CategoryInvalidation,
		Node:      n.name,
	})
}

// lock enters an operation. Operations nest; the outermost one fires the
// callbacks collected while it ran.
func (m *NodeMap) lock() {
	m.mu.Lock()
	m.ops++
}

func (m *NodeMap) unlock() {
	m.ops--
	if m.ops == 0 && len(m.pending) > 0 {
		pending := m.pending
		m.pending = nil
		m.pendingSet = make(map[*Node]bool)
		m.fire(pending)
	}
	m.mu.Unlock()
}

// fire runs the callbacks of the given nodes in order. The lock is held;
// callbacks may call back into the map.
func (m *NodeMap) fire(nodes []*Node) {
	for _, n := range nodes {
		for _, h := range append([]CallbackHandle(nil), n.callbacks...) {
			reg, ok := m.callbacks[h]
			if !ok {
				continue
			}
			m.events.Log(log.Event{
				Timestamp: time.Now(),
				SessionID: m.session,
				Layer:     log.LayerNode,
				Category:  log.CategoryCallback,
				Node:      n.name,
			})
			reg.fn(n)
		}
	}
}

// InvalidateAll drops every cache in the map and fires every callback.
func (m *NodeMap) InvalidateAll() {
	m.lock()
	defer m.unlock()
	for _, n := range m.nodes {
		n.drop()
		m.notify(n)
	}
}
