package nodemap

import "time"

// Poll advances the polling clock of every polled node by elapsed. A node
// whose polling time is reached has its value chain invalidated, its
// callbacks fired and its clock reset. The map keeps no timers of its own.
func (m *NodeMap) Poll(elapsed time.Duration) {
	m.lock()
	defer m.unlock()
	for _, n := range m.polled {
		n.elapsed += elapsed
		if n.elapsed < n.pollingTime {
			continue
		}
		n.elapsed = 0
		m.debugLog("poll expired", "node", n.name, "pollingTime", n.pollingTime)
		for _, src := range n.valueChain() {
			m.invalidate(src)
		}
	}
}

// valueChain returns n and every node its value is read through.
func (n *Node) valueChain() []*Node {
	var chain []*Node
	seen := make(map[*Node]bool)
	var walk func(*Node)
	walk = func(x *Node) {
		if x == nil || seen[x] {
			return
		}
		seen[x] = true
		chain = append(chain, x)
		walk(x.value.node)
		if x.fx != nil {
			for _, v := range x.fx.vars {
				walk(v.node)
			}
		}
	}
	walk(n)
	return chain
}
