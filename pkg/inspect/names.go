package inspect

import (
	"sort"
	"strings"

	"github.com/nodemap-go/nodemap/pkg/nodemap"
)

// ResolveName resolves a node name, preferring an exact match and falling
// back to a case-insensitive one.
func ResolveName(m *nodemap.NodeMap, name string) (*nodemap.Node, bool) {
	if n, err := m.Node(name); err == nil {
		return n, true
	}
	lname := strings.ToLower(name)
	for _, n := range m.Nodes() {
		if strings.ToLower(n.Name()) == lname {
			return n, true
		}
	}
	return nil, false
}

// CompleteName returns the sorted names of the visible nodes starting with
// prefix, ignoring case. Entry nodes and nodes above maxVisibility are left
// out.
func CompleteName(m *nodemap.NodeMap, prefix string, maxVisibility nodemap.Visibility) []string {
	lprefix := strings.ToLower(prefix)
	var names []string
	for _, n := range m.Nodes() {
		if n.Kind() == nodemap.KindEnumEntry || n.Visibility() > maxVisibility {
			continue
		}
		if strings.HasPrefix(strings.ToLower(n.Name()), lprefix) {
			names = append(names, n.Name())
		}
	}
	sort.Strings(names)
	return names
}

// EntryNames returns the symbolics of the available entries of an
// enumeration, or nil for any other node.
func EntryNames(n *nodemap.Node) []string {
	if n.Kind() != nodemap.KindEnumeration {
		return nil
	}
	return nodemap.Enumeration{Node: n}.Symbolics()
}
