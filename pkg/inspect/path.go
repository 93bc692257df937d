// Package inspect walks the category tree of a node map and renders nodes
// for display.
//
// The inspect package offers a unified interface for:
//   - Parsing path expressions (e.g., "Root/ImageFormatControl/Width")
//   - Resolving node names case-insensitively
//   - Reading, writing and executing nodes by path
//   - Formatting output for display
package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nodemap-go/nodemap/pkg/nodemap"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrNodeNotFound  = errors.New("node not found")
	ErrNotInCategory = errors.New("node is not a feature of the category")
)

// Path is a parsed inspection path: zero or more category names followed by
// a node name, separated by slashes.
type Path struct {
	// Segments are the names along the path. The last one is the target.
	Segments []string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string.
//
// Supported formats:
//   - "Width" - a node anywhere in the map
//   - "ImageFormatControl/Width" - a node that must be a feature of the category
//   - "Root/ImageFormatControl" - a category reached from Root
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	// Check for invalid patterns
	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	p := &Path{Raw: input}
	for _, seg := range strings.Split(input, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" || strings.ContainsAny(seg, " \t") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, input)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// Target returns the name of the node the path points at.
func (p *Path) Target() string {
	return p.Segments[len(p.Segments)-1]
}

// String returns the canonical form of the path.
func (p *Path) String() string {
	return strings.Join(p.Segments, "/")
}

// Resolve finds the node the path points at. Every segment but the last
// must name a category listing the next segment as a feature. Names are
// matched case-insensitively.
func Resolve(m *nodemap.NodeMap, p *Path) (*nodemap.Node, error) {
	var parent *nodemap.Node
	for _, seg := range p.Segments {
		n, ok := ResolveName(m, seg)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, seg)
		}
		if parent != nil && !isFeatureOf(parent, n) {
			return nil, fmt.Errorf("%w: %s is not in %s", ErrNotInCategory, n.Name(), parent.Name())
		}
		parent = n
	}
	return parent, nil
}

func isFeatureOf(parent, n *nodemap.Node) bool {
	if parent.Kind() != nodemap.KindCategory {
		return false
	}
	for _, f := range (nodemap.Category{Node: parent}).Features() {
		if f == n {
			return true
		}
	}
	return false
}
