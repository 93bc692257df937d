package inspect

import (
	"errors"
	"fmt"

	"github.com/nodemap-go/nodemap/pkg/nodemap"
)

// Inspector errors.
var (
	ErrNotACategory   = errors.New("node is not a category")
	ErrNotACommand    = errors.New("node is not a command")
	ErrNotInspectable = errors.New("node has no value")
)

// Inspector provides inspection and mutation capabilities for a node map.
type Inspector struct {
	m *nodemap.NodeMap

	// MaxVisibility hides nodes meant for a more experienced user.
	MaxVisibility nodemap.Visibility
}

// NewInspector creates a new Inspector showing every visibility level up to
// Guru.
func NewInspector(m *nodemap.NodeMap) *Inspector {
	return &Inspector{m: m, MaxVisibility: nodemap.Guru}
}

// Map returns the underlying node map.
func (i *Inspector) Map() *nodemap.NodeMap {
	return i.m
}

// CategoryInfo represents a category and everything below it.
type CategoryInfo struct {
	Name          string
	DisplayName   string
	Access        nodemap.AccessMode
	Features      []NodeInfo
	Subcategories []CategoryInfo
}

// NodeInfo represents a node for display.
type NodeInfo struct {
	Name        string
	DisplayName string
	ToolTip     string
	Kind        nodemap.Kind
	Access      nodemap.AccessMode
	Visibility  nodemap.Visibility
	Unit        string

	// Value is the ToString form of the node, empty when it cannot be read.
	Value string

	// Err is the error reading the value, if any.
	Err error

	// Min and Max are set for readable numeric nodes.
	Min, Max string

	// Entries lists the available symbolics of an enumeration.
	Entries []string

	// Selected lists the nodes a selector selects.
	Selected []string
}

// Tree returns the category tree below root, skipping hidden nodes.
func (i *Inspector) Tree(root string) (*CategoryInfo, error) {
	n, err := i.m.Node(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, root)
	}
	if n.Kind() != nodemap.KindCategory {
		return nil, fmt.Errorf("%w: %s", ErrNotACategory, root)
	}
	info := i.category(n)
	return &info, nil
}

// category describes n and its features. Loading rejects category cycles,
// so the walk terminates.
func (i *Inspector) category(n *nodemap.Node) CategoryInfo {
	info := CategoryInfo{
		Name:        n.Name(),
		DisplayName: n.DisplayName(),
		Access:      n.AccessMode(),
	}
	for _, f := range (nodemap.Category{Node: n}).Features() {
		if f.Visibility() > i.MaxVisibility {
			continue
		}
		if f.Kind() == nodemap.KindCategory {
			info.Subcategories = append(info.Subcategories, i.category(f))
			continue
		}
		info.Features = append(info.Features, i.describe(f))
	}
	return info
}

// InspectNode returns information about the node a path points at.
func (i *Inspector) InspectNode(path string) (*NodeInfo, error) {
	n, err := i.resolve(path)
	if err != nil {
		return nil, err
	}
	info := i.describe(n)
	return &info, nil
}

func (i *Inspector) resolve(path string) (*nodemap.Node, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return Resolve(i.m, p)
}

// describe collects the display information of n. A node that cannot be
// read is still described; the read error is kept in Err.
func (i *Inspector) describe(n *nodemap.Node) NodeInfo {
	info := NodeInfo{
		Name:        n.Name(),
		DisplayName: n.DisplayName(),
		ToolTip:     n.ToolTip(),
		Kind:        n.Kind(),
		Access:      n.AccessMode(),
		Visibility:  n.Visibility(),
		Entries:     EntryNames(n),
	}
	for _, s := range n.SelectedFeatures() {
		info.Selected = append(info.Selected, s.Name())
	}

	switch n.Kind() {
	case nodemap.KindCategory, nodemap.KindPort, nodemap.KindCommand:
		return info
	}
	if !info.Access.CanRead() {
		return info
	}
	info.Value, info.Err = n.ToString()

	switch n.Kind() {
	case nodemap.KindInteger, nodemap.KindIntReg, nodemap.KindMaskedIntReg, nodemap.KindStructEntry,
		nodemap.KindIntSwissKnife, nodemap.KindIntConverter:
		v := nodemap.Integer{Node: n}
		info.Unit = v.Unit()
		if lo, err := v.Min(); err == nil {
			info.Min = fmt.Sprint(lo)
		}
		if hi, err := v.Max(); err == nil {
			info.Max = fmt.Sprint(hi)
		}
	case nodemap.KindFloat, nodemap.KindFloatReg, nodemap.KindSwissKnife, nodemap.KindConverter:
		v := nodemap.Float{Node: n}
		info.Unit = v.Unit()
		if lo, err := v.Min(); err == nil {
			info.Min = fmt.Sprint(lo)
		}
		if hi, err := v.Max(); err == nil {
			info.Max = fmt.Sprint(hi)
		}
	}
	return info
}

// Read returns the ToString form of the node a path points at.
func (i *Inspector) Read(path string, opts ...nodemap.AccessOption) (string, error) {
	n, err := i.resolve(path)
	if err != nil {
		return "", err
	}
	switch n.Kind() {
	case nodemap.KindCategory, nodemap.KindPort, nodemap.KindCommand:
		return "", fmt.Errorf("%w: %s is a %s", ErrNotInspectable, n.Name(), n.Kind())
	}
	return n.ToString(opts...)
}

// Write parses value with FromString and writes it to the node a path
// points at.
func (i *Inspector) Write(path, value string, opts ...nodemap.AccessOption) error {
	n, err := i.resolve(path)
	if err != nil {
		return err
	}
	return n.FromString(value, opts...)
}

// Execute runs the command a path points at.
func (i *Inspector) Execute(path string) error {
	n, err := i.resolve(path)
	if err != nil {
		return err
	}
	cmd, err := i.m.Command(n.Name())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotACommand, n.Name())
	}
	return cmd.Execute()
}

// IsDone reports whether the command a path points at has finished.
func (i *Inspector) IsDone(path string) (bool, error) {
	n, err := i.resolve(path)
	if err != nil {
		return false, err
	}
	cmd, err := i.m.Command(n.Name())
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrNotACommand, n.Name())
	}
	return cmd.IsDone()
}
