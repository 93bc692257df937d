package nodemap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nodemap-go/nodemap/internal/reentrant"
	"github.com/nodemap-go/nodemap/pkg/description"
	"github.com/nodemap-go/nodemap/pkg/log"
	"github.com/nodemap-go/nodemap/pkg/port"
)

// NodeMap is a loaded device description. It owns every node, serialises
// access to them and carries the connection to the device ports.
//
// All methods are safe for concurrent use. Calls made from callbacks re-enter
// the lock held by the operation that fired them.
type NodeMap struct {
	mu         reentrant.Mutex
	ops        int
	pending    []*Node
	pendingSet map[*Node]bool

	nodes  []*Node
	byName map[string]*Node
	polled []*Node
	ports  []*Node

	callbacks  map[CallbackHandle]registration
	nextHandle CallbackHandle

	modelName  string
	vendorName string
	toolTip    string
	version    string

	session string
	closed  bool

	// logger is the optional logger for debug output. If nil, logging is
	// disabled.
	logger *slog.Logger

	// events receives captured node map events.
	events log.Logger
}

// Option configures a NodeMap.
type Option func(*NodeMap)

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *NodeMap) { m.logger = logger }
}

// WithEventLogger sets the event capture logger.
func WithEventLogger(events log.Logger) Option {
	return func(m *NodeMap) {
		if events != nil {
			m.events = events
		}
	}
}

// New builds a node map from a description. Every reference is resolved and
// checked; all problems found are returned together as one error matching
// ErrLogical.
func New(desc *description.Description, opts ...Option) (*NodeMap, error) {
	if desc == nil {
		return nil, newError(InvalidArgument, "", "no description")
	}
	m := &NodeMap{
		pendingSet: make(map[*Node]bool),
		byName:     make(map[string]*Node),
		callbacks:  make(map[CallbackHandle]registration),
		modelName:  desc.ModelName,
		vendorName: desc.VendorName,
		toolTip:    desc.ToolTip,
		version:    desc.Version,
		session:    uuid.New().String(),
		events:     log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}

	b := &builder{m: m, descs: make(map[*Node]*description.NodeDesc)}
	if err := b.build(desc); err != nil {
		m.debugLog("load failed", "model", m.modelName, "error", err)
		return nil, &Error{Kind: LogicalError, Msg: "invalid description", Err: err}
	}
	m.debugLog("loaded", "model", m.modelName, "nodes", len(m.nodes), "session", m.session)
	m.logState(log.StateLoaded, "")
	return m, nil
}

// debugLog logs a debug message if logging is enabled.
func (m *NodeMap) debugLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *NodeMap) logState(state log.State, portName string) {
	m.events.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: m.session,
		Layer:     log.LayerMap,
		Category:  log.CategoryState,
		Node:      portName,
		StateChange: &log.StateChangeEvent{
			State: state,
			Model: m.modelName,
		},
	})
}

// ModelName returns the model the description is for.
func (m *NodeMap) ModelName() string { return m.modelName }

// VendorName returns the vendor of the described device.
func (m *NodeMap) VendorName() string { return m.vendorName }

// ToolTip returns the description's short text.
func (m *NodeMap) ToolTip() string { return m.toolTip }

// Version returns the description's schema version.
func (m *NodeMap) Version() string { return m.version }

// SessionID identifies this map in captured events.
func (m *NodeMap) SessionID() string { return m.session }

// Lock takes the map lock. It may be taken again by the same goroutine,
// which allows grouping several operations into one: callbacks are fired
// when the outermost Unlock runs.
func (m *NodeMap) Lock() { m.lock() }

// Unlock releases one level of Lock.
func (m *NodeMap) Unlock() { m.unlock() }

// Node returns the node with the given name.
func (m *NodeMap) Node(name string) (*Node, error) {
	n, ok := m.byName[name]
	if !ok {
		return nil, newError(InvalidArgument, name, "no such node")
	}
	return n, nil
}

// Nodes returns every node in description order.
func (m *NodeMap) Nodes() []*Node {
	return append([]*Node(nil), m.nodes...)
}

func (m *NodeMap) typed(name string, kinds ...Kind) (*Node, error) {
	n, err := m.Node(name)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if n.kind == k {
			return n, nil
		}
	}
	return nil, newError(InvalidArgument, name, "node is a %s", n.kind)
}

// Integer returns an integer view of the named node. Every node with an
// integer value qualifies.
func (m *NodeMap) Integer(name string) (Integer, error) {
	n, err := m.Node(name)
	if err != nil {
		return Integer{}, err
	}
	if !n.kind.isInteger() || n.kind == KindEnumEntry {
		return Integer{}, newError(InvalidArgument, name, "node is a %s", n.kind)
	}
	return Integer{n}, nil
}

// Float returns a float view of the named node.
func (m *NodeMap) Float(name string) (Float, error) {
	n, err := m.typed(name, KindFloat, KindFloatReg, KindSwissKnife, KindConverter)
	return Float{n}, err
}

// Boolean returns a boolean view of the named node.
func (m *NodeMap) Boolean(name string) (Boolean, error) {
	n, err := m.typed(name, KindBoolean)
	return Boolean{n}, err
}

// String returns a string view of the named node.
func (m *NodeMap) String(name string) (String, error) {
	n, err := m.typed(name, KindString, KindStringReg)
	return String{n}, err
}

// Enumeration returns an enumeration view of the named node.
func (m *NodeMap) Enumeration(name string) (Enumeration, error) {
	n, err := m.typed(name, KindEnumeration)
	return Enumeration{n}, err
}

// Command returns a command view of the named node.
func (m *NodeMap) Command(name string) (Command, error) {
	n, err := m.typed(name, KindCommand)
	return Command{n}, err
}

// RawRegister returns a raw byte view of the named register node.
func (m *NodeMap) RawRegister(name string) (Register, error) {
	n, err := m.Node(name)
	if err != nil {
		return Register{}, err
	}
	if !n.kind.IsRegister() {
		return Register{}, newError(InvalidArgument, name, "node is a %s", n.kind)
	}
	return Register{n}, nil
}

// Category returns a category view of the named node.
func (m *NodeMap) Category(name string) (Category, error) {
	n, err := m.typed(name, KindCategory)
	return Category{n}, err
}

// portNode finds the Port node to connect. An empty name selects the only
// port of the map.
func (m *NodeMap) portNode(name string) (*Node, error) {
	if name == "" {
		if len(m.ports) != 1 {
			return nil, newError(InvalidArgument, "", "map has %d ports, name one", len(m.ports))
		}
		return m.ports[0], nil
	}
	return m.typed(name, KindPort)
}

// Connect backs the named Port node with p. Everything read through the port
// is invalidated.
func (m *NodeMap) Connect(p port.Port, portName string) error {
	if p == nil {
		return newError(InvalidArgument, portName, "no port")
	}
	m.lock()
	defer m.unlock()
	if m.closed {
		return newError(LogicalError, portName, "node map is closed")
	}
	n, err := m.portNode(portName)
	if err != nil {
		return err
	}
	n.port.conn = p
	m.invalidate(n)
	m.debugLog("port connected", "port", n.name, "access", p.AccessMode())
	m.logState(log.StateConnected, n.name)
	return nil
}

// Disconnect detaches the named Port node. Registers behind it become NA.
func (m *NodeMap) Disconnect(portName string) error {
	m.lock()
	defer m.unlock()
	n, err := m.portNode(portName)
	if err != nil {
		return err
	}
	if n.port.conn == nil {
		return nil
	}
	n.port.conn = nil
	m.invalidate(n)
	m.debugLog("port disconnected", "port", n.name)
	m.logState(log.StateDisconnected, n.name)
	return nil
}

// Close drops every callback and disconnects every port. The map cannot be
// connected again.
func (m *NodeMap) Close() error {
	m.lock()
	defer m.unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for h, reg := range m.callbacks {
		reg.node.callbacks = nil
		delete(m.callbacks, h)
	}
	for _, n := range m.ports {
		n.port.conn = nil
	}
	for _, n := range m.nodes {
		n.drop()
	}
	m.pending = nil
	m.pendingSet = make(map[*Node]bool)
	m.logState(log.StateClosed, "")
	return nil
}

// Describe returns a one-line summary of the map.
func (m *NodeMap) Describe() string {
	return fmt.Sprintf("%s %s (%d nodes)", m.vendorName, m.modelName, len(m.nodes))
}
