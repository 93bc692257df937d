package nodemap

import (
	"time"

	"github.com/nodemap-go/nodemap/pkg/formula"
	"github.com/nodemap-go/nodemap/pkg/port"
)

// Node is one entry of a node map. Every node has a Kind; the kind decides
// which of the typed views (Integer, Float, ...) can be taken of it.
//
// All methods lock the owning map.
type Node struct {
	m    *NodeMap
	name string
	kind Kind

	namespace   string
	displayName string
	toolTip     string
	description string
	visibility  Visibility
	streamable  bool
	isFeature   bool

	imposed     AccessMode  // ImposedAccessMode, RW when absent
	declared    AccessMode  // register AccessMode, RO when absent
	caching     CachingMode // declared Cachable
	effCaching  CachingMode // most conservative over the value dependencies
	pollingTime time.Duration

	isImplemented *Node
	isAvailable   *Node
	isLocked      *Node

	value         ref // pValue or local Value
	min, max, inc ref

	features  []*Node // category members
	selected  []*Node
	selecting []*Node

	// dependents are invalidated whenever this node is.
	dependents []*Node

	num   *numberData
	boo   *booleanData
	str   *stringData
	enum  *enumData
	entry *entryData
	cmd   *commandData
	reg   *registerData
	fx    *formulaData
	port  *portData

	local           cacheEntry // storage of nodes with a local Value
	cache           cacheEntry
	access          AccessMode
	accessValid     bool
	accessCacheable bool
	elapsed         time.Duration
	callbacks       []CallbackHandle
}

// ref is a poly-reference: a literal or another node.
type ref struct {
	node *Node
	i    int64
	f    float64
	ok   bool
}

// cacheEntry holds the last value of a node.
type cacheEntry struct {
	valid bool
	i     int64
	f     float64
	s     string
	b     []byte
}

// Representation tells user interfaces how to show an integer.
type Representation uint8

const (
	PureNumber Representation = iota
	Linear
	Logarithmic
	BooleanRepresentation
	HexNumber
	IPV4Address
	MACAddress
)

var representationNames = []string{
	"PureNumber", "Linear", "Logarithmic", "Boolean", "HexNumber", "IPV4Address", "MACAddress",
}

// String returns the representation name.
func (r Representation) String() string {
	if int(r) < len(representationNames) {
		return representationNames[r]
	}
	return "PureNumber"
}

// DisplayNotation selects the float format.
type DisplayNotation uint8

const (
	NotationAutomatic DisplayNotation = iota
	NotationFixed
	NotationScientific
)

// String returns the notation name.
func (d DisplayNotation) String() string {
	switch d {
	case NotationFixed:
		return "Fixed"
	case NotationScientific:
		return "Scientific"
	default:
		return "Automatic"
	}
}

// Slope tells how a converter maps the range of its backing value.
type Slope uint8

const (
	SlopeAutomatic Slope = iota
	SlopeIncreasing
	SlopeDecreasing
	SlopeVarying
)

// String returns the slope name.
func (s Slope) String() string {
	switch s {
	case SlopeIncreasing:
		return "Increasing"
	case SlopeDecreasing:
		return "Decreasing"
	case SlopeVarying:
		return "Varying"
	default:
		return "Automatic"
	}
}

type numberData struct {
	representation Representation
	unit           string
	notation       DisplayNotation
	precision      int
}

type booleanData struct {
	on, off int64
}

type stringData struct {
	maxLength int64
}

type enumData struct {
	entries []*Node
}

type entryData struct {
	parent     *Node
	value      int64
	numeric    float64
	hasNumeric bool
	symbolic   string
}

type commandData struct {
	value ref // CommandValue or pCommandValue
}

type registerData struct {
	addresses []int64
	pAddress  []*Node
	index     *Node
	offset    ref
	length    ref
	port      *Node
	signed    bool
	order     port.Endianness

	// Bit field of MaskedIntReg and StructEntry, in the numbering of the
	// register's endianness.
	masked   bool
	lsb, msb int
	siblings []*Node
}

func (r *registerData) addressNodes() []*Node {
	nodes := append([]*Node(nil), r.pAddress...)
	if r.index != nil {
		nodes = append(nodes, r.index)
	}
	if r.offset.node != nil {
		nodes = append(nodes, r.offset.node)
	}
	if r.length.node != nil {
		nodes = append(nodes, r.length.node)
	}
	return nodes
}

type variable struct {
	name string
	node *Node
}

type formulaData struct {
	from  *formula.Program // Formula of a SwissKnife, FormulaFrom of a converter
	to    *formula.Program // FormulaTo of a converter
	vars  []variable
	slope Slope

	// Automatic slope detection, kept until the converter is invalidated.
	slopeKnown bool
	increasing bool
}

type portData struct {
	conn port.Port
}

// accessConfig holds the options of a single Get or Set.
type accessConfig struct {
	verify      bool
	ignoreCache bool
}

// AccessOption modifies a single Get or Set.
type AccessOption func(*accessConfig)

// WithVerify turns range and increment checks on or off. Get defaults to
// false and Set to true.
func WithVerify(verify bool) AccessOption {
	return func(c *accessConfig) { c.verify = verify }
}

// WithIgnoreCache makes a Get bypass the cache.
func WithIgnoreCache() AccessOption {
	return func(c *accessConfig) { c.ignoreCache = true }
}

func getConfig(opts []AccessOption) accessConfig {
	var c accessConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

func setConfig(opts []AccessOption) accessConfig {
	c := accessConfig{verify: true}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// NameSpace returns Standard or Custom.
func (n *Node) NameSpace() string { return n.namespace }

// DisplayName returns the display name, falling back to the name.
func (n *Node) DisplayName() string {
	if n.displayName == "" {
		return n.name
	}
	return n.displayName
}

// ToolTip returns the short description.
func (n *Node) ToolTip() string { return n.toolTip }

// Description returns the long description.
func (n *Node) Description() string { return n.description }

// Visibility returns the user level of the node.
func (n *Node) Visibility() Visibility { return n.visibility }

// IsStreamable reports whether the node takes part in feature persistence.
func (n *Node) IsStreamable() bool { return n.streamable }

// IsFeature reports whether a category lists the node.
func (n *Node) IsFeature() bool { return n.isFeature }

// PollingTime returns the polling interval, zero if the node is not polled.
func (n *Node) PollingTime() time.Duration { return n.pollingTime }

// Map returns the node map the node belongs to.
func (n *Node) Map() *NodeMap { return n.m }

// AccessMode returns the current access mode.
func (n *Node) AccessMode() AccessMode {
	n.m.lock()
	defer n.m.unlock()
	return n.accessMode()
}

// IsReadable reports whether the node can be read right now.
func (n *Node) IsReadable() bool { return n.AccessMode().CanRead() }

// IsWritable reports whether the node can be written right now.
func (n *Node) IsWritable() bool { return n.AccessMode().CanWrite() }

// IsAccessModeCacheable reports whether the access mode may be reused until
// the next invalidation.
func (n *Node) IsAccessModeCacheable() bool { return n.accessCacheable }

// CachingMode returns the effective caching mode.
func (n *Node) CachingMode() CachingMode { return n.effCaching }

// IsCacheable reports whether values of the node are cached at all.
func (n *Node) IsCacheable() bool { return n.effCaching != NoCache }

// SelectedFeatures returns the nodes this node selects.
func (n *Node) SelectedFeatures() []*Node { return append([]*Node(nil), n.selected...) }

// SelectingFeatures returns the selectors of this node.
func (n *Node) SelectingFeatures() []*Node { return append([]*Node(nil), n.selecting...) }

// IsSelector reports whether the node selects other nodes.
func (n *Node) IsSelector() bool { return len(n.selected) > 0 }

// Invalidate drops the cached value of the node, of the nodes its value is
// read through and of everything depending on them, then fires the callbacks
// of every affected node.
func (n *Node) Invalidate() {
	n.m.lock()
	defer n.m.unlock()
	for _, src := range n.valueChain() {
		n.m.invalidate(src)
	}
}

// checkReadable fails with AccessError, or with the error of an
// availability flag that could not be read and so made n inaccessible.
func (n *Node) checkReadable() error {
	if mode, err := n.accessModeErr(); !mode.CanRead() {
		if err != nil {
			return err
		}
		return newError(AccessError, n.name, "node is not readable (%s)", mode)
	}
	return nil
}

func (n *Node) checkWritable() error {
	if mode, err := n.accessModeErr(); !mode.CanWrite() {
		if err != nil {
			return err
		}
		return newError(AccessError, n.name, "node is not writable (%s)", mode)
	}
	return nil
}

// cached reports whether a Get may be served from the cache.
func (n *Node) cached(c accessConfig) bool {
	return !c.ignoreCache && n.effCaching != NoCache && n.cache.valid
}

// store fills the cache after a successful read.
func (n *Node) store(e cacheEntry) {
	if n.effCaching == NoCache {
		return
	}
	e.valid = true
	n.cache = e
}

// written updates the cache after a successful write and propagates the
// change.
func (n *Node) written(e cacheEntry) {
	if n.effCaching == WriteThrough {
		e.valid = true
		n.cache = e
	} else {
		n.cache = cacheEntry{}
	}
	n.m.changed(n)
}

// drop forgets cached state.
func (n *Node) drop() {
	n.cache = cacheEntry{}
	n.accessValid = false
	if n.fx != nil {
		n.fx.slopeKnown = false
	}
}
