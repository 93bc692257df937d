package nodemap

import (
	"github.com/nodemap-go/nodemap/pkg/port"
)

// AccessMode is the access a node currently allows.
type AccessMode = port.AccessMode

// Access modes, from most to least restrictive.
const (
	NI = port.AccessNI
	NA = port.AccessNA
	WO = port.AccessWO
	RO = port.AccessRO
	RW = port.AccessRW
)

// Combine returns the access left when both a and b apply. NI absorbs
// everything and NA absorbs the rest; RO and WO together leave nothing.
func Combine(a, b AccessMode) AccessMode {
	switch {
	case a == NI || b == NI:
		return NI
	case a == NA || b == NA:
		return NA
	case a == b:
		return a
	case a == RW:
		return b
	case b == RW:
		return a
	}
	return NA
}

// lockMode applies a true pIsLocked.
func lockMode(a AccessMode) AccessMode {
	switch a {
	case RW:
		return RO
	case WO:
		return NA
	}
	return a
}

// Visibility is the user level a node is meant for.
type Visibility uint8

const (
	Beginner Visibility = iota
	Expert
	Guru
	Invisible
)

// String returns the visibility name.
func (v Visibility) String() string {
	switch v {
	case Expert:
		return "Expert"
	case Guru:
		return "Guru"
	case Invisible:
		return "Invisible"
	default:
		return "Beginner"
	}
}

// ParseVisibility parses a visibility name. The empty string is Beginner.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "", "Beginner":
		return Beginner, true
	case "Expert":
		return Expert, true
	case "Guru":
		return Guru, true
	case "Invisible":
		return Invisible, true
	}
	return Beginner, false
}

// CachingMode governs when a cached value may be reused. The numeric values
// are what the .CachingMode formula suffix yields.
type CachingMode uint8

const (
	NoCache CachingMode = iota
	WriteThrough
	WriteAround
)

// String returns the caching mode name.
func (c CachingMode) String() string {
	switch c {
	case NoCache:
		return "NoCache"
	case WriteAround:
		return "WriteAround"
	default:
		return "WriteThrough"
	}
}

func parseCachingMode(s string) (CachingMode, bool) {
	switch s {
	case "", "WriteThrough":
		return WriteThrough, true
	case "WriteAround":
		return WriteAround, true
	case "NoCache":
		return NoCache, true
	}
	return WriteThrough, false
}

// conservative returns the mode that caches less.
func conservative(a, b CachingMode) CachingMode {
	rank := func(c CachingMode) int {
		switch c {
		case NoCache:
			return 0
		case WriteAround:
			return 1
		}
		return 2
	}
	if rank(b) < rank(a) {
		return b
	}
	return a
}

// accessMode resolves the access mode of n, using the cached result when
// every contributing flag is cacheable.
func (n *Node) accessMode() AccessMode {
	mode, _ := n.accessModeErr()
	return mode
}

// accessModeErr is accessMode that also returns the first error met reading
// an availability or lock flag. A result built on a failed flag read is not
// cached.
func (n *Node) accessModeErr() (AccessMode, error) {
	if n.accessValid {
		return n.access, nil
	}
	mode, err := n.resolveAccess()
	if err == nil && n.accessCacheable {
		n.access, n.accessValid = mode, true
	}
	return mode, err
}

func (n *Node) resolveAccess() (AccessMode, error) {
	if ok, err := flag(n.isImplemented, true); !ok {
		return NI, err
	}
	if ok, err := flag(n.isAvailable, true); !ok {
		return NA, err
	}
	mode := n.intrinsicAccess()
	locked, err := flag(n.isLocked, false)
	if locked {
		mode = lockMode(mode)
	}
	return mode, err
}

// flag reads an availability or lock node as a boolean; unset is the value
// of a missing flag. A flag that cannot be read counts as false.
func flag(f *Node, unset bool) (bool, error) {
	if f == nil {
		return unset, nil
	}
	v, err := f.intGet(accessConfig{})
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (n *Node) intrinsicAccess() AccessMode {
	switch n.kind {
	case KindCategory:
		return n.categoryAccess()
	case KindPort:
		if n.port.conn == nil {
			return NA
		}
		return n.port.conn.AccessMode()
	case KindEnumEntry:
		return RO
	case KindRegister, KindIntReg, KindMaskedIntReg, KindFloatReg, KindStringReg, KindStructEntry:
		mode := Combine(n.declared, n.reg.port.accessMode())
		for _, d := range n.reg.addressNodes() {
			if !d.accessMode().CanRead() {
				return NA
			}
		}
		return mode
	case KindSwissKnife, KindIntSwissKnife:
		if !n.variablesReadable() {
			return NA
		}
		return RO
	case KindConverter, KindIntConverter:
		if !n.variablesReadable() {
			return NA
		}
		return Combine(n.imposed, n.value.node.accessMode())
	}

	// Value nodes.
	if n.value.node != nil {
		return Combine(n.imposed, n.value.node.accessMode())
	}
	return n.imposed
}

func (n *Node) variablesReadable() bool {
	for _, v := range n.fx.vars {
		if !v.node.accessMode().CanRead() {
			return false
		}
	}
	return true
}

// categoryAccess is RO while any feature can be read or written, NI when
// every feature is NI and NA otherwise.
func (n *Node) categoryAccess() AccessMode {
	if len(n.features) == 0 {
		return RO
	}
	allNI := true
	for _, f := range n.features {
		m := f.accessMode()
		if m.CanRead() || m.CanWrite() {
			return RO
		}
		if m != NI {
			allNI = false
		}
	}
	if allNI {
		return NI
	}
	return NA
}
