package port

import "errors"

// Port moves raw bytes between a node map and the device.
//
// Implementations may block on I/O. A transport that gives up waiting should
// return an error wrapping ErrTimeout.
type Port interface {
	// Read returns length bytes starting at address.
	Read(address, length int64) ([]byte, error)

	// Write stores data starting at address.
	Write(address int64, data []byte) error

	// AccessMode reports the operations the port currently allows.
	AccessMode() AccessMode
}

// Port errors.
var (
	ErrTimeout      = errors.New("port: timeout")
	ErrAccessDenied = errors.New("port: access denied")
	ErrInvalidRange = errors.New("port: invalid address range")
)

// AccessMode is the access a node or port allows. The order of the constants
// matters: it mirrors the numeric encoding exposed to formulas through the
// .AccessMode variable suffix.
type AccessMode uint8

const (
	// AccessNI means not implemented.
	AccessNI AccessMode = iota
	// AccessNA means implemented but not available right now.
	AccessNA
	// AccessWO means write only.
	AccessWO
	// AccessRO means read only.
	AccessRO
	// AccessRW means read and write.
	AccessRW
)

// CanRead returns true for RO and RW.
func (a AccessMode) CanRead() bool { return a == AccessRO || a == AccessRW }

// CanWrite returns true for WO and RW.
func (a AccessMode) CanWrite() bool { return a == AccessWO || a == AccessRW }

// String returns the mode abbreviation.
func (a AccessMode) String() string {
	switch a {
	case AccessNI:
		return "NI"
	case AccessNA:
		return "NA"
	case AccessWO:
		return "WO"
	case AccessRO:
		return "RO"
	case AccessRW:
		return "RW"
	default:
		return "unknown"
	}
}

// ParseAccessMode parses "RW", "RO", "WO", "NA" or "NI".
func ParseAccessMode(s string) (AccessMode, bool) {
	switch s {
	case "RW":
		return AccessRW, true
	case "RO":
		return AccessRO, true
	case "WO":
		return AccessWO, true
	case "NA":
		return AccessNA, true
	case "NI":
		return AccessNI, true
	default:
		return AccessNI, false
	}
}
