package log

import (
	"time"
)

// Event represents a node map event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the node map instance (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction of port I/O.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Node is the name of the node the event concerns, or the port node for
	// state changes.
	Node string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Port        *PortEvent        `cbor:"10,keyasint,omitempty"` // Port layer
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Map lifecycle
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of port I/O.
type Direction uint8

const (
	// DirectionRead indicates a read from the device.
	DirectionRead Direction = 0
	// DirectionWrite indicates a write to the device.
	DirectionWrite Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "READ"
	case DirectionWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which part of the node map captured the event.
type Layer uint8

const (
	// LayerPort is the register I/O layer (raw bytes).
	LayerPort Layer = 0
	// LayerNode is the node graph (invalidation and callbacks).
	LayerNode Layer = 1
	// LayerMap is the node map facade.
	LayerMap Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerPort:
		return "PORT"
	case LayerNode:
		return "NODE"
	case LayerMap:
		return "MAP"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPortIO indicates a register read or write.
	CategoryPortIO Category = 0
	// CategoryInvalidation indicates a node whose cache was dropped.
	CategoryInvalidation Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
	// CategoryCallback indicates a fired node callback.
	CategoryCallback Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPortIO:
		return "PORT_IO"
	case CategoryInvalidation:
		return "INVALIDATION"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	case CategoryCallback:
		return "CALLBACK"
	default:
		return "UNKNOWN"
	}
}

// MaxPortData is the number of payload bytes kept in a PortEvent.
const MaxPortData = 256

// PortEvent captures one register access.
type PortEvent struct {
	// Address is the device address accessed.
	Address int64 `cbor:"1,keyasint"`

	// Length is the number of bytes accessed.
	Length int64 `cbor:"2,keyasint"`

	// Data is the transferred bytes (may be truncated for large blocks).
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"4,keyasint,omitempty"`
}

// NewPortEvent returns a PortEvent holding a copy of at most MaxPortData
// bytes of data.
func NewPortEvent(address, length int64, data []byte) *PortEvent {
	ev := &PortEvent{Address: address, Length: length}
	if len(data) > MaxPortData {
		data = data[:MaxPortData]
		ev.Truncated = true
	}
	if len(data) > 0 {
		ev.Data = append([]byte(nil), data...)
	}
	return ev
}

// StateChangeEvent captures node map lifecycle events.
type StateChangeEvent struct {
	// State is the new state.
	State State `cbor:"1,keyasint"`

	// Model is the model name of the description.
	Model string `cbor:"2,keyasint,omitempty"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// State is a node map lifecycle state.
type State uint8

const (
	// StateLoaded indicates a description was loaded.
	StateLoaded State = 0
	// StateConnected indicates a port was connected.
	StateConnected State = 1
	// StateDisconnected indicates a port was disconnected.
	StateDisconnected State = 2
	// StateClosed indicates the node map was closed.
	StateClosed State = 3
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoaded:
		return "LOADED"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Kind is the node map error kind (if applicable).
	Kind *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
