package nodemap

import (
	"errors"
	"fmt"

	"github.com/nodemap-go/nodemap/pkg/formula"
	"github.com/nodemap-go/nodemap/pkg/port"
)

// ErrorKind classifies node map errors.
type ErrorKind uint8

const (
	// GenericError is the catch-all kind. errors.Is(err, ErrGeneric) matches
	// every node map error.
	GenericError ErrorKind = iota
	// InvalidArgument reports malformed input: bad strings, unknown enum
	// symbols, unknown nodes.
	InvalidArgument
	// OutOfRange reports a value outside Min, Max or Inc.
	OutOfRange
	// AccessError reports an operation the current access mode forbids.
	AccessError
	// LogicalError reports a broken description or formula: missing links,
	// cycles, division by zero.
	LogicalError
	// TimeoutError reports port I/O that did not complete.
	TimeoutError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case OutOfRange:
		return "out of range"
	case AccessError:
		return "access denied"
	case LogicalError:
		return "logical error"
	case TimeoutError:
		return "timeout"
	default:
		return "generic error"
	}
}

// kindSentinel lets errors.Is match an *Error by kind alone.
type kindSentinel ErrorKind

func (k kindSentinel) Error() string { return "nodemap: " + ErrorKind(k).String() }

// Sentinels for errors.Is.
var (
	ErrGeneric         error = kindSentinel(GenericError)
	ErrInvalidArgument error = kindSentinel(InvalidArgument)
	ErrOutOfRange      error = kindSentinel(OutOfRange)
	ErrAccess          error = kindSentinel(AccessError)
	ErrLogical         error = kindSentinel(LogicalError)
	ErrTimeout         error = kindSentinel(TimeoutError)
)

// Error is returned by every node map operation that fails.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Node is the name of the node the failure was raised at, if any.
	Node string

	// Msg describes the failure.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	s := "nodemap"
	if e.Node != "" {
		s += ": " + e.Node
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels. ErrGeneric matches every kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(kindSentinel)
	if !ok {
		return false
	}
	return ErrorKind(k) == GenericError || ErrorKind(k) == e.Kind
}

func newError(kind ErrorKind, node, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Msg: fmt.Sprintf(format, args...)}
}

// portError classifies an error returned by a port.
func portError(node string, err error) error {
	kind := GenericError
	switch {
	case errors.Is(err, port.ErrTimeout):
		kind = TimeoutError
	case errors.Is(err, port.ErrAccessDenied):
		kind = AccessError
	case errors.Is(err, port.ErrInvalidRange):
		kind = OutOfRange
	}
	return &Error{Kind: kind, Node: node, Msg: "port I/O failed", Err: err}
}

// formulaError keeps the kind of a node error raised while reading a
// variable and reports everything else as a logical error.
func formulaError(node string, err error) error {
	var ne *Error
	if errors.As(err, &ne) {
		return err
	}
	var fe *formula.Error
	if errors.As(err, &fe) {
		return &Error{Kind: LogicalError, Node: node, Msg: "evaluating formula", Err: err}
	}
	return &Error{Kind: LogicalError, Node: node, Err: err}
}
