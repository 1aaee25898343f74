package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotInGraph    = errors.New("object not in graph")
	ErrNoRoots       = errors.New("no root objects")
	ErrNilModel      = errors.New("nil model")
	ErrNotComparable = errors.New("object is not comparable")
	ErrKindConflict  = errors.New("object wrapped as both node and edge")
	ErrInvalidHandle = errors.New("invalid handle")
)

// Error describes a failed graph operation.
type Error struct {
	Op     string // operation that failed, e.g. "wrap", "build"
	Object string // printable form of the offending object
	Handle Handle // offending handle, if any
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Handle != None:
		return fmt.Sprintf("graph %s handle %d: %v", e.Op, e.Handle, e.Cause)
	case e.Object != "":
		return fmt.Sprintf("graph %s %s: %v", e.Op, e.Object, e.Cause)
	default:
		return fmt.Sprintf("graph %s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the cause.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func newError(op string, obj any, cause error) error {
	return &Error{Op: op, Object: describe(obj), Cause: cause}
}

func describe(obj any) string {
	if obj == nil {
		return "<nil>"
	}
	if s, ok := obj.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", obj)
}

// IsNotInGraph reports whether err was caused by an unknown object.
func IsNotInGraph(err error) bool {
	return errors.Is(err, ErrNotInGraph)
}
