package driver

import (
	"errors"
	"fmt"
)

// Kind classifies a driver failure.
type Kind string

const (
	KindConnectionReset Kind = "connection-reset"
	KindNoSuchElement   Kind = "no-such-element"
	KindStaleElement    Kind = "stale-element"
	KindTimeout         Kind = "timeout"
	KindUnsupported     Kind = "unsupported"
	KindProtocol        Kind = "protocol"
	KindClosed          Kind = "closed"
)

// Error is raised by driver implementations.
type Error struct {
	Kind    Kind
	Op      string
	Ref     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("driver %s", e.Op)
	if e.Ref != "" {
		s += fmt.Sprintf(" %s", e.Ref)
	}
	s += fmt.Sprintf(" (%s)", e.Kind)
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Category() string { return "driver/" + string(e.Kind) }

// Errorf builds a driver Error.
func Errorf(kind Kind, op string, ref ElementRef, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Ref: ref.String(), Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a driver Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
