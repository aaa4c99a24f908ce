// Package slackerr defines the error taxonomy shared by every container in
// this module: sequence, hashmap, locker, and rwlock all report failure
// through errors constructed here rather than sentinel values, so that
// callers can dispatch on Kind via errors.As.
package slackerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure independently of which component raised it.
type Kind int

const (
	// Invalid covers a nil required handle, an out-of-range index or
	// range, an ownership-collapsing operation (owning destination with a
	// nil copy function, or vice versa), an insert past the end, or a
	// hash function returning an out-of-range bucket.
	Invalid Kind = iota
	// NotFound covers a map lookup or removal for an absent key.
	NotFound
	// Capacity covers allocator/memory exhaustion. Go's runtime panics on
	// true OOM rather than returning it, so this Kind is reserved for
	// callers that plug in their own capacity-bounded allocation (e.g. a
	// Locker backed by a fixed-size resource pool).
	Capacity
	// Timeout covers context cancellation or deadline expiry inside the
	// rwlock package's context-aware acquire paths, and a try-lock in
	// package locker that fails because the lock is already held.
	Timeout
	// IteratorMisuse covers calling Remove on a cursor that has not yet
	// returned an item, or calling the internal-iterator Remove/Next
	// methods when no internal iterator exists.
	IteratorMisuse
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid argument"
	case NotFound:
		return "not found"
	case Capacity:
		return "capacity"
	case Timeout:
		return "timeout"
	case IteratorMisuse:
		return "iterator misuse"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every public operation in
// this module that can fail. Component and Op name where the failure
// occurred (e.g. Component "sequence", Op "InsertRange") so that a caller
// logging the error has enough context without needing to parse the
// message.
type Error struct {
	Kind      Kind
	Component string
	Op        string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Component, e.Op, e.Kind, e.cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Op, e.Kind)
}

// Unwrap lets errors.Is/errors.As see through to a wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a *Error with the same Kind, so that
// callers can write errors.Is(err, slackerr.NotFound) style checks via the
// Sentinel helper below, or errors.As(err, &slackErr) to inspect Kind
// directly.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs an Error of the given Kind with a stack-trace-carrying
// cause captured via github.com/pkg/errors, formatting the message with
// format/args the way fmt.Errorf does.
func New(kind Kind, component, op, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Component: component,
		Op:        op,
		cause:     errors.WithStack(fmt.Errorf(format, args...)),
	}
}

// Wrap is New, but threading an existing error in as the cause (e.g. a
// Locker operation's own error surfacing through a container method).
func Wrap(kind Kind, component, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:      kind,
		Component: component,
		Op:        op,
		cause:     errors.WithStack(err),
	}
}

// Sentinel returns a zero-cause Error of the given Kind, suitable as the
// target of errors.Is(err, slackerr.Sentinel(slackerr.NotFound)).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
