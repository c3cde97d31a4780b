// Package fault defines the error taxonomy shared by all operation
// boundaries. Every failure that escapes a store, snapshot, or sync
// operation carries a Kind so callers can distinguish retryable transport
// problems from rejected input without parsing messages.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindInternal covers transaction failures, exceeded time budgets and
	// unexpected persistence errors. Always implies a full rollback.
	KindInternal Kind = iota
	// KindValidation marks malformed input, detected before any mutation.
	KindValidation
	// KindConflict marks an operation that would violate a hierarchy
	// invariant (cross-collection reference, cyclic parent assignment).
	KindConflict
	// KindTransport marks remote-store failures: unreachable server,
	// authentication failure, timeout.
	KindTransport
	// KindNotFound marks an expected object that is absent.
	KindNotFound
)

// String returns a short machine-friendly label for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not found"
	default:
		return "internal"
	}
}

// Error is a classified failure with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
// Returns nil if err is nil.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err. Unclassified errors (including nil
// wrapping mistakes) report KindInternal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
