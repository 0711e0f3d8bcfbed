// Package addrerr defines the structured error type shared by the address
// derivation packages.
//
// Errors are created by the component that detects the problem and are
// returned unchanged by every layer above it, so a caller can report a single
// "invalid input" outcome and still log the original cause.
package addrerr

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind rather than matching error strings.
type Kind string

const (
	// KindInvalidKeyMaterial covers malformed hex, wrong-length points or
	// hashes, and curve-membership failures.
	KindInvalidKeyMaterial Kind = "InvalidKeyMaterial"
	// KindInvalidInputBits is returned when a regrouping input value does not
	// fit in the declared source width.
	KindInvalidInputBits Kind = "InvalidInputBits"
	// KindNonCanonicalPadding is returned when an unpadded regrouping leaves
	// too many or non-zero trailing bits.
	KindNonCanonicalPadding Kind = "NonCanonicalPadding"
	// KindChecksumMismatch is returned when the checksum codec rejects an
	// address string.
	KindChecksumMismatch Kind = "ChecksumMismatch"
)

// Error is the structured error type.
//
// Op names the operation that failed (for example "regroup.Convert").
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a *Error without a cause.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Message: msg}
}

// Wrap returns a *Error carrying cause. A nil cause behaves like New.
func Wrap(kind Kind, op, msg string, cause error) error {
	if cause == nil {
		return New(kind, op, msg)
	}
	return &Error{Kind: kind, Op: op, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// ParseKind maps a Kind string back onto a known Kind.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindInvalidKeyMaterial, KindInvalidInputBits, KindNonCanonicalPadding, KindChecksumMismatch:
		return k, true
	default:
		return "", false
	}
}
