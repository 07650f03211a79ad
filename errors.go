// Package trustify holds the shared error domain type used across the SBOM
// analysis graph engine.
package trustify

import (
	"errors"
	"strings"
)

// Error is the engine's error domain type.
//
// Errors coming from engine components should be inspectable as ([errors.As])
// an *Error at some point in the error chain.
//
// Components should create an Error at the system boundary (e.g. when using a
// database client) and intermediate layers should not wrap in another Error
// except to add additional [ErrorKind] information. Prefer [fmt.Errorf] with
// a "%w" verb over creating a containing Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	switch e.Kind {
	case ErrNotFound,
		ErrInvalid,
		ErrUnresolved,
		ErrBackend,
		ErrCancelled,
		ErrInternal:
		b.WriteString(string(e.Kind))
	default:
		b.WriteString("???")
	}
	b.WriteString("]: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	}
	if e.Message != "" && e.Inner != nil {
		b.WriteString(": ")
	}
	if e.Op == "" && e.Message == "" {
		b.Reset()
	}
	if e.Inner != nil {
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is].
//
// It compares the error kind. Callers should compare against a declared
// [ErrorKind] over a specific error.
func (e *Error) Is(kind error) bool {
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error {
	return e.Inner
}

// ErrorKind represents classes of errors to be checked against.
//
// If unsure which kind applies, use ErrInternal.
type ErrorKind string

// Defined error kinds, per the engine's error handling design:
//
//   - NotFound: query resolved to zero SBOMs, or a specific id is absent.
//   - Invalid: identifier parse error, malformed q=, invalid depth.
//   - Unresolved: an external reference could not be resolved; attached as a
//     warning to the offending result node rather than failing the request.
//   - Backend: any error surfaced unchanged from the relational store.
//   - Cancelled: cooperative cancellation via context.
//   - Internal: a cache or graph invariant violation; always a bug.
var (
	ErrNotFound   = ErrorKind("not_found")
	ErrInvalid    = ErrorKind("invalid")
	ErrUnresolved = ErrorKind("unresolved")
	ErrBackend    = ErrorKind("backend")
	ErrCancelled  = ErrorKind("cancelled")
	ErrInternal   = ErrorKind("internal")
)

// Error implements error.
func (e ErrorKind) Error() string {
	return string(e)
}
