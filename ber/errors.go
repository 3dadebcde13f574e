package ber

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every decode failure. Errors returned by
// this package wrap one of these and can be matched with errors.Is.
var (
	// ErrTruncated indicates fewer octets were available than a
	// declared length required. The caller may retry the whole decode
	// with a complete buffer.
	ErrTruncated = errors.New("ber: truncated input")

	// ErrMalformedEncoding indicates an invalid length form, a wrong
	// element type or count in a fixed-shape value, or (in strict
	// mode) a non-minimal integer encoding.
	ErrMalformedEncoding = errors.New("ber: malformed encoding")

	// ErrTagOverflow indicates a tag or length value that exceeds the
	// range representable by this implementation.
	ErrTagOverflow = errors.New("ber: tag or length overflow")
)

// SyntaxError is the concrete error type returned by the decoder. It
// carries the byte offset at which decoding failed and the field being
// decoded, and wraps one of the sentinel errors above.
type SyntaxError struct {
	// Offset is the byte offset into the input at which the error occurred.
	Offset int
	// Field names the syntactic element being decoded (e.g. "identifier").
	Field string
	// Err is the underlying classification error.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ber: decoding %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

// Unwrap supports errors.Is and errors.As matching against the
// sentinel taxonomy.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxErr(off int, field string, err error) error {
	return &SyntaxError{Offset: off, Field: field, Err: err}
}

func syntaxErrf(off int, field string, sentinel error, format string, args ...any) error {
	wrapped := fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
	return &SyntaxError{Offset: off, Field: field, Err: wrapped}
}
