package ldapwire

import (
	"errors"
	"fmt"

	"github.com/netresearch/ldapwire-go/ber"
)

// Sentinel errors for framing-level decode failures. BER-level
// failures surface the taxonomy of the ber subpackage unchanged.
var (
	// ErrUnsupportedOperation indicates an application tag that maps
	// to no known operation type. The offending tag is carried in the
	// wrapping MessageError.
	ErrUnsupportedOperation = errors.New("ldapwire: unsupported operation")

	// ErrMessageIDOutOfRange indicates a message ID outside
	// [1, MaxMessageID].
	ErrMessageIDOutOfRange = errors.New("ldapwire: message ID out of range")
)

// MessageError decorates a framing failure with the envelope context
// available at the point of failure.
type MessageError struct {
	// Op is the framing operation that failed (e.g. "DecodeMessage").
	Op string
	// MessageID is the message ID of the envelope, if it was decoded.
	MessageID int32
	// Tag is the application tag involved, if any.
	Tag uint32
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *MessageError) Error() string {
	if e.MessageID != 0 {
		return fmt.Sprintf("ldapwire: %s failed for message %d (application tag %d): %v",
			e.Op, e.MessageID, e.Tag, e.Err)
	}
	return fmt.Sprintf("ldapwire: %s failed: %v", e.Op, e.Err)
}

// Unwrap supports errors.Is and errors.As against the sentinel
// taxonomy here and in the ber subpackage.
func (e *MessageError) Unwrap() error {
	return e.Err
}

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ber.ErrMalformedEncoding, fmt.Sprintf(format, args...))
}
