package ldapwire

import (
	"fmt"

	"github.com/netresearch/ldapwire-go/ber"
)

// Message is the LDAPMessage envelope: a message ID, exactly one
// protocol operation, and an optional control list. The message ID is
// assigned at construction and never changes.
type Message struct {
	messageID int32
	op        Operation
	controls  []Control
}

// MessageOption adjusts a message at construction.
type MessageOption func(*Message)

// WithControls attaches controls to the message in order.
func WithControls(controls ...Control) MessageOption {
	return func(m *Message) { m.controls = append(m.controls, controls...) }
}

// NewRequestMessage builds an outbound request envelope around op,
// allocating a fresh message ID from alloc.
func NewRequestMessage(alloc *MessageIDAllocator, op RequestOperation, opts ...MessageOption) (*Message, error) {
	if alloc == nil {
		return nil, fmt.Errorf("ldapwire: nil message ID allocator")
	}
	if op == nil {
		return nil, fmt.Errorf("ldapwire: nil request operation")
	}
	m := &Message{messageID: alloc.Next(), op: op}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NewResponseMessage builds a response envelope around op. messageID
// is the caller's concern: it is normally copied from the request
// being answered, which this layer does not track.
func NewResponseMessage(messageID int32, op Operation, opts ...MessageOption) (*Message, error) {
	if op == nil {
		return nil, fmt.Errorf("ldapwire: nil response operation")
	}
	if messageID < 1 {
		return nil, fmt.Errorf("%w: %d", ErrMessageIDOutOfRange, messageID)
	}
	m := &Message{messageID: messageID, op: op}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// MessageID returns the envelope's message ID.
func (m *Message) MessageID() int32 { return m.messageID }

// Op returns the protocol operation the envelope carries.
func (m *Message) Op() Operation { return m.op }

// Controls returns the attached controls, nil when absent.
func (m *Message) Controls() []Control { return m.controls }

// Request classifies the operation by the request capability and
// returns it when satisfied.
func (m *Message) Request() (RequestOperation, bool) {
	req, ok := m.op.(RequestOperation)
	return req, ok
}

// Response classifies the operation by the response capability and
// returns it when satisfied.
func (m *Message) Response() (ResponseOperation, bool) {
	resp, ok := m.op.(ResponseOperation)
	return resp, ok
}

// RequestDN returns the target DN of a request operation; ok is false
// for messages carrying a non-request operation.
func (m *Message) RequestDN() (string, bool) {
	req, ok := m.Request()
	if !ok {
		return "", false
	}
	return req.TargetDN(), true
}

// Encode serializes the envelope to a contiguous buffer ready for
// transport: a sequence of the message ID, the application-tagged
// operation, and the context-0 control list when controls are present.
func (m *Message) Encode() ([]byte, error) {
	opValue, err := m.op.encode()
	if err != nil {
		return nil, &MessageError{Op: "Encode", MessageID: m.messageID, Tag: m.op.ApplicationTag(), Err: err}
	}
	elements := ber.Sequence{ber.Integer(m.messageID), opValue}
	if len(m.controls) > 0 {
		elements = append(elements, encodeControls(m.controls))
	}
	buf, err := ber.Marshal(elements)
	if err != nil {
		return nil, &MessageError{Op: "Encode", MessageID: m.messageID, Tag: m.op.ApplicationTag(), Err: err}
	}
	return buf, nil
}

// DecodeMessage parses one complete message from buf. The caller (the
// transport layer) frames the boundary: buf must hold exactly one
// encoded envelope, and trailing octets are rejected. On any failure
// no message is returned.
func DecodeMessage(buf []byte, opts ...ber.DecodeOption) (*Message, error) {
	value, n, err := ber.Decode(buf, opts...)
	if err != nil {
		return nil, &MessageError{Op: "DecodeMessage", Err: err}
	}
	if n != len(buf) {
		return nil, &MessageError{Op: "DecodeMessage",
			Err: malformedf("%d trailing octets after message", len(buf)-n)}
	}
	envelope, ok := value.(ber.Sequence)
	if !ok {
		return nil, &MessageError{Op: "DecodeMessage",
			Err: malformedf("message is not a sequence")}
	}
	if len(envelope) != 2 && len(envelope) != 3 {
		return nil, &MessageError{Op: "DecodeMessage",
			Err: malformedf("message has %d elements, want 2 or 3", len(envelope))}
	}

	id, ok := envelope[0].(ber.Integer)
	if !ok {
		return nil, &MessageError{Op: "DecodeMessage",
			Err: malformedf("message ID is not an integer")}
	}
	if id < 1 || id > MaxMessageID {
		return nil, &MessageError{Op: "DecodeMessage",
			Err: fmt.Errorf("%w: %d", ErrMessageIDOutOfRange, int64(id))}
	}
	messageID := int32(id)

	rawOp, ok := envelope[1].(ber.Raw)
	if !ok || rawOp.ID.Class != ber.ClassApplication {
		return nil, &MessageError{Op: "DecodeMessage", MessageID: messageID,
			Err: malformedf("protocol operation is not application-tagged")}
	}
	decode, ok := operationDecoders[rawOp.ID.Tag]
	if !ok {
		return nil, &MessageError{Op: "DecodeMessage", MessageID: messageID, Tag: rawOp.ID.Tag,
			Err: fmt.Errorf("%w: application tag %d", ErrUnsupportedOperation, rawOp.ID.Tag)}
	}
	op, err := decode(rawOp, opts...)
	if err != nil {
		return nil, &MessageError{Op: "DecodeMessage", MessageID: messageID, Tag: rawOp.ID.Tag, Err: err}
	}

	m := &Message{messageID: messageID, op: op}
	if len(envelope) == 3 {
		rawControls, ok := envelope[2].(ber.Raw)
		if !ok || rawControls.ID.Class != ber.ClassContext ||
			rawControls.ID.Tag != controlsTag || !rawControls.ID.Constructed {
			return nil, &MessageError{Op: "DecodeMessage", MessageID: messageID, Tag: rawOp.ID.Tag,
				Err: malformedf("third element is not a context-0 control list")}
		}
		controls, err := decodeControls(rawControls.Content, opts...)
		if err != nil {
			return nil, &MessageError{Op: "DecodeMessage", MessageID: messageID, Tag: rawOp.ID.Tag, Err: err}
		}
		m.controls = controls
	}
	return m, nil
}
