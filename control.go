package ldapwire

import (
	"bytes"

	"github.com/netresearch/ldapwire-go/ber"
)

// controlsTag is the context tag reserved for the controls list of a
// message envelope.
const controlsTag uint32 = 0

// Control is one control attached to a message: an OID, a criticality
// flag, and an optional value the codec carries uninterpreted.
type Control struct {
	// OID is the numeric controlType identifier.
	OID string
	// Criticality marks the control as critical; absent on the wire
	// when false (DEFAULT FALSE).
	Criticality bool
	// Value is the opaque controlValue; nil means the field is absent.
	Value []byte
}

// encodeControls wraps the control list in the context-0 constructed
// value the envelope reserves for it.
func encodeControls(controls []Control) ber.Value {
	list := make(ber.Sequence, 0, len(controls))
	for _, c := range controls {
		elements := ber.Sequence{ber.OctetString(c.OID)}
		if c.Criticality {
			elements = append(elements, ber.Boolean(true))
		}
		if c.Value != nil {
			elements = append(elements, ber.OctetString(bytes.Clone(c.Value)))
		}
		list = append(list, elements)
	}
	return ber.Tagged{
		ID:    ber.Identifier{Class: ber.ClassContext, Tag: controlsTag},
		Mode:  ber.Implicit,
		Inner: list,
	}
}

// decodeControls parses the content of the context-0 controls value.
func decodeControls(content []byte, opts ...ber.DecodeOption) ([]Control, error) {
	values, err := ber.DecodeAll(content, opts...)
	if err != nil {
		return nil, err
	}
	controls := make([]Control, 0, len(values))
	for _, v := range values {
		seq, ok := v.(ber.Sequence)
		if !ok {
			return nil, malformedf("control is not a sequence")
		}
		c, err := decodeControl(seq)
		if err != nil {
			return nil, err
		}
		controls = append(controls, c)
	}
	return controls, nil
}

func decodeControl(seq ber.Sequence) (Control, error) {
	if len(seq) == 0 || len(seq) > 3 {
		return Control{}, malformedf("control has %d elements, want 1 to 3", len(seq))
	}
	oid, ok := seq[0].(ber.OctetString)
	if !ok {
		return Control{}, malformedf("control type is not an octet string")
	}
	c := Control{OID: string(oid)}
	rest := seq[1:]
	if len(rest) > 0 {
		if crit, ok := rest[0].(ber.Boolean); ok {
			c.Criticality = bool(crit)
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		value, ok := rest[0].(ber.OctetString)
		if !ok {
			return Control{}, malformedf("control value is not an octet string")
		}
		c.Value = []byte(value)
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return Control{}, malformedf("control has extra elements")
	}
	return c, nil
}
