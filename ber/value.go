package ber

import "fmt"

// Value is the closed set of ASN.1 value variants this codec encodes
// and decodes. Every value reports its own identifier; constructed
// variants own their children for the lifetime of the parent.
type Value interface {
	// Ident returns the identifier under which the value is encoded.
	Ident() Identifier

	// appendContent appends the value's content octets to dst.
	appendContent(dst []byte) ([]byte, error)
}

// Boolean is a universal BOOLEAN value.
type Boolean bool

// Ident returns the universal primitive BOOLEAN identifier.
func (Boolean) Ident() Identifier { return Identifier{Class: ClassUniversal, Tag: TagBoolean} }

func (b Boolean) appendContent(dst []byte) ([]byte, error) {
	if b {
		return append(dst, 0xff), nil
	}
	return append(dst, 0x00), nil
}

// Integer is a universal INTEGER value. Content octets use minimal
// two's-complement encoding.
type Integer int64

// Ident returns the universal primitive INTEGER identifier.
func (Integer) Ident() Identifier { return Identifier{Class: ClassUniversal, Tag: TagInteger} }

func (i Integer) appendContent(dst []byte) ([]byte, error) {
	return appendInt64(dst, int64(i)), nil
}

// Enumerated is a universal ENUMERATED value. It shares the INTEGER
// content encoding.
type Enumerated int64

// Ident returns the universal primitive ENUMERATED identifier.
func (Enumerated) Ident() Identifier { return Identifier{Class: ClassUniversal, Tag: TagEnumerated} }

func (e Enumerated) appendContent(dst []byte) ([]byte, error) {
	return appendInt64(dst, int64(e)), nil
}

// OctetString is a universal OCTET STRING value.
type OctetString []byte

// Ident returns the universal primitive OCTET STRING identifier.
func (OctetString) Ident() Identifier { return Identifier{Class: ClassUniversal, Tag: TagOctetString} }

func (o OctetString) appendContent(dst []byte) ([]byte, error) {
	return append(dst, o...), nil
}

// Sequence is a universal SEQUENCE value holding an ordered list of
// child values.
type Sequence []Value

// Ident returns the universal constructed SEQUENCE identifier.
func (Sequence) Ident() Identifier {
	return Identifier{Class: ClassUniversal, Constructed: true, Tag: TagSequence}
}

func (s Sequence) appendContent(dst []byte) ([]byte, error) {
	var err error
	for _, el := range s {
		dst, err = Append(dst, el)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// SequenceOf is a homogeneous SEQUENCE OF value: every element must be
// encoded under the same identifier, validated when the element is
// added rather than deferred to encode time.
type SequenceOf struct {
	elem   Identifier
	values []Value
}

// NewSequenceOf returns a SEQUENCE OF accepting only elements encoded
// under elem. It fails if any initial element carries a different
// identifier.
func NewSequenceOf(elem Identifier, values ...Value) (*SequenceOf, error) {
	s := &SequenceOf{elem: elem}
	for _, v := range values {
		if err := s.Add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends v, rejecting values whose identifier differs from the
// element identifier fixed at construction.
func (s *SequenceOf) Add(v Value) error {
	if v.Ident() != s.elem {
		return fmt.Errorf("%w: sequence-of element has identifier %+v, want %+v",
			ErrMalformedEncoding, v.Ident(), s.elem)
	}
	s.values = append(s.values, v)
	return nil
}

// Values returns the ordered elements.
func (s *SequenceOf) Values() []Value { return s.values }

// Ident returns the universal constructed SEQUENCE identifier.
func (*SequenceOf) Ident() Identifier {
	return Identifier{Class: ClassUniversal, Constructed: true, Tag: TagSequence}
}

func (s *SequenceOf) appendContent(dst []byte) ([]byte, error) {
	var err error
	for _, el := range s.values {
		dst, err = Append(dst, el)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// TaggingMode selects how a Tagged value encodes its inner value.
type TaggingMode uint8

const (
	// Implicit replaces the inner value's identifier with the tag,
	// keeping only the inner content octets.
	Implicit TaggingMode = iota
	// Explicit nests the complete inner encoding inside a constructed
	// value carrying the tag.
	Explicit
)

// Tagged wraps exactly one inner value under a class/tag of the
// caller's choosing. The constructed flag of ID is ignored: implicit
// tagging inherits it from the inner value, explicit tagging is always
// constructed.
type Tagged struct {
	ID    Identifier
	Mode  TaggingMode
	Inner Value
}

// Ident returns the effective identifier of the tagged value.
func (t Tagged) Ident() Identifier {
	id := t.ID
	if t.Mode == Explicit {
		id.Constructed = true
	} else {
		id.Constructed = t.Inner.Ident().Constructed
	}
	return id
}

func (t Tagged) appendContent(dst []byte) ([]byte, error) {
	if t.Mode == Explicit {
		return Append(dst, t.Inner)
	}
	return t.Inner.appendContent(dst)
}

// Raw is a value whose content octets are carried uninterpreted. The
// decoder produces Raw for every non-universal value, leaving tag
// dispatch to the protocol layer above.
type Raw struct {
	ID      Identifier
	Content []byte
}

// Ident returns the identifier the raw value was read or will be
// written under.
func (r Raw) Ident() Identifier { return r.ID }

func (r Raw) appendContent(dst []byte) ([]byte, error) {
	return append(dst, r.Content...), nil
}
