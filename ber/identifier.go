package ber

import "math"

// Class is the two-bit ASN.1 class of an identifier octet.
type Class uint8

// The four ASN.1 tag classes, in identifier-octet order.
const (
	ClassUniversal   Class = 0
	ClassApplication Class = 1
	ClassContext     Class = 2
	ClassPrivate     Class = 3
)

// String returns the X.680 name of the class.
func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "universal"
	case ClassApplication:
		return "application"
	case ClassContext:
		return "context-specific"
	case ClassPrivate:
		return "private"
	}
	return "unknown"
}

// Universal tag numbers used by the LDAP abstract syntax.
const (
	TagBoolean     uint32 = 0x01
	TagInteger     uint32 = 0x02
	TagOctetString uint32 = 0x04
	TagEnumerated  uint32 = 0x0A
	TagSequence    uint32 = 0x10
	TagSet         uint32 = 0x11
)

// Identifier represents the class, constructed flag, and tag number of
// a BER identifier. Identifiers are value types and are immutable once
// constructed.
type Identifier struct {
	Class       Class
	Constructed bool
	Tag         uint32
}

// appendIdentifier appends the identifier octets for id to dst. Tags
// 0-30 use the single-octet form; larger tags use the high-tag-number
// form with base-128 continuation octets.
func appendIdentifier(dst []byte, id Identifier) []byte {
	b := byte(id.Class) << 6
	if id.Constructed {
		b |= 0x20
	}
	if id.Tag < 0x1f {
		return append(dst, b|byte(id.Tag))
	}
	dst = append(dst, b|0x1f)
	var tmp [5]byte
	i := len(tmp)
	for t := id.Tag; ; t >>= 7 {
		i--
		tmp[i] = byte(t & 0x7f)
		if t < 0x80 {
			break
		}
	}
	for j := i; j < len(tmp)-1; j++ {
		tmp[j] |= 0x80
	}
	return append(dst, tmp[i:]...)
}

// decodeIdentifier reads one identifier from the start of buf and
// returns it with the number of octets consumed. off is the absolute
// offset of buf within the original input, used for error reporting.
func decodeIdentifier(buf []byte, off int) (Identifier, int, error) {
	if len(buf) == 0 {
		return Identifier{}, 0, syntaxErr(off, "identifier", ErrTruncated)
	}
	b := buf[0]
	id := Identifier{
		Class:       Class(b >> 6),
		Constructed: b&0x20 != 0,
		Tag:         uint32(b & 0x1f),
	}
	if id.Tag < 0x1f {
		return id, 1, nil
	}
	// High-tag-number form: 7 bits per continuation octet, MSB set on
	// all but the last. X.690 requires the first octet to be non-zero.
	id.Tag = 0
	n := 1
	for {
		if n >= len(buf) {
			return Identifier{}, 0, syntaxErr(off+n, "identifier", ErrTruncated)
		}
		c := buf[n]
		if n == 1 && c == 0x80 {
			return Identifier{}, 0, syntaxErrf(off+n, "identifier", ErrMalformedEncoding,
				"leading zero octet in high-tag-number form")
		}
		if id.Tag > math.MaxUint32>>7 {
			return Identifier{}, 0, syntaxErr(off+n, "identifier", ErrTagOverflow)
		}
		id.Tag = id.Tag<<7 | uint32(c&0x7f)
		n++
		if c&0x80 == 0 {
			return id, n, nil
		}
	}
}
