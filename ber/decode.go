package ber

import "bytes"

type decodeOptions struct {
	strictIntegers bool
}

// DecodeOption adjusts decoder behavior.
type DecodeOption func(*decodeOptions)

// WithStrictIntegers rejects non-minimal two's-complement integer
// encodings with ErrMalformedEncoding instead of normalizing them.
func WithStrictIntegers() DecodeOption {
	return func(o *decodeOptions) { o.strictIntegers = true }
}

// Decode parses exactly one BER value from the start of buf and
// returns it with the number of octets consumed. Constructed universal
// content is decoded recursively until its declared length is
// exhausted; non-universal values are returned as Raw for the caller
// to dispatch on. On error no value is returned.
func Decode(buf []byte, opts ...DecodeOption) (Value, int, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return decodeValue(buf, 0, &o)
}

// DecodeAll parses consecutive BER values until buf is exhausted. It
// is the content decode for constructed values whose declared length
// frames the buffer.
func DecodeAll(buf []byte, opts ...DecodeOption) ([]Value, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return decodeAll(buf, 0, &o)
}

func decodeAll(buf []byte, off int, o *decodeOptions) ([]Value, error) {
	var values []Value
	for len(buf) > 0 {
		v, n, err := decodeValue(buf, off, o)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		buf = buf[n:]
		off += n
	}
	return values, nil
}

func decodeValue(buf []byte, off int, o *decodeOptions) (Value, int, error) {
	id, idLen, err := decodeIdentifier(buf, off)
	if err != nil {
		return nil, 0, err
	}
	length, lenLen, err := decodeLength(buf[idLen:], off+idLen)
	if err != nil {
		return nil, 0, err
	}
	start := idLen + lenLen
	if len(buf)-start < length {
		return nil, 0, syntaxErrf(off+start, "content", ErrTruncated,
			"declared length %d exceeds %d available octets", length, len(buf)-start)
	}
	v, err := decodeContent(id, buf[start:start+length], off+start, o)
	if err != nil {
		return nil, 0, err
	}
	return v, start + length, nil
}

// universalDecoders dispatches universal tags to their content
// decoders. Tags absent from the table stay opaque Raw values. The
// table is filled in init because the sequence decoder recurses back
// through decodeContent, which a package-level literal would turn
// into an initialization cycle.
var universalDecoders map[uint32]func(Identifier, []byte, int, *decodeOptions) (Value, error)

func init() {
	universalDecoders = map[uint32]func(Identifier, []byte, int, *decodeOptions) (Value, error){
		TagBoolean:     decodeBooleanContent,
		TagInteger:     decodeIntegerContent,
		TagEnumerated:  decodeEnumeratedContent,
		TagOctetString: decodeOctetStringContent,
		TagSequence:    decodeSequenceContent,
	}
}

func decodeContent(id Identifier, content []byte, off int, o *decodeOptions) (Value, error) {
	if id.Class != ClassUniversal {
		return Raw{ID: id, Content: bytes.Clone(content)}, nil
	}
	dec, ok := universalDecoders[id.Tag]
	if !ok {
		return Raw{ID: id, Content: bytes.Clone(content)}, nil
	}
	return dec(id, content, off, o)
}

func decodeBooleanContent(id Identifier, content []byte, off int, _ *decodeOptions) (Value, error) {
	if id.Constructed {
		return nil, syntaxErrf(off, "boolean", ErrMalformedEncoding, "constructed boolean")
	}
	if len(content) != 1 {
		return nil, syntaxErrf(off, "boolean", ErrMalformedEncoding,
			"boolean content is %d octets, want 1", len(content))
	}
	return Boolean(content[0] != 0x00), nil
}

func decodeIntegerContent(id Identifier, content []byte, off int, o *decodeOptions) (Value, error) {
	if id.Constructed {
		return nil, syntaxErrf(off, "integer", ErrMalformedEncoding, "constructed integer")
	}
	n, err := parseInt64(content, off, "integer", o)
	if err != nil {
		return nil, err
	}
	return Integer(n), nil
}

func decodeEnumeratedContent(id Identifier, content []byte, off int, o *decodeOptions) (Value, error) {
	if id.Constructed {
		return nil, syntaxErrf(off, "enumerated", ErrMalformedEncoding, "constructed enumerated")
	}
	n, err := parseInt64(content, off, "enumerated", o)
	if err != nil {
		return nil, err
	}
	return Enumerated(n), nil
}

func decodeOctetStringContent(id Identifier, content []byte, off int, _ *decodeOptions) (Value, error) {
	// The constructed octet string form is legal BER but excluded by
	// the LDAP abstract syntax.
	if id.Constructed {
		return nil, syntaxErrf(off, "octet string", ErrMalformedEncoding, "constructed octet string")
	}
	return OctetString(bytes.Clone(content)), nil
}

func decodeSequenceContent(id Identifier, content []byte, off int, o *decodeOptions) (Value, error) {
	if !id.Constructed {
		return nil, syntaxErrf(off, "sequence", ErrMalformedEncoding, "primitive sequence")
	}
	values, err := decodeAll(content, off, o)
	if err != nil {
		return nil, err
	}
	return Sequence(values), nil
}

// parseInt64 decodes two's-complement content octets with sign
// extension. Strict mode rejects encodings carrying superfluous
// leading 0x00 or 0xFF octets.
func parseInt64(content []byte, off int, field string, o *decodeOptions) (int64, error) {
	if len(content) == 0 {
		return 0, syntaxErrf(off, field, ErrMalformedEncoding, "zero-length integer")
	}
	if len(content) > 8 {
		return 0, syntaxErr(off, field, ErrTagOverflow)
	}
	if o.strictIntegers && len(content) > 1 {
		if (content[0] == 0x00 && content[1]&0x80 == 0) ||
			(content[0] == 0xff && content[1]&0x80 != 0) {
			return 0, syntaxErrf(off, field, ErrMalformedEncoding, "non-minimal integer encoding")
		}
	}
	var n int64
	for _, b := range content {
		n = n<<8 | int64(b)
	}
	shift := uint(64 - len(content)*8)
	return n << shift >> shift, nil
}
