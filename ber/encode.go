package ber

// Marshal serializes v into identifier, length, and content octets,
// depth-first for constructed values. The returned buffer is ready for
// transport; no streaming encode is performed.
func Marshal(v Value) ([]byte, error) {
	return Append(nil, v)
}

// Append appends the complete encoding of v to dst and returns the
// extended buffer.
func Append(dst []byte, v Value) ([]byte, error) {
	content, err := v.appendContent(nil)
	if err != nil {
		return nil, err
	}
	dst = appendIdentifier(dst, v.Ident())
	dst = appendLength(dst, len(content))
	return append(dst, content...), nil
}

// appendInt64 appends the minimal two's-complement content octets for
// v: no superfluous leading 0x00 or 0xFF octets, at least one octet.
func appendInt64(dst []byte, v int64) []byte {
	n := 1
	for i := v; i > 0x7f || i < -0x80; i >>= 8 {
		n++
	}
	for j := n - 1; j >= 0; j-- {
		dst = append(dst, byte(v>>uint(j*8)))
	}
	return dst
}
