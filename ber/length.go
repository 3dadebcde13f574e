package ber

import "math"

// maxContentLength bounds decoded content lengths to what an LDAP
// message may legally carry (INTEGER (0..maxInt) per RFC 4511).
const maxContentLength = math.MaxInt32

// appendLength appends the definite-form length octets for n to dst:
// short form below 128, long form otherwise.
func appendLength(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}
	var tmp [8]byte
	i := len(tmp)
	for v := n; v > 0; v >>= 8 {
		i--
		tmp[i] = byte(v)
	}
	dst = append(dst, 0x80|byte(len(tmp)-i))
	return append(dst, tmp[i:]...)
}

// decodeLength reads one definite length from the start of buf and
// returns it with the number of octets consumed. The reserved long
// form with zero count octets marks an indefinite length, which this
// codec does not support and rejects. Redundant leading zero count
// octets are accepted (BER does not require a minimal length
// encoding); only the length value itself is bounded.
func decodeLength(buf []byte, off int) (int, int, error) {
	if len(buf) == 0 {
		return 0, 0, syntaxErr(off, "length", ErrTruncated)
	}
	b := buf[0]
	if b < 0x80 {
		return int(b), 1, nil
	}
	n := int(b & 0x7f)
	if n == 0 {
		return 0, 0, syntaxErrf(off, "length", ErrMalformedEncoding,
			"indefinite length is not supported")
	}
	if len(buf) < 1+n {
		return 0, 0, syntaxErr(off+1, "length", ErrTruncated)
	}
	var l uint64
	for i := 0; i < n; i++ {
		l = l<<8 | uint64(buf[1+i])
		if l > maxContentLength {
			return 0, 0, syntaxErr(off, "length", ErrTagOverflow)
		}
	}
	return int(l), 1 + n, nil
}
