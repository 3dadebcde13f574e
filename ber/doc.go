// Package ber implements the subset of the ASN.1 Basic Encoding Rules
// (Rec. ITU-T X.690) required by the LDAP wire protocol: identifier
// octets (all four classes, high-tag-number form), definite short and
// long form lengths, and the universal primitive and constructed types
// LDAP builds its messages from.
//
// Values are represented as a closed set of variants implementing the
// Value interface. Marshal serializes a value depth-first into
// identifier, length, and content octets; Decode parses exactly one
// encoded value from a byte buffer, recursively decoding constructed
// universal content.
//
// The codec is stateless and safe for concurrent use on independent
// buffers. Indefinite-length encodings are not supported and are
// rejected during decode. Decoding is transactional: on any error no
// partially decoded value is returned.
//
// # Strictness
//
// By default the decoder accepts non-minimal two's-complement integer
// encodings and normalizes them to their numeric value, matching the
// tolerance of widely deployed directory servers. Pass
// WithStrictIntegers to reject them with ErrMalformedEncoding instead.
package ber
