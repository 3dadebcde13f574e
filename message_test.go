package ldapwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netresearch/ldapwire-go/ber"
)

func TestRequestMessageRoundTrip(t *testing.T) {
	alloc := NewMessageIDAllocator()
	msg, err := NewRequestMessage(alloc, BindRequest{
		Version:  3,
		Name:     "cn=admin,dc=example,dc=com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), msg.MessageID())

	wire, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := DecodeMessage(wire)
	require.NoError(t, err)
	assert.Equal(t, int32(1), decoded.MessageID())
	assert.Empty(t, decoded.Controls())

	req, ok := decoded.Request()
	require.True(t, ok)
	assert.Equal(t, uint32(ApplicationBindRequest), req.ApplicationTag())

	bind, ok := decoded.Op().(*BindRequest)
	require.True(t, ok)
	assert.Equal(t, 3, bind.Version)
	assert.Equal(t, "cn=admin,dc=example,dc=com", bind.Name)
	assert.Equal(t, "secret", bind.Password)

	dn, ok := decoded.RequestDN()
	require.True(t, ok)
	assert.Equal(t, "cn=admin,dc=example,dc=com", dn)

	_, ok = decoded.Response()
	assert.False(t, ok)
}

func TestResponseMessageRoundTrip(t *testing.T) {
	msg, err := NewResponseMessage(7, SearchResultDone{Result{
		Code:              ResultSuccess,
		MatchedDN:         "",
		DiagnosticMessage: "",
	}})
	require.NoError(t, err)

	wire, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := DecodeMessage(wire)
	require.NoError(t, err)
	assert.Equal(t, int32(7), decoded.MessageID())

	resp, ok := decoded.Response()
	require.True(t, ok)
	result := resp.LDAPResult()
	assert.Equal(t, ResultSuccess, result.Code)
	assert.Equal(t, "", result.MatchedDN)
	assert.Equal(t, "", result.DiagnosticMessage)
	assert.Empty(t, result.Referrals)

	_, ok = decoded.RequestDN()
	assert.False(t, ok)
}

func TestUnknownApplicationTag(t *testing.T) {
	// AddResponse (tag 9) is outside the dispatch table; build its
	// envelope by hand.
	content, err := ber.Append(nil, ber.Enumerated(0))
	require.NoError(t, err)
	content, err = ber.Append(content, ber.OctetString(""))
	require.NoError(t, err)
	content, err = ber.Append(content, ber.OctetString(""))
	require.NoError(t, err)

	wire, err := ber.Marshal(ber.Sequence{
		ber.Integer(5),
		ber.Raw{
			ID:      ber.Identifier{Class: ber.ClassApplication, Constructed: true, Tag: 9},
			Content: content,
		},
	})
	require.NoError(t, err)

	msg, err := DecodeMessage(wire)
	require.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Nil(t, msg)

	var msgErr *MessageError
	require.ErrorAs(t, err, &msgErr)
	assert.Equal(t, uint32(9), msgErr.Tag)
	assert.Equal(t, int32(5), msgErr.MessageID)
}

func TestControlListOptionality(t *testing.T) {
	t.Run("absent controls stay absent", func(t *testing.T) {
		msg, err := NewResponseMessage(3, ModifyResponse{Result{Code: ResultSuccess}})
		require.NoError(t, err)
		wire, err := msg.Encode()
		require.NoError(t, err)

		decoded, err := DecodeMessage(wire)
		require.NoError(t, err)
		assert.Nil(t, decoded.Controls())
	})

	t.Run("single control recovered unchanged", func(t *testing.T) {
		paging := Control{
			OID:         "1.2.840.113556.1.4.319",
			Criticality: true,
			Value:       []byte{0x30, 0x05, 0x02, 0x01, 0x64, 0x04, 0x00},
		}
		msg, err := NewResponseMessage(4, ModifyResponse{Result{Code: ResultSuccess}},
			WithControls(paging))
		require.NoError(t, err)
		wire, err := msg.Encode()
		require.NoError(t, err)

		decoded, err := DecodeMessage(wire)
		require.NoError(t, err)
		require.Len(t, decoded.Controls(), 1)
		assert.Equal(t, paging, decoded.Controls()[0])
	})

	t.Run("criticality default false is omitted and restored", func(t *testing.T) {
		c := Control{OID: "2.16.840.1.113730.3.4.2"}
		msg, err := NewResponseMessage(5, ModifyResponse{Result{Code: ResultSuccess}},
			WithControls(c))
		require.NoError(t, err)
		wire, err := msg.Encode()
		require.NoError(t, err)

		decoded, err := DecodeMessage(wire)
		require.NoError(t, err)
		require.Len(t, decoded.Controls(), 1)
		assert.Equal(t, c, decoded.Controls()[0])
		assert.False(t, decoded.Controls()[0].Criticality)
		assert.Nil(t, decoded.Controls()[0].Value)
	})
}

func TestDecodeMessageTruncated(t *testing.T) {
	msg, err := NewResponseMessage(9, SearchResultDone{Result{Code: ResultNoSuchObject,
		MatchedDN: "dc=example,dc=com", DiagnosticMessage: "no such entry"}})
	require.NoError(t, err)
	wire, err := msg.Encode()
	require.NoError(t, err)

	for cut := 1; cut < len(wire); cut++ {
		decoded, err := DecodeMessage(wire[:cut])
		require.ErrorIs(t, err, ber.ErrTruncated, "cut at %d", cut)
		require.Nil(t, decoded)
	}
}

func TestDecodeMessageMalformed(t *testing.T) {
	encodeEnvelope := func(t *testing.T, elements ber.Sequence) []byte {
		t.Helper()
		wire, err := ber.Marshal(elements)
		require.NoError(t, err)
		return wire
	}
	bindOp := func(t *testing.T) ber.Value {
		t.Helper()
		op, err := BindRequest{Version: 3}.encode()
		require.NoError(t, err)
		return op
	}

	t.Run("message ID zero", func(t *testing.T) {
		wire := encodeEnvelope(t, ber.Sequence{ber.Integer(0), bindOp(t)})
		_, err := DecodeMessage(wire)
		require.ErrorIs(t, err, ErrMessageIDOutOfRange)
	})

	t.Run("message ID above maximum", func(t *testing.T) {
		wire := encodeEnvelope(t, ber.Sequence{ber.Integer(int64(MaxMessageID) + 1), bindOp(t)})
		_, err := DecodeMessage(wire)
		require.ErrorIs(t, err, ErrMessageIDOutOfRange)
	})

	t.Run("message ID not an integer", func(t *testing.T) {
		wire := encodeEnvelope(t, ber.Sequence{ber.OctetString("1"), bindOp(t)})
		_, err := DecodeMessage(wire)
		require.ErrorIs(t, err, ber.ErrMalformedEncoding)
	})

	t.Run("single element envelope", func(t *testing.T) {
		wire := encodeEnvelope(t, ber.Sequence{ber.Integer(1)})
		_, err := DecodeMessage(wire)
		require.ErrorIs(t, err, ber.ErrMalformedEncoding)
	})

	t.Run("operation not application tagged", func(t *testing.T) {
		wire := encodeEnvelope(t, ber.Sequence{ber.Integer(1), ber.OctetString("op")})
		_, err := DecodeMessage(wire)
		require.ErrorIs(t, err, ber.ErrMalformedEncoding)
	})

	t.Run("third element with wrong context tag", func(t *testing.T) {
		wire := encodeEnvelope(t, ber.Sequence{
			ber.Integer(1),
			bindOp(t),
			ber.Tagged{
				ID:    ber.Identifier{Class: ber.ClassContext, Tag: 1},
				Mode:  ber.Implicit,
				Inner: ber.Sequence{},
			},
		})
		_, err := DecodeMessage(wire)
		require.ErrorIs(t, err, ber.ErrMalformedEncoding)
	})

	t.Run("trailing octets", func(t *testing.T) {
		msg, err := NewResponseMessage(1, ModifyResponse{Result{Code: ResultSuccess}})
		require.NoError(t, err)
		wire, err := msg.Encode()
		require.NoError(t, err)
		_, err = DecodeMessage(append(wire, 0x00))
		require.ErrorIs(t, err, ber.ErrMalformedEncoding)
	})

	t.Run("not a sequence", func(t *testing.T) {
		wire, err := ber.Marshal(ber.OctetString("not a message"))
		require.NoError(t, err)
		_, err = DecodeMessage(wire)
		require.ErrorIs(t, err, ber.ErrMalformedEncoding)
	})
}

func TestStrictIntegersReachOperationPayload(t *testing.T) {
	// Bind request whose version integer carries a superfluous leading
	// zero octet; the envelope's own integers stay minimal.
	content := []byte{0x02, 0x02, 0x00, 0x03}
	content, err := ber.Append(content, ber.OctetString("cn=admin,dc=example,dc=com"))
	require.NoError(t, err)
	content, err = ber.Append(content, ber.Tagged{
		ID:    ber.Identifier{Class: ber.ClassContext, Tag: 0},
		Mode:  ber.Implicit,
		Inner: ber.OctetString("pw"),
	})
	require.NoError(t, err)

	wire, err := ber.Marshal(ber.Sequence{
		ber.Integer(1),
		ber.Raw{
			ID:      ber.Identifier{Class: ber.ClassApplication, Constructed: true, Tag: ApplicationBindRequest},
			Content: content,
		},
	})
	require.NoError(t, err)

	t.Run("lax decode normalizes the version", func(t *testing.T) {
		msg, err := DecodeMessage(wire)
		require.NoError(t, err)
		bind, ok := msg.Op().(*BindRequest)
		require.True(t, ok)
		assert.Equal(t, 3, bind.Version)
	})

	t.Run("strict decode rejects it", func(t *testing.T) {
		msg, err := DecodeMessage(wire, ber.WithStrictIntegers())
		require.ErrorIs(t, err, ber.ErrMalformedEncoding)
		assert.Nil(t, msg)
	})
}

func TestRequestMessageValidation(t *testing.T) {
	_, err := NewRequestMessage(nil, BindRequest{Version: 3})
	require.Error(t, err)

	_, err = NewRequestMessage(NewMessageIDAllocator(), nil)
	require.Error(t, err)
}

func TestResponseMessageValidation(t *testing.T) {
	_, err := NewResponseMessage(0, ModifyResponse{})
	require.ErrorIs(t, err, ErrMessageIDOutOfRange)

	_, err = NewResponseMessage(-5, ModifyResponse{})
	require.ErrorIs(t, err, ErrMessageIDOutOfRange)

	_, err = NewResponseMessage(1, nil)
	require.Error(t, err)
}
