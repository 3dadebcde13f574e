package ldapwire

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardFramer(opts ...FramerOption) *Framer {
	opts = append([]FramerOption{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return NewFramer(opts...)
}

func TestFramerAllocatesSequentialIDs(t *testing.T) {
	framer := discardFramer()

	first, err := framer.NewRequest(BindRequest{Version: 3, Name: "cn=admin"})
	require.NoError(t, err)
	second, err := framer.NewRequest(UnbindRequest{})
	require.NoError(t, err)

	assert.Equal(t, int32(1), first.MessageID())
	assert.Equal(t, int32(2), second.MessageID())
}

func TestFramerSharedAllocator(t *testing.T) {
	alloc := NewMessageIDAllocator()
	alloc.Next()
	alloc.Next()

	framer := discardFramer(WithAllocator(alloc))
	assert.Same(t, alloc, framer.Allocator())

	msg, err := framer.NewRequest(DeleteRequest{DN: "cn=gone"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), msg.MessageID())
}

func TestFramerDecode(t *testing.T) {
	framer := discardFramer()

	msg, err := framer.NewRequest(BindRequest{Version: 3, Name: "cn=admin", Password: "pw"},
		WithControls(Control{OID: "2.16.840.1.113730.3.4.2"}))
	require.NoError(t, err)
	wire, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := framer.Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, msg.MessageID(), decoded.MessageID())
	assert.Len(t, decoded.Controls(), 1)

	_, err = framer.Decode(wire[:len(wire)/2])
	require.Error(t, err)
}

func TestFramerDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	framer := NewFramer(WithLogger(logger))

	msg, err := framer.NewRequest(BindRequest{Version: 3, Name: "cn=admin"})
	require.NoError(t, err)
	wire, err := msg.Encode()
	require.NoError(t, err)
	_, err = framer.Decode(wire)
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "built ldap request")
	assert.Contains(t, logged, "decoded ldap message")
	assert.Contains(t, logged, "message_id=1")
}
