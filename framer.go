package ldapwire

import "log/slog"

// Framer is the session-side composition point: it owns the message ID
// allocator for one connection and builds and decodes envelopes on its
// behalf. The transport layer holds one Framer per session.
type Framer struct {
	alloc  *MessageIDAllocator
	logger *slog.Logger
}

// FramerOption configures a Framer.
type FramerOption func(*Framer)

// WithLogger sets a custom structured logger. Defaults to
// slog.Default(); the framer logs at Debug level only.
func WithLogger(logger *slog.Logger) FramerOption {
	return func(f *Framer) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithAllocator shares an existing message ID allocator, for callers
// that split framing across components but need one ID sequence per
// session.
func WithAllocator(alloc *MessageIDAllocator) FramerOption {
	return func(f *Framer) {
		if alloc != nil {
			f.alloc = alloc
		}
	}
}

// NewFramer returns a framer with a fresh allocator whose first
// request gets message ID 1.
func NewFramer(opts ...FramerOption) *Framer {
	f := &Framer{
		alloc:  NewMessageIDAllocator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Allocator exposes the framer's message ID allocator for bookkeeping
// layers that correlate responses to in-flight requests.
func (f *Framer) Allocator() *MessageIDAllocator { return f.alloc }

// NewRequest wraps op in a request envelope under a freshly allocated
// message ID.
func (f *Framer) NewRequest(op RequestOperation, opts ...MessageOption) (*Message, error) {
	m, err := NewRequestMessage(f.alloc, op, opts...)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("built ldap request",
		slog.Int("message_id", int(m.MessageID())),
		slog.Int("application_tag", int(op.ApplicationTag())),
		slog.String("target_dn", op.TargetDN()),
	)
	return m, nil
}

// NewResponse wraps op in a response envelope correlated to the given
// request message ID.
func (f *Framer) NewResponse(messageID int32, op Operation, opts ...MessageOption) (*Message, error) {
	return NewResponseMessage(messageID, op, opts...)
}

// Decode parses one inbound message, logging its envelope fields.
func (f *Framer) Decode(buf []byte) (*Message, error) {
	m, err := DecodeMessage(buf)
	if err != nil {
		f.logger.Debug("ldap message decode failed",
			slog.Int("buffer_len", len(buf)),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}
	f.logger.Debug("decoded ldap message",
		slog.Int("message_id", int(m.MessageID())),
		slog.Int("application_tag", int(m.Op().ApplicationTag())),
		slog.Int("controls", len(m.Controls())),
	)
	return m, nil
}
