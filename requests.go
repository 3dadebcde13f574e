package ldapwire

import (
	"bytes"

	"github.com/netresearch/ldapwire-go/ber"
)

// BindRequest authenticates a connection with the simple mechanism:
// protocol version, bind DN, and password carried in the context-0
// authentication choice. SASL negotiation belongs to the transport
// layer and is out of scope here.
type BindRequest struct {
	// Version is the protocol version, 3 for every current server.
	Version int
	// Name is the DN to bind as; empty for an anonymous bind.
	Name string
	// Password is the simple-authentication credential.
	Password string
}

// ApplicationTag implements Operation.
func (BindRequest) ApplicationTag() uint32 { return ApplicationBindRequest }

// TargetDN implements RequestOperation.
func (r BindRequest) TargetDN() string { return r.Name }

func (r BindRequest) encode() (ber.Value, error) {
	return applicationValue(r.ApplicationTag(), ber.Sequence{
		ber.Integer(r.Version),
		ber.OctetString(r.Name),
		ber.Tagged{
			ID:    ber.Identifier{Class: ber.ClassContext, Tag: 0},
			Mode:  ber.Implicit,
			Inner: ber.OctetString(r.Password),
		},
	}), nil
}

func decodeBindRequest(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	values, err := constructedOperation(raw, "bind request", opts...)
	if err != nil {
		return nil, err
	}
	if len(values) != 3 {
		return nil, malformedf("bind request has %d elements, want 3", len(values))
	}
	version, ok := values[0].(ber.Integer)
	if !ok {
		return nil, malformedf("bind request version is not an integer")
	}
	name, ok := values[1].(ber.OctetString)
	if !ok {
		return nil, malformedf("bind request name is not an octet string")
	}
	auth, ok := values[2].(ber.Raw)
	if !ok || auth.ID.Class != ber.ClassContext {
		return nil, malformedf("bind request authentication choice is missing")
	}
	if auth.ID.Tag != 0 || auth.ID.Constructed {
		return nil, malformedf("bind request authentication mechanism %d is not supported", auth.ID.Tag)
	}
	return &BindRequest{
		Version:  int(version),
		Name:     string(name),
		Password: string(auth.Content),
	}, nil
}

// UnbindRequest terminates a session. It carries no payload and
// targets no DN.
type UnbindRequest struct{}

// ApplicationTag implements Operation.
func (UnbindRequest) ApplicationTag() uint32 { return ApplicationUnbindRequest }

// TargetDN implements RequestOperation; unbind has no target.
func (UnbindRequest) TargetDN() string { return "" }

func (r UnbindRequest) encode() (ber.Value, error) {
	// UnbindRequest ::= [APPLICATION 2] NULL
	return ber.Raw{
		ID: ber.Identifier{Class: ber.ClassApplication, Tag: r.ApplicationTag()},
	}, nil
}

func decodeUnbindRequest(raw ber.Raw, _ ...ber.DecodeOption) (Operation, error) {
	if raw.ID.Constructed || len(raw.Content) != 0 {
		return nil, malformedf("unbind request carries content")
	}
	return &UnbindRequest{}, nil
}

// DeleteRequest removes the entry named by DN. On the wire the DN is
// the content octets of the application-10 value directly, not a
// nested sequence.
type DeleteRequest struct {
	DN string
}

// ApplicationTag implements Operation.
func (DeleteRequest) ApplicationTag() uint32 { return ApplicationDeleteRequest }

// TargetDN implements RequestOperation.
func (r DeleteRequest) TargetDN() string { return r.DN }

func (r DeleteRequest) encode() (ber.Value, error) {
	return ber.Tagged{
		ID:    ber.Identifier{Class: ber.ClassApplication, Tag: r.ApplicationTag()},
		Mode:  ber.Implicit,
		Inner: ber.OctetString(r.DN),
	}, nil
}

func decodeDeleteRequest(raw ber.Raw, _ ...ber.DecodeOption) (Operation, error) {
	if raw.ID.Constructed {
		return nil, malformedf("delete request is not primitive")
	}
	return &DeleteRequest{DN: string(raw.Content)}, nil
}

// ExtendedRequest invokes an extension identified by its numeric OID
// with an optional mechanism-specific value.
type ExtendedRequest struct {
	// Name is the [0] requestName OID.
	Name string
	// Value is the optional [1] requestValue, nil when absent.
	Value []byte
}

// ApplicationTag implements Operation.
func (ExtendedRequest) ApplicationTag() uint32 { return ApplicationExtendedRequest }

// TargetDN implements RequestOperation; extended requests name no
// entry.
func (ExtendedRequest) TargetDN() string { return "" }

func (r ExtendedRequest) encode() (ber.Value, error) {
	elements := ber.Sequence{contextString(0, []byte(r.Name))}
	if r.Value != nil {
		elements = append(elements, contextString(1, r.Value))
	}
	return applicationValue(r.ApplicationTag(), elements), nil
}

func decodeExtendedRequest(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	values, err := constructedOperation(raw, "extended request", opts...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 || len(values) > 2 {
		return nil, malformedf("extended request has %d elements, want 1 or 2", len(values))
	}
	name, ok := values[0].(ber.Raw)
	if !ok || name.ID.Class != ber.ClassContext || name.ID.Tag != 0 || name.ID.Constructed {
		return nil, malformedf("extended request name is missing")
	}
	req := &ExtendedRequest{Name: string(name.Content)}
	if len(values) == 2 {
		value, ok := values[1].(ber.Raw)
		if !ok || value.ID.Class != ber.ClassContext || value.ID.Tag != 1 || value.ID.Constructed {
			return nil, malformedf("extended request value has wrong shape")
		}
		req.Value = bytes.Clone(value.Content)
	}
	return req, nil
}
