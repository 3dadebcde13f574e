package ldapwire

import (
	"github.com/netresearch/ldapwire-go/ber"
)

// Application tag numbers assigned to LDAP protocol operations by
// RFC 4511 section 4.
const (
	ApplicationBindRequest           uint32 = 0
	ApplicationBindResponse          uint32 = 1
	ApplicationUnbindRequest         uint32 = 2
	ApplicationSearchRequest         uint32 = 3
	ApplicationSearchResultEntry     uint32 = 4
	ApplicationSearchResultDone      uint32 = 5
	ApplicationModifyRequest         uint32 = 6
	ApplicationModifyResponse        uint32 = 7
	ApplicationAddRequest            uint32 = 8
	ApplicationAddResponse           uint32 = 9
	ApplicationDeleteRequest         uint32 = 10
	ApplicationDeleteResponse        uint32 = 11
	ApplicationModifyDNRequest       uint32 = 12
	ApplicationModifyDNResponse      uint32 = 13
	ApplicationCompareRequest        uint32 = 14
	ApplicationCompareResponse       uint32 = 15
	ApplicationAbandonRequest        uint32 = 16
	ApplicationSearchResultReference uint32 = 19
	ApplicationExtendedRequest       uint32 = 23
	ApplicationExtendedResponse      uint32 = 24
	ApplicationIntermediateResponse  uint32 = 25
)

// Operation is one LDAP protocol operation, encoded under its
// application tag inside a message envelope.
type Operation interface {
	// ApplicationTag returns the RFC 4511 application tag the
	// operation is encoded under.
	ApplicationTag() uint32

	// encode returns the application-tagged BER value of the
	// operation. The set of operations is closed over the dispatch
	// table below; adding one means adding a type and a table entry.
	encode() (ber.Value, error)
}

// RequestOperation is the capability satisfied by client-initiated
// operations: each exposes the distinguished name it targets (empty
// for operations without one, such as unbind).
type RequestOperation interface {
	Operation
	TargetDN() string
}

// ResponseOperation is the capability satisfied by server responses
// that carry an LDAPResult.
type ResponseOperation interface {
	Operation
	LDAPResult() Result
}

// operationDecoders dispatches the application tag of a protocolOp
// element to the decoder that materializes the concrete operation. An
// absent tag is a fatal ErrUnsupportedOperation, never silently
// skipped. Decode options given to DecodeMessage are threaded through
// so strictness applies to operation payloads as well.
var operationDecoders = map[uint32]func(ber.Raw, ...ber.DecodeOption) (Operation, error){
	ApplicationBindRequest:           decodeBindRequest,
	ApplicationBindResponse:          decodeBindResponse,
	ApplicationUnbindRequest:         decodeUnbindRequest,
	ApplicationSearchResultEntry:     decodeSearchResultEntry,
	ApplicationSearchResultDone:      decodeSearchResultDone,
	ApplicationModifyResponse:        decodeModifyResponse,
	ApplicationDeleteRequest:         decodeDeleteRequest,
	ApplicationSearchResultReference: decodeSearchResultReference,
	ApplicationExtendedRequest:       decodeExtendedRequest,
	ApplicationExtendedResponse:      decodeExtendedResponse,
	ApplicationIntermediateResponse:  decodeIntermediateResponse,
}

// applicationValue wraps content elements in an implicit
// application-tagged sequence, the encoding shared by every
// sequence-shaped operation.
func applicationValue(tag uint32, elements ber.Sequence) ber.Value {
	return ber.Tagged{
		ID:    ber.Identifier{Class: ber.ClassApplication, Tag: tag},
		Mode:  ber.Implicit,
		Inner: elements,
	}
}

// constructedOperation decodes the content octets of a constructed
// application-tagged operation into its child values.
func constructedOperation(raw ber.Raw, name string, opts ...ber.DecodeOption) ([]ber.Value, error) {
	if !raw.ID.Constructed {
		return nil, malformedf("%s is not constructed", name)
	}
	return ber.DecodeAll(raw.Content, opts...)
}
