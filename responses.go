package ldapwire

import (
	"bytes"

	"github.com/netresearch/ldapwire-go/ber"
)

// BindResponse is the server's answer to a bind request, an LDAPResult
// optionally extended with SASL credentials for multi-step mechanisms.
type BindResponse struct {
	Result
	// ServerSASLCreds carries the context-7 serverSaslCreds field when
	// the server sent one; nil when absent.
	ServerSASLCreds []byte
}

// ApplicationTag implements Operation.
func (BindResponse) ApplicationTag() uint32 { return ApplicationBindResponse }

func (r BindResponse) encode() (ber.Value, error) {
	elements, err := r.components()
	if err != nil {
		return nil, err
	}
	if r.ServerSASLCreds != nil {
		elements = append(elements, ber.Tagged{
			ID:    ber.Identifier{Class: ber.ClassContext, Tag: 7},
			Mode:  ber.Implicit,
			Inner: ber.OctetString(r.ServerSASLCreds),
		})
	}
	return applicationValue(r.ApplicationTag(), elements), nil
}

func decodeBindResponse(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	values, err := constructedOperation(raw, "bind response", opts...)
	if err != nil {
		return nil, err
	}
	result, rest, err := resultFromValues(values, "bind response", opts...)
	if err != nil {
		return nil, err
	}
	resp := &BindResponse{Result: result}
	if len(rest) > 0 {
		creds, ok := rest[0].(ber.Raw)
		if !ok || creds.ID.Class != ber.ClassContext || creds.ID.Tag != 7 || creds.ID.Constructed {
			return nil, malformedf("bind response has unexpected trailing element")
		}
		resp.ServerSASLCreds = creds.Content
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return nil, malformedf("bind response has %d extra elements", len(rest))
	}
	return resp, nil
}

// SearchResultEntry is one entry returned by a search. The attribute
// list is kept as raw ASN.1 for a higher layer to interpret into
// name/value pairs.
type SearchResultEntry struct {
	// ObjectName is the DN of the returned entry.
	ObjectName string
	// Attributes is the undecoded PartialAttributeList.
	Attributes ber.Sequence
}

// ApplicationTag implements Operation.
func (SearchResultEntry) ApplicationTag() uint32 { return ApplicationSearchResultEntry }

func (e SearchResultEntry) encode() (ber.Value, error) {
	return applicationValue(e.ApplicationTag(), ber.Sequence{
		ber.OctetString(e.ObjectName),
		e.Attributes,
	}), nil
}

func decodeSearchResultEntry(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	values, err := constructedOperation(raw, "search result entry", opts...)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, malformedf("search result entry has %d elements, want 2", len(values))
	}
	name, ok := values[0].(ber.OctetString)
	if !ok {
		return nil, malformedf("search result entry object name is not an octet string")
	}
	attrs, ok := values[1].(ber.Sequence)
	if !ok {
		return nil, malformedf("search result entry attribute list is not a sequence")
	}
	return &SearchResultEntry{ObjectName: string(name), Attributes: attrs}, nil
}

// SearchResultDone terminates a search with its final LDAPResult.
type SearchResultDone struct {
	Result
}

// ApplicationTag implements Operation.
func (SearchResultDone) ApplicationTag() uint32 { return ApplicationSearchResultDone }

func (r SearchResultDone) encode() (ber.Value, error) {
	return resultOnlyValue(r.ApplicationTag(), r.Result)
}

func decodeSearchResultDone(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	result, err := resultOnlyOperation(raw, "search result done", opts...)
	if err != nil {
		return nil, err
	}
	return &SearchResultDone{Result: result}, nil
}

// SearchResultReference lists continuation URIs for an uncompleted
// portion of a search.
type SearchResultReference struct {
	URIs []string
}

// ApplicationTag implements Operation.
func (SearchResultReference) ApplicationTag() uint32 { return ApplicationSearchResultReference }

func (r SearchResultReference) encode() (ber.Value, error) {
	uris, err := ber.NewSequenceOf(ber.OctetString(nil).Ident())
	if err != nil {
		return nil, err
	}
	for _, uri := range r.URIs {
		if err := uris.Add(ber.OctetString(uri)); err != nil {
			return nil, err
		}
	}
	return ber.Tagged{
		ID:    ber.Identifier{Class: ber.ClassApplication, Tag: r.ApplicationTag()},
		Mode:  ber.Implicit,
		Inner: uris,
	}, nil
}

func decodeSearchResultReference(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	if !raw.ID.Constructed {
		return nil, malformedf("search result reference is not constructed")
	}
	uris, err := decodeReferrals(raw.Content, "search result reference", opts...)
	if err != nil {
		return nil, err
	}
	return &SearchResultReference{URIs: uris}, nil
}

// ModifyResponse reports the outcome of a modify request.
type ModifyResponse struct {
	Result
}

// ApplicationTag implements Operation.
func (ModifyResponse) ApplicationTag() uint32 { return ApplicationModifyResponse }

func (r ModifyResponse) encode() (ber.Value, error) {
	return resultOnlyValue(r.ApplicationTag(), r.Result)
}

func decodeModifyResponse(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	result, err := resultOnlyOperation(raw, "modify response", opts...)
	if err != nil {
		return nil, err
	}
	return &ModifyResponse{Result: result}, nil
}

// ExtendedResponse is the reply to an extended request: an LDAPResult
// plus the optional responseName [10] and responseValue [11] fields.
type ExtendedResponse struct {
	Result
	// ResponseName is the numeric OID of the response, empty when absent.
	ResponseName string
	// ResponseValue is the mechanism-specific payload, nil when absent.
	ResponseValue []byte
}

// ApplicationTag implements Operation.
func (ExtendedResponse) ApplicationTag() uint32 { return ApplicationExtendedResponse }

func (r ExtendedResponse) encode() (ber.Value, error) {
	elements, err := r.components()
	if err != nil {
		return nil, err
	}
	if r.ResponseName != "" {
		elements = append(elements, contextString(10, []byte(r.ResponseName)))
	}
	if r.ResponseValue != nil {
		elements = append(elements, contextString(11, r.ResponseValue))
	}
	return applicationValue(r.ApplicationTag(), elements), nil
}

func decodeExtendedResponse(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	values, err := constructedOperation(raw, "extended response", opts...)
	if err != nil {
		return nil, err
	}
	result, rest, err := resultFromValues(values, "extended response", opts...)
	if err != nil {
		return nil, err
	}
	resp := &ExtendedResponse{Result: result}
	for _, v := range rest {
		field, ok := v.(ber.Raw)
		if !ok || field.ID.Class != ber.ClassContext || field.ID.Constructed {
			return nil, malformedf("extended response has unexpected trailing element")
		}
		switch field.ID.Tag {
		case 10:
			resp.ResponseName = string(field.Content)
		case 11:
			resp.ResponseValue = field.Content
		default:
			return nil, malformedf("extended response has unexpected context tag %d", field.ID.Tag)
		}
	}
	return resp, nil
}

// IntermediateResponse carries a single intermediate message of a
// multi-stage extended operation. Unlike the rest of the response
// family it has no embedded LDAPResult (RFC 4511 section 4.13);
// LDAPResult reports the zero Result.
type IntermediateResponse struct {
	// ResponseName is the optional [0] response OID, empty when absent.
	ResponseName string
	// ResponseValue is the optional [1] payload, nil when absent.
	ResponseValue []byte
}

// ApplicationTag implements Operation.
func (IntermediateResponse) ApplicationTag() uint32 { return ApplicationIntermediateResponse }

// LDAPResult satisfies ResponseOperation; intermediate responses carry
// no result on the wire, so the zero Result is reported.
func (IntermediateResponse) LDAPResult() Result { return Result{} }

func (r IntermediateResponse) encode() (ber.Value, error) {
	var elements ber.Sequence
	if r.ResponseName != "" {
		elements = append(elements, contextString(0, []byte(r.ResponseName)))
	}
	if r.ResponseValue != nil {
		elements = append(elements, contextString(1, r.ResponseValue))
	}
	return applicationValue(r.ApplicationTag(), elements), nil
}

func decodeIntermediateResponse(raw ber.Raw, opts ...ber.DecodeOption) (Operation, error) {
	values, err := constructedOperation(raw, "intermediate response", opts...)
	if err != nil {
		return nil, err
	}
	resp := &IntermediateResponse{}
	for _, v := range values {
		field, ok := v.(ber.Raw)
		if !ok || field.ID.Class != ber.ClassContext || field.ID.Constructed {
			return nil, malformedf("intermediate response has unexpected element")
		}
		switch field.ID.Tag {
		case 0:
			resp.ResponseName = string(field.Content)
		case 1:
			resp.ResponseValue = field.Content
		default:
			return nil, malformedf("intermediate response has unexpected context tag %d", field.ID.Tag)
		}
	}
	return resp, nil
}

// resultOnlyValue encodes an operation whose payload is exactly an
// LDAPResult, which the tag-only specializations above share.
func resultOnlyValue(tag uint32, result Result) (ber.Value, error) {
	elements, err := result.components()
	if err != nil {
		return nil, err
	}
	return applicationValue(tag, elements), nil
}

// resultOnlyOperation is the matching decode.
func resultOnlyOperation(raw ber.Raw, name string, opts ...ber.DecodeOption) (Result, error) {
	values, err := constructedOperation(raw, name, opts...)
	if err != nil {
		return Result{}, err
	}
	result, rest, err := resultFromValues(values, name, opts...)
	if err != nil {
		return Result{}, err
	}
	if len(rest) > 0 {
		return Result{}, malformedf("%s has %d extra elements", name, len(rest))
	}
	return result, nil
}

// contextString builds an implicit context-tagged octet string.
func contextString(tag uint32, value []byte) ber.Value {
	return ber.Tagged{
		ID:    ber.Identifier{Class: ber.ClassContext, Tag: tag},
		Mode:  ber.Implicit,
		Inner: ber.OctetString(bytes.Clone(value)),
	}
}
