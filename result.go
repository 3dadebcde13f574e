package ldapwire

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"github.com/netresearch/ldapwire-go/ber"
)

// ResultCode is the enumerated resultCode of an LDAPResult, per the
// RFC 4511 appendix A taxonomy (0-90).
type ResultCode int

// Result codes this library names. Servers may return any code from
// the RFC taxonomy; unnamed codes are carried through unchanged.
const (
	ResultSuccess                      ResultCode = 0
	ResultOperationsError              ResultCode = 1
	ResultProtocolError                ResultCode = 2
	ResultTimeLimitExceeded            ResultCode = 3
	ResultSizeLimitExceeded            ResultCode = 4
	ResultCompareFalse                 ResultCode = 5
	ResultCompareTrue                  ResultCode = 6
	ResultAuthMethodNotSupported       ResultCode = 7
	ResultStrongerAuthRequired         ResultCode = 8
	ResultReferral                     ResultCode = 10
	ResultAdminLimitExceeded           ResultCode = 11
	ResultUnavailableCriticalExtension ResultCode = 12
	ResultConfidentialityRequired      ResultCode = 13
	ResultSaslBindInProgress           ResultCode = 14
	ResultNoSuchAttribute              ResultCode = 16
	ResultUndefinedAttributeType       ResultCode = 17
	ResultInappropriateMatching        ResultCode = 18
	ResultConstraintViolation          ResultCode = 19
	ResultAttributeOrValueExists       ResultCode = 20
	ResultInvalidAttributeSyntax       ResultCode = 21
	ResultNoSuchObject                 ResultCode = 32
	ResultAliasProblem                 ResultCode = 33
	ResultInvalidDNSyntax              ResultCode = 34
	ResultAliasDereferencingProblem    ResultCode = 36
	ResultInappropriateAuthentication  ResultCode = 48
	ResultInvalidCredentials           ResultCode = 49
	ResultInsufficientAccessRights     ResultCode = 50
	ResultBusy                         ResultCode = 51
	ResultUnavailable                  ResultCode = 52
	ResultUnwillingToPerform           ResultCode = 53
	ResultLoopDetect                   ResultCode = 54
	ResultNamingViolation              ResultCode = 64
	ResultObjectClassViolation         ResultCode = 65
	ResultNotAllowedOnNonLeaf          ResultCode = 66
	ResultNotAllowedOnRDN              ResultCode = 67
	ResultEntryAlreadyExists           ResultCode = 68
	ResultObjectClassModsProhibited    ResultCode = 69
	ResultAffectsMultipleDSAs          ResultCode = 71
	ResultOther                        ResultCode = 80
)

// String returns the RFC name of the result code, falling back to the
// numeric value for codes outside the published taxonomy.
func (c ResultCode) String() string {
	if c >= 0 && c <= 0xffff {
		if s, ok := ldap.LDAPResultCodeMap[uint16(c)]; ok {
			return s
		}
	}
	return fmt.Sprintf("result code %d", int(c))
}

// Result is the LDAPResult component shared by the response operation
// family: a result code, the matched DN, a diagnostic message, and an
// optional referral URI list. Results are immutable after construction
// or decode.
type Result struct {
	Code              ResultCode
	MatchedDN         string
	DiagnosticMessage string
	Referrals         []string
}

// LDAPResult satisfies the ResponseOperation capability for every
// operation type embedding Result.
func (r Result) LDAPResult() Result { return r }

// components returns the BER elements of the result in wire order:
// enumerated code, matched DN, diagnostic message, and the context-3
// referral sequence when referrals are present.
func (r Result) components() (ber.Sequence, error) {
	elements := ber.Sequence{
		ber.Enumerated(r.Code),
		ber.OctetString(r.MatchedDN),
		ber.OctetString(r.DiagnosticMessage),
	}
	if len(r.Referrals) > 0 {
		uris, err := ber.NewSequenceOf(ber.OctetString(nil).Ident())
		if err != nil {
			return nil, err
		}
		for _, uri := range r.Referrals {
			if err := uris.Add(ber.OctetString(uri)); err != nil {
				return nil, err
			}
		}
		elements = append(elements, ber.Tagged{
			ID:    ber.Identifier{Class: ber.ClassContext, Tag: referralTag},
			Mode:  ber.Implicit,
			Inner: uris,
		})
	}
	return elements, nil
}

// referralTag is the context tag reserved for the referral list inside
// an LDAPResult.
const referralTag uint32 = 3

// resultFromValues consumes the leading LDAPResult components from the
// decoded elements of a response operation and returns the remaining
// trailing elements for operation-specific fields.
func resultFromValues(values []ber.Value, name string, opts ...ber.DecodeOption) (Result, []ber.Value, error) {
	if len(values) < 3 {
		return Result{}, nil, malformedf("%s has %d elements, want at least 3", name, len(values))
	}
	code, ok := values[0].(ber.Enumerated)
	if !ok {
		return Result{}, nil, malformedf("%s result code is not an enumerated", name)
	}
	matched, ok := values[1].(ber.OctetString)
	if !ok {
		return Result{}, nil, malformedf("%s matched DN is not an octet string", name)
	}
	diag, ok := values[2].(ber.OctetString)
	if !ok {
		return Result{}, nil, malformedf("%s diagnostic message is not an octet string", name)
	}
	result := Result{
		Code:              ResultCode(code),
		MatchedDN:         string(matched),
		DiagnosticMessage: string(diag),
	}
	rest := values[3:]
	if len(rest) > 0 {
		if raw, ok := rest[0].(ber.Raw); ok &&
			raw.ID.Class == ber.ClassContext && raw.ID.Tag == referralTag {
			if !raw.ID.Constructed {
				return Result{}, nil, malformedf("%s referral list is not constructed", name)
			}
			referrals, err := decodeReferrals(raw.Content, name, opts...)
			if err != nil {
				return Result{}, nil, err
			}
			result.Referrals = referrals
			rest = rest[1:]
		}
	}
	return result, rest, nil
}

func decodeReferrals(content []byte, name string, opts ...ber.DecodeOption) ([]string, error) {
	values, err := ber.DecodeAll(content, opts...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, malformedf("%s referral list is empty", name)
	}
	referrals := make([]string, 0, len(values))
	for _, v := range values {
		uri, ok := v.(ber.OctetString)
		if !ok {
			return nil, malformedf("%s referral URI is not an octet string", name)
		}
		referrals = append(referrals, string(uri))
	}
	return referrals, nil
}
