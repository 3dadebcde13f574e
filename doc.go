// Package ldapwire implements the LDAP message framing layer on top of
// the BER codec in the ber subpackage: request/response envelopes
// correlated by message ID, optional control lists, and the
// operation-specific payload codecs for the bind, search, modify,
// extended, and intermediate families.
//
// The package performs no I/O. A transport layer frames one complete
// message worth of octets and hands them to DecodeMessage; outbound
// messages serialize to a contiguous buffer with Encode.
//
// # Basic Usage
//
//	framer := ldapwire.NewFramer()
//
//	msg, err := framer.NewRequest(&ldapwire.BindRequest{
//		Version:  3,
//		Name:     "cn=admin,dc=example,dc=com",
//		Password: "secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	wire, err := msg.Encode()
//	if err != nil {
//		log.Fatal(err)
//	}
//	// hand wire to the transport; later, decode the reply:
//	reply, err := framer.Decode(replyBytes)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if resp, ok := reply.Response(); ok {
//		fmt.Println(resp.LDAPResult().Code)
//	}
//
// # Error Handling
//
// Decode failures wrap the taxonomy in the ber subpackage
// (ber.ErrTruncated, ber.ErrMalformedEncoding, ber.ErrTagOverflow)
// plus ErrUnsupportedOperation for application tags outside the
// dispatch table, and can be classified with errors.Is. A failed
// decode never returns a partially populated message.
package ldapwire
