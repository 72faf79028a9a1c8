package krb5types

// TicketFlags mirrors the TicketFlags bit-string of RFC 4120 section
// 5.3, stored as a plain bitset rather than an asn1.BitString since
// this module does not perform wire encoding itself.
type TicketFlags uint32

// Ticket flag bit positions, numbered as in RFC 4120 section 5.2.8 and
// cross-checked against github.com/jcmturner/gokrb5/v8/iana/flags.
const (
	TicketFlagReserved       TicketFlags = 1 << 0
	TicketFlagForwardable    TicketFlags = 1 << 1
	TicketFlagForwarded      TicketFlags = 1 << 2
	TicketFlagProxiable      TicketFlags = 1 << 3
	TicketFlagProxy          TicketFlags = 1 << 4
	TicketFlagMayPostdate    TicketFlags = 1 << 5
	TicketFlagPostdated      TicketFlags = 1 << 6
	TicketFlagInvalid        TicketFlags = 1 << 7
	TicketFlagRenewable      TicketFlags = 1 << 8
	TicketFlagInitial        TicketFlags = 1 << 9
	TicketFlagPreAuthent     TicketFlags = 1 << 10
	TicketFlagHWAuthent      TicketFlags = 1 << 11
	TicketFlagTransitedPolicyChecked TicketFlags = 1 << 12
	TicketFlagOkAsDelegate   TicketFlags = 1 << 13
)

// Has reports whether every bit in want is set in f.
func (f TicketFlags) Has(want TicketFlags) bool {
	return f&want == want
}

// Set returns f with the given bits set.
func (f TicketFlags) Set(bits TicketFlags) TicketFlags {
	return f | bits
}

// Clear returns f with the given bits cleared.
func (f TicketFlags) Clear(bits TicketFlags) TicketFlags {
	return f &^ bits
}

// KdcOptions mirrors the KDCOptions bit-string of RFC 4120 section
// 5.4.1.
type KdcOptions uint32

// KDC option bit positions, numbered as in RFC 4120 section 5.4.1 and
// cross-checked against github.com/jcmturner/gokrb5/v8/iana/flags.
const (
	KdcOptForwardable   KdcOptions = 1 << 1
	KdcOptForwarded     KdcOptions = 1 << 2
	KdcOptProxiable     KdcOptions = 1 << 3
	KdcOptProxy         KdcOptions = 1 << 4
	KdcOptAllowPostdate KdcOptions = 1 << 5
	KdcOptPostdated     KdcOptions = 1 << 6
	KdcOptRenewable     KdcOptions = 1 << 8
	KdcOptEncTktInSkey  KdcOptions = 1 << 19
	KdcOptRenewableOk   KdcOptions = 1 << 27
	KdcOptEncTktInSkeyRenew KdcOptions = 1 << 28
	KdcOptValidate      KdcOptions = 1 << 30
	KdcOptRenew         KdcOptions = 1 << 31
)

// reservedOptions is the set of bits RFC 4120 section 5.4.1 marks
// RESERVED and that spec.md requires the KDC to reject outright,
// distinct from recognized-but-unimplemented options like
// ENC-TKT-IN-SKEY.
const reservedOptions KdcOptions = 1<<0 | 1<<7 | 1<<9 | 1<<10 | 1<<11 | 1<<12 |
	1<<13 | 1<<14 | 1<<15 | 1<<16 | 1<<17 | 1<<18 | 1<<20 | 1<<21 | 1<<22 |
	1<<23 | 1<<24 | 1<<25 | 1<<26 | 1<<29

// Has reports whether every bit in want is set in o.
func (o KdcOptions) Has(want KdcOptions) bool {
	return o&want == want
}

// HasReserved reports whether o sets any bit RFC 4120 reserves, which
// must cause the KDC to reject the request immediately.
func (o KdcOptions) HasReserved() bool {
	return o&reservedOptions != 0
}
