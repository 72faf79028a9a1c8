// Package krb5types holds the Kerberos V5 value types shared by the
// protocol message layer and the TGS state machine: principal names,
// encryption keys, time values, and the two bitset types (ticket flags
// and KDC options).
package krb5types

import "strings"

// Name-type constants from RFC 4120 section 6.2. Only the ones the TGS
// state machine actually inspects are named here.
const (
	NameTypeUnknown        int32 = 0
	NameTypePrincipal      int32 = 1
	NameTypeSrvInst        int32 = 2
	NameTypeSrvHst         int32 = 3
	NameTypeSrvXHst        int32 = 4
	NameTypeUID            int32 = 5
	NameTypeXN500          int32 = 6
	NameTypeSmtpName       int32 = 7
	NameTypeEnterprise     int32 = 10
)

// PrincipalName identifies a client or server by realm-relative name
// components, e.g. {"krbtgt", "EXAMPLE.COM"} for a ticket-granting
// service principal.
type PrincipalName struct {
	NameType   int32
	NameString []string
}

// String renders the principal in the conventional slash-separated form.
func (p PrincipalName) String() string {
	return strings.Join(p.NameString, "/")
}

// Equal reports whether two principal names refer to the same identity.
// Name type differences are ignored, matching the loose equality RFC
// 4120 section 6.2 requires of implementations comparing names across
// name-type-unaware contexts.
func (p PrincipalName) Equal(other PrincipalName) bool {
	if len(p.NameString) != len(other.NameString) {
		return false
	}
	for i := range p.NameString {
		if p.NameString[i] != other.NameString[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the principal has no name components.
func (p PrincipalName) IsEmpty() bool {
	return len(p.NameString) == 0
}

// NewPrincipalName builds a PrincipalName from its components.
func NewPrincipalName(nameType int32, components ...string) PrincipalName {
	return PrincipalName{NameType: nameType, NameString: components}
}
