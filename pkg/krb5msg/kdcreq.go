package krb5msg

import "github.com/dirsrv/kdc/pkg/krb5types"

// Kerberos protocol version and message-type constants this KDC
// recognizes (RFC 4120 section 5.10).
const (
	ProtocolVersion int32 = 5

	MsgTypeTGSReq int32 = 12
	MsgTypeTGSRep int32 = 13
)

// KdcReqBody is the authenticated portion of a TGS-REQ: the part whose
// exact encoding the accompanying authenticator checksum is taken
// over.
type KdcReqBody struct {
	KDCOptions            krb5types.KdcOptions
	CName                 *krb5types.PrincipalName
	Realm                 string
	SName                 krb5types.PrincipalName
	From                  krb5types.KerberosTime
	Till                  krb5types.KerberosTime
	RTime                 krb5types.KerberosTime
	Nonce                 int32
	EType                 []int32
	Addresses             []HostAddress
	EncAuthorizationData  *EncryptedData
}

// KdcReq is a decoded TGS-REQ. BodyBytes must be the exact octets the
// decoder read to produce Body, preserved unaltered so the body
// checksum in stage 7 can be verified against the same bytes the
// client signed.
type KdcReq struct {
	PVNO      int32
	MsgType   int32
	PAData    []PAData
	Body      KdcReqBody
	BodyBytes []byte
}

// FindPAData returns the first pre-authentication element of the
// given type, if any.
func (r *KdcReq) FindPAData(padataType int32) (PAData, bool) {
	for _, pa := range r.PAData {
		if pa.PADataType == padataType {
			return pa, true
		}
	}
	return PAData{}, false
}

// EncKdcRepPart is the cleartext body of a TGS-REP, encrypted under
// either the authenticator's subkey or the TGT session key before
// being placed on the wire.
type EncKdcRepPart struct {
	Key           krb5types.EncryptionKey
	LastReq       []LastReqEntry
	Nonce         int32
	KeyExpiration krb5types.KerberosTime
	Flags         krb5types.TicketFlags
	AuthTime      krb5types.KerberosTime
	StartTime     krb5types.KerberosTime
	EndTime       krb5types.KerberosTime
	RenewTill     krb5types.KerberosTime
	SRealm        string
	SName         krb5types.PrincipalName
	CAddr         []HostAddress
}

// LastReqEntry records a prior-request timestamp for a given
// last-request type. This KDC never populates LastReq (spec stage 10
// sets it empty); the type exists so EncKdcRepPart's shape matches the
// wire format it would otherwise need to encode.
type LastReqEntry struct {
	LRType  int32
	LRValue krb5types.KerberosTime
}

// TgsRep is the decoded TGS-REP: the new ticket plus its encrypted
// reply part.
type TgsRep struct {
	PVNO    int32
	MsgType int32
	CRealm  string
	CName   krb5types.PrincipalName
	Ticket  *Ticket
	EncPart EncryptedData
}
