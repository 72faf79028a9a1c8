package krb5msg

import "github.com/dirsrv/kdc/pkg/krb5types"

// Checksum is a keyed checksum over a byte range, carried inside an
// Authenticator to bind it to the accompanying request body.
type Checksum struct {
	CksumType int32
	Checksum  []byte
}

// Authenticator proves the sender holds the session key of the ticket
// it accompanies. Decrypted from the AP-REQ's Authenticator field
// using that session key.
type Authenticator struct {
	CName        krb5types.PrincipalName
	CRealm       string
	CTime        krb5types.KerberosTime
	CuSec        int32
	Cksum        *Checksum
	SubKey       *krb5types.EncryptionKey
	SeqNumber    int64
	SeqNumberSet bool
}

// PADataType enumerates the pre-authentication data types this KDC
// inspects. Only PA-TGS-REQ is consumed by the TGS path; others pass
// through untouched.
const (
	PADataTGSReq int32 = 1
)

// PAData is one pre-authentication-data element of a KdcReq.
type PAData struct {
	PADataType  int32
	PADataValue []byte
}

// ApplicationRequest is the decoded AP-REQ embedded as a PA-TGS-REQ
// pre-authentication element: a ticket plus an authenticator sealed
// under that ticket's session key.
type ApplicationRequest struct {
	APOptions            uint32
	Ticket               *Ticket
	EncryptedAuthenticator EncryptedData
}
