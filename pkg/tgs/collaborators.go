package tgs

import (
	"errors"

	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/krb5types"
)

// ErrPrincipalNotFound is the sentinel a PrincipalStore implementation
// must return, wrapped or bare, when a lookup misses. Stages 5 and 8
// translate it into KDC_ERR_S_PRINCIPAL_UNKNOWN.
var ErrPrincipalNotFound = errors.New("tgs: principal not found")

// PrincipalStoreEntry is the collaborator-returned shape for a
// principal lookup: key material by etype plus identity metadata.
type PrincipalStoreEntry struct {
	Principal  krb5types.PrincipalName
	Realm      string
	CommonName string
	KeyMap     map[int32]krb5types.EncryptionKey
	KVNOMap    map[int32]int32
}

// PrincipalStore is the out-of-scope collaborator stages 5 and 8 look
// keys up from. Lookup must return ErrPrincipalNotFound (or a wrapped
// form of it) on a miss.
type PrincipalStore interface {
	Lookup(principal krb5types.PrincipalName, realm string) (*PrincipalStoreEntry, error)
}

// ReplayCache is the out-of-scope collaborator stage 6 consults before
// accepting an authenticator.
type ReplayCache interface {
	CheckAndInsert(ctime int64, cusec int32, cname, crealm string) bool
}

// CipherTextHandler is the out-of-scope collaborator sealing and
// unsealing ticket, authenticator, and reply bodies.
type CipherTextHandler interface {
	Seal(key krb5types.EncryptionKey, plaintext []byte, keyUsage uint32, kvno int32) (krb5msg.EncryptedData, error)
	Unseal(key krb5types.EncryptionKey, enc krb5msg.EncryptedData, keyUsage uint32) ([]byte, error)
}

// ChecksumHandler is the out-of-scope collaborator verifying the
// KDC-REQ-BODY checksum in stage 7.
type ChecksumHandler interface {
	VerifyChecksum(key krb5types.EncryptionKey, data, cksum []byte, keyUsage uint32) (bool, error)
}

// RandomKeyFactory is the out-of-scope collaborator minting the fresh
// session key stage 9 places in the new ticket.
type RandomKeyFactory interface {
	RandomKey(etype int32) (krb5types.EncryptionKey, error)
}

// Codec decodes the opaque byte payloads this core treats as
// already-unsealed plaintext: the AP-REQ embedded in PA-TGS-REQ, the
// TGT's and new ticket's EncTicketPart, the Authenticator, request
// AuthorizationData, and the reply's EncKdcRepPart. The real ASN.1
// DER/BER wire codec is an external collaborator out of scope for this
// core; Codec is the narrow seam this core needs to stay internally
// coherent without reimplementing that codec.
type Codec interface {
	DecodeApplicationRequest(data []byte) (*krb5msg.ApplicationRequest, error)
	DecodeEncTicketPart(data []byte) (*krb5msg.EncTicketPart, error)
	EncodeEncTicketPart(part *krb5msg.EncTicketPart) ([]byte, error)
	DecodeAuthenticator(data []byte) (*krb5msg.Authenticator, error)
	DecodeAuthorizationData(data []byte) ([]krb5msg.AuthorizationDataEntry, error)
	EncodeEncKdcRepPart(part *krb5msg.EncKdcRepPart) ([]byte, error)
}
