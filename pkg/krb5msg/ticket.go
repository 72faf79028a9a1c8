// Package krb5msg holds the decoded Kerberos V5 message and ticket
// types the TGS state machine consumes and produces. The ASN.1
// DER/BER codec that fills these structures in from the wire is an
// external collaborator, out of scope here; this package only carries
// the already-decoded shapes and the lazy-decryption state machine
// for ticket and authenticator bodies.
package krb5msg

import (
	"github.com/dirsrv/kdc/pkg/krb5types"
)

// EncryptedData is opaque ciphertext plus the etype and key version
// under which it was sealed, as produced by the crypto collaborator's
// seal operation.
type EncryptedData struct {
	EType  int32
	KVNO   int32
	Cipher []byte
}

// EncTicketPart is the cleartext body of a Ticket, decrypted under the
// server's key.
type EncTicketPart struct {
	Flags             krb5types.TicketFlags
	Key               krb5types.EncryptionKey
	CRealm            string
	CName             krb5types.PrincipalName
	Transited         TransitedEncoding
	AuthTime          krb5types.KerberosTime
	StartTime         krb5types.KerberosTime
	EndTime           krb5types.KerberosTime
	RenewTill         krb5types.KerberosTime
	ClientAddresses   []HostAddress
	AuthorizationData []AuthorizationDataEntry
}

// TransitedEncoding records the realms a ticket passed through on its
// way to the local realm. Only the domain-X.500-compress form (type 1)
// used by the spec's local-pass-through path is populated by this KDC;
// other transited-encoding types are rejected before reaching here.
type TransitedEncoding struct {
	TRType int32
	Contents []byte
}

// HostAddress is a single client network address as carried in a
// ticket or authenticator.
type HostAddress struct {
	AddrType int32
	Address  []byte
}

// AuthorizationDataEntry is one element of a ticket's or
// authenticator's AuthorizationData sequence.
type AuthorizationDataEntry struct {
	ADType int32
	ADData []byte
}

// ticketBody is the tagged-variant state of a Ticket's encrypted part:
// either still-sealed ciphertext, or a cached cleartext EncTicketPart
// reached by a prior call to Decrypt.
type ticketBody struct {
	encrypted *EncryptedData
	decrypted *EncTicketPart
}

// Ticket is a Kerberos ticket: a server name plus its encrypted body.
// The body starts life as ciphertext (Encrypted) and transitions once,
// via Decrypt, to a cached cleartext (Decrypted); callers reach the
// cleartext only by going through that transition explicitly, never by
// re-deriving it silently from the ciphertext.
type Ticket struct {
	SName   krb5types.PrincipalName
	Realm   string
	body    ticketBody
}

// NewEncryptedTicket builds a Ticket whose body is still sealed.
func NewEncryptedTicket(sname krb5types.PrincipalName, realm string, enc EncryptedData) *Ticket {
	return &Ticket{SName: sname, Realm: realm, body: ticketBody{encrypted: &enc}}
}

// NewDecryptedTicket builds a Ticket that already carries a cleartext
// body, used when this KDC assembles a brand-new ticket it is about to
// seal rather than one it received off the wire.
func NewDecryptedTicket(sname krb5types.PrincipalName, realm string, part *EncTicketPart) *Ticket {
	return &Ticket{SName: sname, Realm: realm, body: ticketBody{decrypted: part}}
}

// NewSealedTicket builds a Ticket that carries both the plaintext part
// just sealed and the resulting ciphertext: the shape a KDC needs for a
// ticket it is about to hand back to a client, where the wire codec
// still has to serialize enc but nothing needs to unseal it again.
func NewSealedTicket(sname krb5types.PrincipalName, realm string, part *EncTicketPart, enc EncryptedData) *Ticket {
	return &Ticket{SName: sname, Realm: realm, body: ticketBody{encrypted: &enc, decrypted: part}}
}

// EncPart returns the sealed ciphertext, if the body has not yet been
// decrypted.
func (t *Ticket) EncPart() (EncryptedData, bool) {
	if t.body.encrypted == nil {
		return EncryptedData{}, false
	}
	return *t.body.encrypted, true
}

// Decrypted returns the cached cleartext body and true once Decrypt
// has succeeded; otherwise it returns false without touching the
// ciphertext.
func (t *Ticket) Decrypted() (*EncTicketPart, bool) {
	if t.body.decrypted == nil {
		return nil, false
	}
	return t.body.decrypted, true
}

// Decrypt transitions the ticket from Encrypted to Decrypted by
// unsealing the encrypted part with unseal and caching the result.
// Decrypt is a no-op, returning the cached value, if already decrypted.
func (t *Ticket) Decrypt(unseal func(enc EncryptedData) (*EncTicketPart, error)) (*EncTicketPart, error) {
	if t.body.decrypted != nil {
		return t.body.decrypted, nil
	}
	if t.body.encrypted == nil {
		return nil, errNoEncryptedBody
	}
	part, err := unseal(*t.body.encrypted)
	if err != nil {
		return nil, err
	}
	t.body.decrypted = part
	t.body.encrypted = nil
	return part, nil
}

var errNoEncryptedBody = newTicketError("ticket has no encrypted body to decrypt")

type ticketError string

func newTicketError(msg string) ticketError { return ticketError(msg) }
func (e ticketError) Error() string         { return string(e) }
