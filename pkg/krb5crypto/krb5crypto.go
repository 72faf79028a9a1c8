// Package krb5crypto adapts github.com/jcmturner/gokrb5/v8/crypto to
// the seal/unseal/verifyChecksum/randomKey collaborator contract the
// TGS state machine depends on, translating between this module's
// krb5types/krb5msg value types and gokrb5's types package.
package krb5crypto

import (
	"crypto/rand"
	"fmt"

	gokrb5crypto "github.com/jcmturner/gokrb5/v8/crypto"
	gokrb5types "github.com/jcmturner/gokrb5/v8/types"

	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/krb5types"
)

func toGokrb5Key(key krb5types.EncryptionKey) gokrb5types.EncryptionKey {
	return gokrb5types.EncryptionKey{
		KeyType:  key.KeyType,
		KeyValue: key.KeyValue,
	}
}

// Seal encrypts plaintext under key for the given key usage number,
// returning opaque ciphertext the caller attaches to a Ticket or
// TgsRep. kvno identifies the key version used, 0 when the key is a
// freshly generated session key with no version history.
func Seal(key krb5types.EncryptionKey, plaintext []byte, keyUsage uint32, kvno int32) (krb5msg.EncryptedData, error) {
	enc, err := gokrb5crypto.GetEncryptedData(plaintext, toGokrb5Key(key), keyUsage, int(kvno))
	if err != nil {
		return krb5msg.EncryptedData{}, fmt.Errorf("seal under key usage %d: %w", keyUsage, err)
	}
	return krb5msg.EncryptedData{
		EType:  int32(enc.EType),
		KVNO:   int32(enc.KVNO),
		Cipher: enc.Cipher,
	}, nil
}

// Unseal decrypts enc.Cipher under key for the given key usage,
// returning the cleartext bytes. Callers are responsible for decoding
// those bytes into the appropriate structure (EncTicketPart,
// Authenticator, EncKdcRepPart).
func Unseal(key krb5types.EncryptionKey, enc krb5msg.EncryptedData, keyUsage uint32) ([]byte, error) {
	pt, err := gokrb5crypto.DecryptMessage(enc.Cipher, toGokrb5Key(key), keyUsage)
	if err != nil {
		return nil, fmt.Errorf("unseal under key usage %d: %w", keyUsage, err)
	}
	return pt, nil
}

// VerifyChecksum reports whether cksum is a valid keyed checksum over
// data under key for the given key usage. A false return without an
// error means the checksum simply did not match; an error means the
// checksum or key could not be evaluated at all (unsupported etype,
// malformed checksum length).
func VerifyChecksum(key krb5types.EncryptionKey, data, cksum []byte, keyUsage uint32) (bool, error) {
	ok, err := gokrb5crypto.VerifyChecksum(toGokrb5Key(key), keyUsage, data, cksum)
	if err != nil {
		return false, fmt.Errorf("verify checksum under key usage %d: %w", keyUsage, err)
	}
	return ok, nil
}

// RandomKey generates a fresh session key for the given encryption
// type, used to mint the session key of a newly issued service ticket.
func RandomKey(etype int32) (krb5types.EncryptionKey, error) {
	et, err := gokrb5crypto.GetEtype(etype)
	if err != nil {
		return krb5types.EncryptionKey{}, fmt.Errorf("resolve etype %d: %w", etype, err)
	}
	keyBytes := make([]byte, et.GetKeyByteSize())
	if _, err := rand.Read(keyBytes); err != nil {
		return krb5types.EncryptionKey{}, fmt.Errorf("generate session key for etype %d: %w", etype, err)
	}
	return krb5types.EncryptionKey{KeyType: etype, KeyValue: keyBytes}, nil
}
