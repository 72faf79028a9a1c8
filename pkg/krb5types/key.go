package krb5types

import "bytes"

// EncryptionKey holds an encryption type and its key material, as
// carried in AS-REP/TGS-REP EncKDCRepPart and in keytab entries.
type EncryptionKey struct {
	KeyType  int32
	KeyValue []byte
}

// Equal reports whether two keys have the same type and value.
func (k EncryptionKey) Equal(other EncryptionKey) bool {
	return k.KeyType == other.KeyType && bytes.Equal(k.KeyValue, other.KeyValue)
}

// IsZero reports whether the key carries no key material.
func (k EncryptionKey) IsZero() bool {
	return len(k.KeyValue) == 0
}
