// Package principalstore implements the PrincipalStore collaborator
// the TGS state machine looks keys up from: a keytab-backed store with
// hot-reload, and a plain in-memory store for tests.
package principalstore

import (
	"errors"

	"github.com/dirsrv/kdc/pkg/krb5types"
)

// ErrNotFound is returned by Lookup when no entry matches the
// requested principal, translated by the TGS core into
// KDC_ERR_S_PRINCIPAL_UNKNOWN.
var ErrNotFound = errors.New("principal not found")

// Entry is a PrincipalStoreEntry: the key material and identity
// metadata returned for a principal lookup.
type Entry struct {
	Principal  krb5types.PrincipalName
	Realm      string
	CommonName string
	KeyMap     map[int32]krb5types.EncryptionKey

	// KVNOMap carries the key version number backing each KeyMap
	// entry, keyed by the same etype. A missing entry means kvno 0.
	KVNOMap map[int32]int32
}

// Store is the collaborator interface the TGS core consumes. Lookup
// must return ErrNotFound (or a wrapped form of it) on a miss rather
// than a zero Entry, so callers can distinguish "no such principal"
// from "store temporarily unavailable".
type Store interface {
	Lookup(principal krb5types.PrincipalName, realm string) (*Entry, error)
}
