package commands

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dirsrv/kdc/pkg/kdcmetrics"
	"github.com/dirsrv/kdc/pkg/krb5crypto"
	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/krb5types"
	"github.com/dirsrv/kdc/pkg/principalstore"
	"github.com/dirsrv/kdc/pkg/registry"
	"github.com/dirsrv/kdc/pkg/tgs"
)

// gokrb5Cipher adapts the package-level functions in pkg/krb5crypto to
// the tgs.CipherTextHandler, tgs.ChecksumHandler, and
// tgs.RandomKeyFactory collaborator interfaces.
type gokrb5Cipher struct{}

func (gokrb5Cipher) Seal(key krb5types.EncryptionKey, plaintext []byte, keyUsage uint32, kvno int32) (krb5msg.EncryptedData, error) {
	return krb5crypto.Seal(key, plaintext, keyUsage, kvno)
}

func (gokrb5Cipher) Unseal(key krb5types.EncryptionKey, enc krb5msg.EncryptedData, keyUsage uint32) ([]byte, error) {
	return krb5crypto.Unseal(key, enc, keyUsage)
}

func (gokrb5Cipher) VerifyChecksum(key krb5types.EncryptionKey, data, cksum []byte, keyUsage uint32) (bool, error) {
	return krb5crypto.VerifyChecksum(key, data, cksum, keyUsage)
}

func (gokrb5Cipher) RandomKey(etype int32) (krb5types.EncryptionKey, error) {
	return krb5crypto.RandomKey(etype)
}

// principalStoreAdapter narrows a principalstore.Store down to
// tgs.PrincipalStore, translating principalstore.Entry into the
// package-local PrincipalStoreEntry shape tgs expects and
// principalstore.ErrNotFound into tgs.ErrPrincipalNotFound.
type principalStoreAdapter struct {
	store principalstore.Store
}

func (a principalStoreAdapter) Lookup(principal krb5types.PrincipalName, realm string) (*tgs.PrincipalStoreEntry, error) {
	entry, err := a.store.Lookup(principal, realm)
	if err != nil {
		if errors.Is(err, principalstore.ErrNotFound) {
			return nil, tgs.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &tgs.PrincipalStoreEntry{
		Principal:  entry.Principal,
		Realm:      entry.Realm,
		CommonName: entry.CommonName,
		KeyMap:     entry.KeyMap,
		KVNOMap:    entry.KVNOMap,
	}, nil
}

// registryMetricsObserver reports schema registry mutations and
// lookups through kdcmetrics, the same way gokrb5Cipher and
// principalStoreAdapter bridge the TGS core's collaborator
// interfaces to the concrete packages wired up in runStart.
type registryMetricsObserver struct {
	metrics *kdcmetrics.Metrics
}

func (o registryMetricsObserver) Registered(oid string) {
	o.metrics.RecordRegistryOperation("register", nil)
}

func (o registryMetricsObserver) RegisterFailed(oid string, err error) {
	o.metrics.RecordRegistryOperation("register", err)
}

func (o registryMetricsObserver) LookedUp(oid string) {
	o.metrics.RecordRegistryOperation("lookup", nil)
}

func (o registryMetricsObserver) LookupFailed(id string, err error) {
	o.metrics.RecordRegistryOperation("lookup", err)
}

// loadBootstrapSchema reads the registry's bootstrap object set from a
// YAML file. An empty path is not an error: the registry simply starts
// with no bootstrap tier, useful for a fresh deployment that registers
// everything through the overlay at runtime.
func loadBootstrapSchema(path string) ([]registry.SchemaObject, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var objects []registry.SchemaObject
	if err := yaml.Unmarshal(data, &objects); err != nil {
		return nil, err
	}
	return objects, nil
}
