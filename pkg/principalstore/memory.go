package principalstore

import (
	"strings"
	"sync"

	"github.com/dirsrv/kdc/pkg/krb5types"
)

// MemoryStore is an in-memory Store, used in tests and for bootstrap
// principals (the KDC's own krbtgt identity) that do not belong in a
// keytab file.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func principalKey(principal krb5types.PrincipalName, realm string) string {
	return realm + "@" + strings.Join(principal.NameString, "/")
}

// Put registers or replaces the entry for a principal.
func (s *MemoryStore) Put(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[principalKey(entry.Principal, entry.Realm)] = entry
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(principal krb5types.PrincipalName, realm string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[principalKey(principal, realm)]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}
