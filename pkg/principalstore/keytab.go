package principalstore

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jcmturner/gokrb5/v8/keytab"

	"github.com/dirsrv/kdc/internal/logger"
	"github.com/dirsrv/kdc/pkg/krb5types"
)

// KeytabStore is a Store backed by a Kerberos keytab file: the usual
// way a KDC's own service principals (krbtgt/REALM and the server
// principals it issues tickets for) get their long-term keys onto
// disk.
//
// Thread Safety: all methods are safe for concurrent use. The keytab
// can be hot-reloaded at runtime via Reload without disrupting lookups
// already in flight.
type KeytabStore struct {
	path string

	mu     sync.RWMutex
	keytab *keytab.Keytab

	watcher *keytabWatcher
}

// NewKeytabStore loads the keytab file at path and starts a background
// poller that hot-reloads it on change, mirroring how keytab rotation
// tools (kadmin, k5srvutil) replace the file atomically without
// restarting the KDC.
func NewKeytabStore(path string) (*KeytabStore, error) {
	if path == "" {
		return nil, fmt.Errorf("keytab path not configured")
	}

	kt, err := loadKeytab(path)
	if err != nil {
		return nil, fmt.Errorf("load keytab %s: %w", path, err)
	}

	s := &KeytabStore{path: path, keytab: kt}

	watcher := newKeytabWatcher(path, s.Reload)
	if err := watcher.Start(); err != nil {
		logger.Warn("keytab hot-reload failed to start, continuing without it",
			"path", path, "error", err)
	}
	s.watcher = watcher

	return s, nil
}

// Reload re-reads the keytab file and atomically swaps it in. Lookups
// already in progress keep using the keytab snapshot they started
// with.
func (s *KeytabStore) Reload() error {
	kt, err := loadKeytab(s.path)
	if err != nil {
		return fmt.Errorf("reload keytab %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.keytab = kt
	s.mu.Unlock()
	return nil
}

// Close stops the hot-reload poller. Safe to call multiple times.
func (s *KeytabStore) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return nil
}

// Lookup implements Store by scanning the keytab for every entry whose
// principal matches, grouping their keys by encryption type. A
// principal present in the keytab under several kvnos for the same
// etype keeps only the highest kvno, matching how a KDC always seals
// under its newest key for a given etype.
func (s *KeytabStore) Lookup(principal krb5types.PrincipalName, realm string) (*Entry, error) {
	s.mu.RLock()
	kt := s.keytab
	s.mu.RUnlock()

	keyMap := make(map[int32]krb5types.EncryptionKey)
	kvnoMap := make(map[int32]int32)
	kvnoSeen := make(map[int32]int)

	for _, e := range kt.Entries {
		if e.Principal.Realm != realm {
			continue
		}
		if !sameComponents(e.Principal.Components, principal.NameString) {
			continue
		}
		etype := int32(e.Key.KeyType)
		if prev, ok := kvnoSeen[etype]; ok && prev >= e.KVNO {
			continue
		}
		kvnoSeen[etype] = e.KVNO
		keyMap[etype] = krb5types.EncryptionKey{KeyType: etype, KeyValue: e.Key.KeyValue}
		kvnoMap[etype] = int32(e.KVNO)
	}

	if len(keyMap) == 0 {
		return nil, ErrNotFound
	}

	return &Entry{
		Principal:  principal,
		Realm:      realm,
		CommonName: strings.Join(principal.NameString, "/"),
		KeyMap:     keyMap,
		KVNOMap:    kvnoMap,
	}, nil
}

func sameComponents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func loadKeytab(path string) (*keytab.Keytab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keytab file: %w", err)
	}

	kt := keytab.New()
	if err := kt.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("parse keytab: %w", err)
	}

	return kt, nil
}
