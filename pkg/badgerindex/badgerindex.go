// Package badgerindex implements dirindex.Index over BadgerDB: an
// ordered (parentId, rdn) -> entryId index stored as keys
// "c:<parentUUID>:<rdn>", scanned with a prefix-bounded iterator.
package badgerindex

import (
	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/dirsrv/kdc/pkg/dirindex"
)

const childPrefix = "c:"

func keyChild(parentID uuid.UUID, rdn string) []byte {
	return []byte(childPrefix + parentID.String() + ":" + rdn)
}

func keyChildPrefix(parentID uuid.UUID) []byte {
	return []byte(childPrefix + parentID.String() + ":")
}

// Index is a dirindex.Index[uuid.UUID] backed by a BadgerDB handle.
type Index struct {
	db *badger.DB
}

// Open wraps an already-opened BadgerDB handle as a children index.
func Open(db *badger.DB) *Index {
	return &Index{db: db}
}

// Put records parentID/rdn -> childID, called by whatever writes
// directory entries into the store (out of scope for this package's
// read path, exposed for tests and seeding).
func (idx *Index) Put(parentID uuid.UUID, rdn string, childID uuid.UUID) error {
	return idx.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyChild(parentID, rdn), childID[:])
	})
}

// SeekChildren implements dirindex.Index. It opens a read transaction
// that lives for the returned cursor's lifetime and positions a
// forward iterator at the greatest-lower-bound of (parentID, "").
func (idx *Index) SeekChildren(parentID uuid.UUID) (dirindex.Cursor[uuid.UUID], error) {
	txn := idx.db.NewTransaction(false)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = keyChildPrefix(parentID)

	return &cursor{
		txn:      txn,
		parentID: parentID,
		prefix:   opts.Prefix,
		opts:     opts,
		started:  false,
	}, nil
}

// cursor is a dirindex.Cursor[uuid.UUID] over one parent's children.
// BadgerDB iterators only move in the direction fixed at creation, so
// switching between Next and Previous reopens the iterator in the new
// direction, re-seeking to the last observed key.
type cursor struct {
	txn      *badger.Txn
	iter     *badger.Iterator
	parentID uuid.UUID
	prefix   []byte
	opts     badger.IteratorOptions

	started   bool
	reverse   bool
	lastKey   []byte
	current   dirindex.IndexEntry[uuid.UUID]
	hasCurrent bool
	closed    bool
}

func (c *cursor) ensureIterator(reverse bool) {
	if c.iter != nil && c.reverse == reverse {
		return
	}
	if c.iter != nil {
		c.iter.Close()
	}
	opts := c.opts
	opts.Reverse = reverse
	c.iter = c.txn.NewIterator(opts)
	c.reverse = reverse

	switch {
	case c.lastKey == nil && !reverse:
		c.iter.Seek(c.prefix)
	case c.lastKey == nil && reverse:
		// Reverse iteration with a plain prefix seeks from the prefix
		// itself, which badger treats as the upper bound in reverse
		// mode; nothing has been seen yet so this is a true "no
		// position" state and Previous will report false immediately.
		c.iter.Seek(c.prefix)
	default:
		c.iter.Seek(c.lastKey)
		// Seek lands on or after lastKey going forward, on or before
		// going backward; either way skip past the key already
		// returned so the same entry is not yielded twice.
		if c.iter.Valid() && string(c.iter.Item().Key()) == string(c.lastKey) {
			c.iter.Next()
		}
	}
}

func (c *cursor) advance(reverse bool) (bool, error) {
	if c.closed {
		return false, badger.ErrDBClosed
	}
	fresh := c.iter == nil || c.reverse != reverse
	c.ensureIterator(reverse)
	if !fresh && c.hasCurrent {
		c.iter.Next()
	}

	if !c.iter.ValidForPrefix(c.prefix) {
		c.hasCurrent = false
		return false, nil
	}

	item := c.iter.Item()
	key := append([]byte{}, item.Key()...)
	rdn := string(key[len(c.prefix):])

	var childID uuid.UUID
	err := item.Value(func(val []byte) error {
		copy(childID[:], val)
		return nil
	})
	if err != nil {
		return false, err
	}

	c.lastKey = key
	c.current = dirindex.IndexEntry[uuid.UUID]{
		Key: dirindex.ParentIDAndRdn[uuid.UUID]{ParentID: c.parentID, Rdn: rdn},
		ID:  childID,
	}
	c.hasCurrent = true
	c.started = true
	return true, nil
}

// Next implements dirindex.Cursor.
func (c *cursor) Next() (bool, error) { return c.advance(false) }

// Previous implements dirindex.Cursor.
func (c *cursor) Previous() (bool, error) { return c.advance(true) }

// Get implements dirindex.Cursor.
func (c *cursor) Get() (dirindex.IndexEntry[uuid.UUID], error) {
	if !c.hasCurrent {
		return dirindex.IndexEntry[uuid.UUID]{}, dirindex.ErrNoCurrentEntry
	}
	return c.current, nil
}

// Close releases the iterator and the read transaction it holds.
func (c *cursor) Close(cause error) error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.iter != nil {
		c.iter.Close()
	}
	c.txn.Discard()
	return nil
}
