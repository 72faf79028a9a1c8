// Package cursor implements the one-level children cursor: given an
// ordered index of (parentId, rdn) -> id, it streams every entry whose
// key's parentId equals a target, in the index's natural order,
// supporting bidirectional navigation and a strict open/close
// lifecycle.
package cursor

import "github.com/dirsrv/kdc/pkg/dirindex"

// OneLevelChildrenCursor wraps a positioned dirindex.Cursor and
// restricts it to the contiguous run of keys sharing one parentID.
// Not safe for concurrent use: each cursor is owned by one reader at a
// time, matching the single read-transaction snapshot it holds for
// its lifetime.
type OneLevelChildrenCursor[ID comparable] struct {
	underlying dirindex.Cursor[ID]
	parentID   ID

	closed     bool
	available  bool
	prefetched dirindex.IndexEntry[ID]
}

// New wraps underlying, which the caller must already have positioned
// at the greatest-lower-bound of (parentID, "") via
// dirindex.Index.SeekChildren.
func New[ID comparable](underlying dirindex.Cursor[ID], parentID ID) *OneLevelChildrenCursor[ID] {
	return &OneLevelChildrenCursor[ID]{underlying: underlying, parentID: parentID}
}

// Next advances to the next matching entry. It returns false, with no
// error, once the underlying cursor is exhausted or the next key
// belongs to a different parent. The false return is not latched: each
// later Next advances the underlying cursor again.
func (c *OneLevelChildrenCursor[ID]) Next() (bool, error) {
	if c.closed {
		return false, ErrClosed
	}

	ok, err := c.underlying.Next()
	if err != nil {
		c.available = false
		return false, err
	}
	if !ok {
		c.available = false
		return false, nil
	}

	entry, err := c.underlying.Get()
	if err != nil {
		c.available = false
		return false, err
	}
	if entry.Key.ParentID != c.parentID {
		c.available = false
		return false, nil
	}

	c.prefetched = dirindex.IndexEntry[ID]{
		Key: dirindex.ParentIDAndRdn[ID]{ParentID: c.parentID, Rdn: entry.Key.Rdn},
		ID:  entry.ID,
	}
	c.available = true
	return true, nil
}

// Previous is the symmetric, backward-moving counterpart of Next.
func (c *OneLevelChildrenCursor[ID]) Previous() (bool, error) {
	if c.closed {
		return false, ErrClosed
	}

	ok, err := c.underlying.Previous()
	if err != nil {
		c.available = false
		return false, err
	}
	if !ok {
		c.available = false
		return false, nil
	}

	entry, err := c.underlying.Get()
	if err != nil {
		c.available = false
		return false, err
	}
	if entry.Key.ParentID != c.parentID {
		c.available = false
		return false, nil
	}

	c.prefetched = dirindex.IndexEntry[ID]{
		Key: dirindex.ParentIDAndRdn[ID]{ParentID: c.parentID, Rdn: entry.Key.Rdn},
		ID:  entry.ID,
	}
	c.available = true
	return true, nil
}

// BeforeFirst marks the cursor as having no current element, so Get
// reports ErrNotAvailable. It does not reposition the underlying
// cursor: the following Next continues from wherever the underlying
// cursor stands, and returns the first matching entry only if the
// cursor has not been advanced since New.
func (c *OneLevelChildrenCursor[ID]) BeforeFirst() error {
	if c.closed {
		return ErrClosed
	}
	c.available = false
	return nil
}

// First is equivalent to BeforeFirst followed by Next, so it returns
// the first matching entry only on a cursor not yet advanced since New.
func (c *OneLevelChildrenCursor[ID]) First() (bool, error) {
	if err := c.BeforeFirst(); err != nil {
		return false, err
	}
	return c.Next()
}

// Last is unsupported by this cursor: reverse scans start from
// wherever the caller positioned the underlying cursor, not from a
// well-defined end of the children set.
func (c *OneLevelChildrenCursor[ID]) Last() (bool, error) {
	return false, ErrUnsupported
}

// AfterLast is unsupported for the same reason as Last.
func (c *OneLevelChildrenCursor[ID]) AfterLast() error {
	return ErrUnsupported
}

// Get returns the entry cached by the most recent true-returning
// Next/Previous call. Calling Get without such a call first is a
// contract violation.
func (c *OneLevelChildrenCursor[ID]) Get() (dirindex.IndexEntry[ID], error) {
	if c.closed {
		return dirindex.IndexEntry[ID]{}, ErrClosed
	}
	if !c.available {
		return dirindex.IndexEntry[ID]{}, ErrNotAvailable
	}
	return c.prefetched, nil
}

// Close releases the underlying cursor's snapshot. Idempotent: a
// second call is a no-op. cause, if non-nil, describes why the
// closure is abnormal and is forwarded to the underlying cursor's
// Close so it can distinguish a clean drain from an early abandonment.
func (c *OneLevelChildrenCursor[ID]) Close(cause error) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.available = false
	return c.underlying.Close(cause)
}
