package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/ledger/ast"
)

// EntryCollection is an ordered list of entries that hands out stable ids.
// Ids are always exactly 0..n-1 in list order: removing an entry renumbers
// every entry after it.
type EntryCollection struct {
	entries []*ast.Entry
}

// NewEntryCollection creates a collection holding entries.
func NewEntryCollection(entries ...*ast.Entry) (*EntryCollection, error) {
	c := &EntryCollection{}
	if err := c.appendAll(entries); err != nil {
		return nil, err
	}
	return c, nil
}

// Append assigns e the next id and adds it to the end of the collection.
func (c *EntryCollection) Append(e *ast.Entry) error {
	if id, ok := e.ID(); ok {
		return fmt.Errorf("%w: %d", ErrEntryHasID, id)
	}
	e.AssignID(len(c.entries))
	c.entries = append(c.entries, e)
	return nil
}

// Remove takes e out of the collection, clears its id and renumbers the
// entries after it.
func (c *EntryCollection) Remove(e *ast.Entry) error {
	id, ok := e.ID()
	if !ok {
		return ErrEntryHasNoID
	}
	if id >= len(c.entries) || c.entries[id] != e {
		return ErrEntryNotInCollection
	}

	c.entries = append(c.entries[:id], c.entries[id+1:]...)
	e.ClearID()
	for i := id; i < len(c.entries); i++ {
		c.entries[i].AssignID(i)
	}
	return nil
}

// Concat returns a copy of the collection with entries appended. The
// receiver is left unchanged.
func (c *EntryCollection) Concat(entries ...*ast.Entry) (*EntryCollection, error) {
	dup := &EntryCollection{entries: make([]*ast.Entry, len(c.entries), len(c.entries)+len(entries))}
	copy(dup.entries, c.entries)
	if err := dup.appendAll(entries); err != nil {
		return nil, err
	}
	return dup, nil
}

// appendAll appends entries in order. When one is rejected, the ids handed
// out by this call are cleared again and the collection keeps its length.
func (c *EntryCollection) appendAll(entries []*ast.Entry) error {
	start := len(c.entries)
	for _, e := range entries {
		if err := c.Append(e); err != nil {
			for _, added := range c.entries[start:] {
				added.ClearID()
			}
			c.entries = c.entries[:start]
			return err
		}
	}
	return nil
}

// Len returns the number of entries.
func (c *EntryCollection) Len() int {
	return len(c.entries)
}

// At returns the entry with id i.
func (c *EntryCollection) At(i int) *ast.Entry {
	return c.entries[i]
}

// Entries returns a copy of the entry list.
func (c *EntryCollection) Entries() []*ast.Entry {
	return append([]*ast.Entry(nil), c.entries...)
}
