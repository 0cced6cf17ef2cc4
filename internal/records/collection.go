package records

import (
	"slices"
	"sync"
)

// Collection holds the records of the active game. The sequence is never
// modified in place: every change installs a new slice and bumps Version.
type Collection struct {
	mu       sync.RWMutex
	records  []Record
	version  uint64
	selected *Record
}

// NewCollection takes ownership of rs.
func NewCollection(rs []Record) *Collection {
	if rs == nil {
		rs = []Record{}
	}
	return &Collection{records: rs}
}

// Records returns the current sequence. Callers must treat it as read-only.
func (c *Collection) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records
}

// Version is incremented on every replacement.
func (c *Collection) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Replace installs rs as the new sequence.
func (c *Collection) Replace(rs []Record) {
	if rs == nil {
		rs = []Record{}
	}
	c.mu.Lock()
	c.records = rs
	c.version++
	c.mu.Unlock()
}

// Append installs a copy of the sequence with r added at the end.
func (c *Collection) Append(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]Record, 0, len(c.records)+1)
	next = append(next, c.records...)
	next = append(next, r)
	c.records = next
	c.version++
}

// ReplaceByID installs a copy of the sequence in which the element with r's
// id is r. It reports false, leaving the collection untouched, when no
// element matches.
func (c *Collection) ReplaceByID(r Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.records, func(e Record) bool { return e.ID == r.ID })
	if i < 0 {
		return false
	}
	next := slices.Clone(c.records)
	next[i] = r
	c.records = next
	c.version++
	if c.selected != nil && c.selected.ID == r.ID {
		sel := r
		c.selected = &sel
	}
	return true
}

// RemoveByID installs a copy of the sequence without the record id and
// clears the selection when it pointed at that record.
func (c *Collection) RemoveByID(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.records, func(e Record) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	next := make([]Record, 0, len(c.records)-1)
	next = append(next, c.records[:i]...)
	next = append(next, c.records[i+1:]...)
	c.records = next
	c.version++
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	return true
}

// Find returns the record with the given id.
func (c *Collection) Find(id int64) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Select marks the record with the given id as selected.
func (c *Collection) Select(id int64) bool {
	r, ok := c.Find(id)
	if !ok {
		return false
	}
	c.SetSelected(r)
	return true
}

// SetSelected replaces the selected record reference.
func (c *Collection) SetSelected(r Record) {
	c.mu.Lock()
	c.selected = &r
	c.mu.Unlock()
}

// Selected returns the selected record, if any.
func (c *Collection) Selected() (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == nil {
		return Record{}, false
	}
	return *c.selected, true
}

func (c *Collection) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}
