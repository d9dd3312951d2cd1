// ============================================================================
// Write-History Tracker
// Responsibility:
// 1. Remember every completed write (file, offset, length) pending read-back
// 2. Hand each entry out exactly once when a verification read is scheduled
// ============================================================================

// Package history tracks written regions so the I/O loop can replay them as
// verification reads. The tracker is worker-local and needs no locking; all
// mutation happens on the owning worker's goroutine.
//
// Two structures back the tracker: a btree keyed by offset, and a plain
// FIFO queue. Records land in the btree; a record whose offset is already
// pending overflows to the queue so neither write is lost. Pop order drains
// the btree (lowest offset first) before touching the queue. The result is
// FIFO-ish replay, documented as an approximation: strict temporal order
// across both structures is not guaranteed and consumers must not rely on
// it.
package history

import (
	"github.com/google/btree"

	"github.com/ChuLiYu/disk-hammer/internal/file"
)

// Entry is one completed write eligible for read-back verification. It is
// created when the write finishes, stored in the tracker, and consumed
// exactly once by NextForVerify.
type Entry struct {
	File   *file.File
	Offset int64
	Len    uint64
}

// Less orders entries by target offset within the btree.
func (e *Entry) Less(than btree.Item) bool {
	return e.Offset < than.(*Entry).Offset
}

// Tracker is the per-worker write history.
type Tracker struct {
	idx      *btree.BTree
	overflow []*Entry
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{idx: btree.New(8)}
}

// Record remembers a completed write. If an entry for the same offset is
// already pending, the new record goes to the overflow queue instead of
// displacing the older one.
func (t *Tracker) Record(f *file.File, offset int64, length uint64) {
	e := &Entry{File: f, Offset: offset, Len: length}
	if t.idx.Has(e) {
		t.overflow = append(t.overflow, e)
		return
	}
	t.idx.ReplaceOrInsert(e)
}

// NextForVerify removes and returns the next entry to verify: the lowest
// pending offset while the index is non-empty, then the overflow queue in
// record order. ok is false when no verification work remains.
func (t *Tracker) NextForVerify() (e *Entry, ok bool) {
	if t.idx.Len() > 0 {
		return t.idx.DeleteMin().(*Entry), true
	}
	if len(t.overflow) > 0 {
		e = t.overflow[0]
		t.overflow[0] = nil
		t.overflow = t.overflow[1:]
		return e, true
	}
	return nil, false
}

// Len returns the number of writes still pending verification.
func (t *Tracker) Len() int {
	return t.idx.Len() + len(t.overflow)
}
