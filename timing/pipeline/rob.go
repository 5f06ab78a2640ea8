package pipeline

import "github.com/sarchlab/tomasim/insts"

// DefaultROBSize is the default number of reorder buffer entries.
const DefaultROBSize = 6

// ROBEntry is one reorder buffer slot.
type ROBEntry struct {
	// Busy indicates the entry holds an in-flight instruction.
	Busy bool

	// Tag is the issue sequence number of the instruction.
	Tag uint64

	// Op is the operation of the instruction.
	Op insts.Op

	// Rd is the destination register. Unused by branches.
	Rd uint8

	// Value is the speculative result, valid when Ready is set. For a
	// branch it is 1 when the branch is taken.
	Value int64

	// Ready indicates the result has been written by the CDB.
	Ready bool

	// PredictedTaken is the prediction made for a branch at issue.
	PredictedTaken bool

	// Record is the index of the instruction's record in the timeline.
	Record int
}

// Clear resets the entry to empty state.
func (e *ROBEntry) Clear() {
	*e = ROBEntry{}
}

// ReorderBuffer is a fixed-capacity circular buffer of in-flight
// instructions. Entries are allocated at Tail and retired from Head, so they
// leave the buffer in issue order.
type ReorderBuffer struct {
	Entries []ROBEntry
	Head    int
	Tail    int
	Count   int
}

// NewReorderBuffer creates an empty reorder buffer with the given capacity.
func NewReorderBuffer(capacity int) ReorderBuffer {
	if capacity <= 0 {
		capacity = DefaultROBSize
	}
	return ReorderBuffer{Entries: make([]ROBEntry, capacity)}
}

// Capacity returns the number of entries.
func (b ReorderBuffer) Capacity() int {
	return len(b.Entries)
}

// Len returns the number of in-flight instructions.
func (b ReorderBuffer) Len() int {
	return b.Count
}

// Empty returns true if no instruction is in flight.
func (b ReorderBuffer) Empty() bool {
	return b.Count == 0
}

// Full returns true if no entry is free.
func (b ReorderBuffer) Full() bool {
	return b.Count >= len(b.Entries)
}

// HeadEntry returns the oldest in-flight entry, or nil if the buffer is empty.
func (b *ReorderBuffer) HeadEntry() *ROBEntry {
	if b.Empty() {
		return nil
	}
	return &b.Entries[b.Head]
}

// Allocate claims the entry at Tail and returns its index.
// It returns false when the buffer is full.
func (b *ReorderBuffer) Allocate() (int, bool) {
	if b.Full() {
		return 0, false
	}

	idx := b.Tail
	b.Entries[idx] = ROBEntry{Busy: true}
	b.Tail = (b.Tail + 1) % len(b.Entries)
	b.Count++

	return idx, true
}

// Retire frees the head entry and advances Head.
func (b *ReorderBuffer) Retire() {
	if b.Empty() {
		return
	}
	b.Entries[b.Head].Clear()
	b.Head = (b.Head + 1) % len(b.Entries)
	b.Count--
}

// Reset frees every entry and places both Head and Tail at start.
func (b *ReorderBuffer) Reset(start int) {
	for i := range b.Entries {
		b.Entries[i].Clear()
	}
	b.Head = start % len(b.Entries)
	b.Tail = b.Head
	b.Count = 0
}

// InFlight returns the indices of the busy entries from oldest to youngest.
func (b ReorderBuffer) InFlight() []int {
	indices := make([]int, 0, b.Count)
	for i := 0; i < b.Count; i++ {
		indices = append(indices, (b.Head+i)%len(b.Entries))
	}
	return indices
}

// Clone returns a deep copy of the buffer.
func (b ReorderBuffer) Clone() ReorderBuffer {
	b.Entries = append([]ROBEntry(nil), b.Entries...)
	return b
}
