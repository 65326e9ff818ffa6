package patch

import "fmt"

// Allocation is the result of [Allocate].
type Allocation struct {
	// Slots has one cell per slot. A nil cell is empty.
	Slots []*Entry

	// Dropped are active entries that did not fit on the page,
	// in the order they were presented.
	Dropped []Entry
}

// Placement is an entry together with the slot it was assigned.
type Placement struct {
	Index int
	Entry Entry
}

// Placed returns the filled cells in ascending slot order.
func (a Allocation) Placed() []Placement {
	placed := make([]Placement, 0, len(a.Slots))

	for i, e := range a.Slots {
		if e == nil {
			continue
		}

		placed = append(placed, Placement{Index: i, Entry: *e})
	}

	return placed
}

// Truncated reports whether any active entry was dropped for lack of room.
func (a Allocation) Truncated() bool {
	return len(a.Dropped) > 0
}

// Allocate assigns active entries to slots in a table of pageSize cells.
//
// Entries are processed in order. Inactive entries never get a slot and do
// not count toward capacity. An active entry pinned to a free slot claims it;
// when two entries pin the same slot the earlier one wins and the later one
// falls back to gap filling. Remaining entries fill the empty cells in
// ascending slot order, first in first out. Once pageSize active entries
// have been considered, every later active entry is reported in
// [Allocation.Dropped].
//
// A pinned slot outside [0, pageSize) fails with [ErrSlotOutOfRange].
func Allocate(entries []Entry, pageSize int) (Allocation, error) {
	if pageSize <= 0 {
		return Allocation{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	slots := make([]*Entry, pageSize)

	var (
		unplaced []*Entry
		dropped  []Entry
	)

	considered := 0

	for i := range entries {
		entry := &entries[i]

		if !entry.Active {
			continue
		}

		if considered >= pageSize {
			dropped = append(dropped, *entry)

			continue
		}

		considered++

		slot, pinned := entry.Slot()
		if pinned && !ValidSlot(slot, pageSize) {
			return Allocation{}, fmt.Errorf("%w: %s wants slot %d, page has %d", ErrSlotOutOfRange, entry.Name, slot, pageSize)
		}

		if pinned && slots[slot] == nil {
			slots[slot] = copyEntry(entry)

			continue
		}

		unplaced = append(unplaced, entry)
	}

	for i := 0; i < pageSize && len(unplaced) > 0; i++ {
		if slots[i] != nil {
			continue
		}

		slots[i] = copyEntry(unplaced[0])
		unplaced = unplaced[1:]
	}

	return Allocation{Slots: slots, Dropped: dropped}, nil
}

// copyEntry detaches the table from the caller's slice.
func copyEntry(e *Entry) *Entry {
	c := *e
	if e.PreferredIndex != nil {
		c.PreferredIndex = Index(*e.PreferredIndex)
	}

	return &c
}
