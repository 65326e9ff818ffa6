package patch

import (
	"maps"
	"slices"
)

// SlotRequest lists the patches that asked for one slot.
type SlotRequest struct {
	Slot  int
	Names []string
}

// Conflict reports whether more than one patch wants the slot.
func (r SlotRequest) Conflict() bool {
	return len(r.Names) > 1
}

// Report summarizes a collection of entries.
type Report struct {
	Total  int
	Active int

	// Preferred is sorted by slot. Names keep collection order.
	Preferred []SlotRequest
}

// PreferredCount is the number of entries with a preferred slot.
func (r Report) PreferredCount() int {
	n := 0
	for _, req := range r.Preferred {
		n += len(req.Names)
	}

	return n
}

// Conflicts returns the requests for slots wanted by more than one patch.
func (r Report) Conflicts() []SlotRequest {
	var conflicts []SlotRequest

	for _, req := range r.Preferred {
		if req.Conflict() {
			conflicts = append(conflicts, req)
		}
	}

	return conflicts
}

// Stats computes totals and groups pinned entries by slot.
// Conflicts are informational; [Allocate] resolves them by order.
func Stats(entries []Entry) Report {
	report := Report{Total: len(entries)}
	bySlot := make(map[int][]string)

	for _, e := range entries {
		if e.Active {
			report.Active++
		}

		if slot, ok := e.Slot(); ok {
			bySlot[slot] = append(bySlot[slot], e.Name)
		}
	}

	for _, slot := range slices.Sorted(maps.Keys(bySlot)) {
		report.Preferred = append(report.Preferred, SlotRequest{Slot: slot, Names: bySlot[slot]})
	}

	return report
}
