package patch_test

import (
	"testing"

	"github.com/crobird/zoia-patch-manager/internal/patch"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	t.Parallel()

	entries := []patch.Entry{
		pinned("late", 60),
		entry("free"),
		pinned("x", 5),
		inactive("off"),
		pinned("y", 5),
		pinned("zero", 0),
	}

	report := patch.Stats(entries)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 5, report.Active)
	assert.Equal(t, 4, report.PreferredCount())

	want := []patch.SlotRequest{
		{Slot: 0, Names: []string{"zero"}},
		{Slot: 5, Names: []string{"x", "y"}},
		{Slot: 60, Names: []string{"late"}},
	}
	if diff := cmp.Diff(want, report.Preferred); diff != "" {
		t.Fatalf("Preferred mismatch (-want +got):\n%s", diff)
	}

	conflicts := report.Conflicts()
	if assert.Len(t, conflicts, 1) {
		assert.Equal(t, 5, conflicts[0].Slot)
		assert.True(t, conflicts[0].Conflict())
	}
}

func TestStats_Empty(t *testing.T) {
	t.Parallel()

	report := patch.Stats(nil)

	assert.Zero(t, report.Total)
	assert.Zero(t, report.Active)
	assert.Zero(t, report.PreferredCount())
	assert.Empty(t, report.Preferred)
	assert.Empty(t, report.Conflicts())
}
