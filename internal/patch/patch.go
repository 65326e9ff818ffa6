// Package patch holds the ZOIA patch model and the pure logic that turns a
// directory of patch files into an ordered slot table.
//
// The main pieces are:
//   - [Entry]: one patch file with its activity flag and optional pinned slot
//   - [Scan] / [ScanDir]: build fresh entries from a directory listing
//   - [Merge]: overlay previously saved preferences onto a fresh scan
//   - [Allocate]: pack active entries into a [PageSize] slot table
//   - [Stats]: aggregate counts and preferred-slot conflicts for display
package patch

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PageSize is the number of slots on one ZOIA patch page.
const PageSize = 64

// Suffix is the file extension of ZOIA patch payloads.
const Suffix = ".bin"

// slotSeparator sits between the zero-padded slot index and the patch name
// in file names the pedal reads ("007_zoia_name.bin").
const slotSeparator = "_zoia_"

var indexPrefix = regexp.MustCompile(`^\d\d\d` + slotSeparator)

// Entry is one patch file.
//
// FullPath is both the identity used to match entries across scans and the
// location the payload is copied from. It is never empty.
type Entry struct {
	FullPath string
	FileName string
	Name     string
	Active   bool

	// PreferredIndex is the slot the user pinned this patch to.
	// Nil means no preference. Zero is a valid slot.
	PreferredIndex *int
}

// HasPreference reports whether the entry is pinned to a slot.
func (e Entry) HasPreference() bool {
	return e.PreferredIndex != nil
}

// Slot returns the pinned slot and whether one is set.
func (e Entry) Slot() (int, bool) {
	if e.PreferredIndex == nil {
		return 0, false
	}

	return *e.PreferredIndex, true
}

// Index returns a pointer to slot, for use as [Entry.PreferredIndex].
func Index(slot int) *int {
	return &slot
}

// DisplayName strips a leading "NNN_zoia_" slot prefix from a file name.
// Names without the prefix are returned unchanged.
func DisplayName(fileName string) string {
	return indexPrefix.ReplaceAllString(fileName, "")
}

// DestName builds the on-card file name for a patch placed in slot index.
func DestName(index int, name string) string {
	return fmt.Sprintf("%03d%s%s", index, slotSeparator, name)
}

// ValidSlot reports whether slot addresses a cell in a table of pageSize.
func ValidSlot(slot, pageSize int) bool {
	return slot >= 0 && slot < pageSize
}

// ValidFileName reports whether name is a single path element that stays
// inside the directory it is joined to.
func ValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
