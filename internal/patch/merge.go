package patch

import "path/filepath"

// Merge overlays saved preferences onto a fresh scan.
//
// For each fresh entry, in order, the saved entry with the same FullPath
// (compared after [filepath.Clean]) replaces it if one exists. Saved entries
// whose file is gone are dropped, so the result always has exactly
// len(fresh) entries.
func Merge(fresh, saved []Entry) []Entry {
	return MergeFunc(fresh, saved, filepath.Clean)
}

// MergeFunc is like [Merge] but compares entries by identity(FullPath).
//
// A matched entry keeps the fresh FullPath, so the merged config names
// files the way the scan did.
func MergeFunc(fresh, saved []Entry, identity func(string) string) []Entry {
	byPath := make(map[string]Entry, len(saved))
	for _, e := range saved {
		byPath[identity(e.FullPath)] = e
	}

	merged := make([]Entry, 0, len(fresh))

	for _, e := range fresh {
		if override, ok := byPath[identity(e.FullPath)]; ok {
			override.FullPath = e.FullPath
			merged = append(merged, override)

			continue
		}

		merged = append(merged, e)
	}

	return merged
}

// DriftReport lists the differences between a saved config and a fresh scan.
type DriftReport struct {
	// Missing are saved entries whose file no longer exists.
	Missing []Entry
	// Untracked are scanned files the saved config does not know about.
	Untracked []Entry
}

// Empty reports whether saved and fresh describe the same set of files.
func (d DriftReport) Empty() bool {
	return len(d.Missing) == 0 && len(d.Untracked) == 0
}

// Drift compares saved against fresh by cleaned FullPath.
func Drift(saved, fresh []Entry) DriftReport {
	return DriftFunc(saved, fresh, filepath.Clean)
}

// DriftFunc is like [Drift] but compares entries by identity(FullPath).
func DriftFunc(saved, fresh []Entry, identity func(string) string) DriftReport {
	inSaved := make(map[string]bool, len(saved))
	for _, e := range saved {
		inSaved[identity(e.FullPath)] = true
	}

	inFresh := make(map[string]bool, len(fresh))
	for _, e := range fresh {
		inFresh[identity(e.FullPath)] = true
	}

	var report DriftReport

	for _, e := range saved {
		if !inFresh[identity(e.FullPath)] {
			report.Missing = append(report.Missing, e)
		}
	}

	for _, e := range fresh {
		if !inSaved[identity(e.FullPath)] {
			report.Untracked = append(report.Untracked, e)
		}
	}

	return report
}
