package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	zfs "github.com/crobird/zoia-patch-manager/internal/fs"
)

// Scan builds fresh entries for every name in names that ends in [Suffix].
// Entries are active with no preferred slot and keep the order of names.
func Scan(dir string, names []string) []Entry {
	entries := make([]Entry, 0, len(names))

	for _, name := range names {
		if !strings.HasSuffix(name, Suffix) {
			continue
		}

		entries = append(entries, Entry{
			FullPath: filepath.Join(dir, name),
			FileName: name,
			Name:     DisplayName(name),
			Active:   true,
		})
	}

	return entries
}

// ScanDir lists dir and returns an entry for each patch file in it.
//
// Subdirectories are ignored. Names are sorted so that gap filling in
// [Allocate] does not depend on the platform's listing order.
func ScanDir(fsys zfs.FS, dir string) ([]Entry, error) {
	return ScanDirAs(fsys, dir, dir)
}

// ScanDirAs lists dir like [ScanDir] but builds each FullPath under as,
// usually the patch dir as the user wrote it.
func ScanDirAs(fsys zfs.FS, dir, as string) ([]Entry, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: patch dir %s", ErrMissingInput, dir)
		}

		return nil, fmt.Errorf("stat patch dir: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	dirEntries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading patch dir: %w", err)
	}

	names := make([]string, 0, len(dirEntries))

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		names = append(names, de.Name())
	}

	slices.Sort(names)

	return Scan(as, names), nil
}
