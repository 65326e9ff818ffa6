// Package preset reads and writes zman preference files.
//
// A preference file is a JSON array with one object per patch:
//
//	[
//	    {
//	        "active": true,
//	        "file_name": "012_zoia_shimmer.bin",
//	        "full_path": "patches/012_zoia_shimmer.bin",
//	        "name": "shimmer.bin",
//	        "preferred_index": 12
//	    }
//	]
//
// Files are written atomically with sorted keys and four-space indentation.
// Reading accepts JSONC (comments, trailing commas) so hand-edited files keep
// working, but every record is validated before it becomes a [patch.Entry].
package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	zfs "github.com/crobird/zoia-patch-manager/internal/fs"
	"github.com/crobird/zoia-patch-manager/internal/patch"

	"github.com/tailscale/hujson"
)

const filePerms = 0o644

var errNotArray = errors.New("top level must be an array of patch records")

// record is the on-disk shape. Fields are declared in key order so the
// encoder emits sorted keys.
type record struct {
	Active         bool   `json:"active"`
	FileName       string `json:"file_name"`
	FullPath       string `json:"full_path"`
	Name           string `json:"name"`
	PreferredIndex *int   `json:"preferred_index"`
}

// rawRecord is what Decode accepts. Pointers distinguish absent from zero.
type rawRecord struct {
	Active         *bool   `json:"active"`
	FileName       *string `json:"file_name"`
	FullPath       *string `json:"full_path"`
	Name           *string `json:"name"`
	PreferredIndex *int    `json:"preferred_index"`
}

// Encode renders entries as a preference document.
func Encode(entries []patch.Entry) ([]byte, error) {
	records := make([]record, 0, len(entries))

	for _, e := range entries {
		records = append(records, record{
			Active:         e.Active,
			FileName:       e.FileName,
			FullPath:       e.FullPath,
			Name:           e.Name,
			PreferredIndex: e.PreferredIndex,
		})
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	return data, nil
}

// Decode parses a preference document.
//
// Every failure wraps [patch.ErrConfigParse]: invalid JSON, a top level that
// is not an array, unknown keys, a missing full_path, file_name or name, an
// empty full_path, a preferred_index outside [0, [patch.PageSize]) and
// duplicate full_path values. A missing active field defaults to true.
func Decode(data []byte) ([]patch.Entry, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSONC: %w", patch.ErrConfigParse, err)
	}

	trimmed := bytes.TrimSpace(standardized)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %w", patch.ErrConfigParse, errNotArray)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var raws []rawRecord

	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("%w: %w", patch.ErrConfigParse, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after array", patch.ErrConfigParse)
	}

	entries := make([]patch.Entry, 0, len(raws))
	seen := make(map[string]int, len(raws))

	for i, raw := range raws {
		entry, err := raw.entry()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", patch.ErrConfigParse, i, err)
		}

		if first, dup := seen[entry.FullPath]; dup {
			return nil, fmt.Errorf("%w: record %d: %w %s (first seen in record %d)",
				patch.ErrConfigParse, i, patch.ErrDuplicateEntries, entry.FullPath, first)
		}

		seen[entry.FullPath] = i
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r rawRecord) entry() (patch.Entry, error) {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"full_path", r.FullPath},
		{"file_name", r.FileName},
		{"name", r.Name},
	} {
		if field.value == nil {
			return patch.Entry{}, fmt.Errorf("%w: %s", patch.ErrMissingField, field.name)
		}
	}

	if *r.FullPath == "" {
		return patch.Entry{}, patch.ErrEmptyFullPath
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"file_name", *r.FileName},
		{"name", *r.Name},
	} {
		if !patch.ValidFileName(field.value) {
			return patch.Entry{}, fmt.Errorf("%w: %s %q", patch.ErrUnsafeName, field.name, field.value)
		}
	}

	if r.PreferredIndex != nil && !patch.ValidSlot(*r.PreferredIndex, patch.PageSize) {
		return patch.Entry{}, fmt.Errorf("%w: %d (must be 0-%d)", patch.ErrSlotOutOfRange, *r.PreferredIndex, patch.PageSize-1)
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return patch.Entry{
		FullPath:       *r.FullPath,
		FileName:       *r.FileName,
		Name:           *r.Name,
		Active:         active,
		PreferredIndex: r.PreferredIndex,
	}, nil
}

// Load reads and decodes the preference file at path.
// A missing file fails with [patch.ErrMissingInput].
func Load(fsys zfs.FS, path string) ([]patch.Entry, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: config %s", patch.ErrMissingInput, path)
		}

		return nil, fmt.Errorf("reading config: %w", err)
	}

	entries, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return entries, nil
}

// Save writes entries to path as one complete document.
func Save(fsys zfs.FS, path string, entries []patch.Entry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}

	if err := fsys.WriteFileAtomic(path, data, filePerms); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
