// Package card writes an allocated slot table to a destination directory,
// usually the to_zoia folder on the pedal's SD card.
package card

import (
	"fmt"
	"path/filepath"
	"strings"

	zfs "github.com/crobird/zoia-patch-manager/internal/fs"
	"github.com/crobird/zoia-patch-manager/internal/patch"

	"go.uber.org/zap"
)

const dirPerms = 0o755

// Clear removes every entry in dir whose name does not start with a dot.
// Hidden entries (".Spotlight-V100", ".Trashes", ...) are left alone.
// Returns the removed paths in listing order.
func Clear(fsys zfs.FS, dir string, log *zap.Logger) ([]string, error) {
	log.Debug("deleting files", zap.String("dir", dir))

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var removed []string

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, e.Name())

		if err := fsys.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}

		log.Debug("deleted", zap.String("path", path))
		removed = append(removed, path)
	}

	return removed, nil
}

// Prepare makes dir ready for [Write]: it is created if absent, otherwise
// cleared with [Clear].
func Prepare(fsys zfs.FS, dir string, log *zap.Logger) error {
	exists, err := fsys.Exists(dir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, err)
	}

	if !exists {
		log.Debug("creating destination", zap.String("dir", dir))

		if err := fsys.MkdirAll(dir, dirPerms); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		return nil
	}

	_, err = Clear(fsys, dir, log)

	return err
}

// Write copies every placed entry of alloc into dir under its slot name
// ("NNN_zoia_<name>"), replacing files that already exist. Returns the
// created paths in slot order.
func Write(fsys zfs.FS, alloc patch.Allocation, dir string, log *zap.Logger) ([]string, error) {
	placed := alloc.Placed()
	created := make([]string, 0, len(placed))

	for _, p := range placed {
		if !patch.ValidFileName(p.Entry.Name) {
			return created, fmt.Errorf("slot %d: %w: %q", p.Index, patch.ErrUnsafeName, p.Entry.Name)
		}

		dest := filepath.Join(dir, patch.DestName(p.Index, p.Entry.Name))

		if err := zfs.CopyFile(fsys, p.Entry.FullPath, dest); err != nil {
			return created, fmt.Errorf("slot %d (%s): %w", p.Index, p.Entry.Name, err)
		}

		log.Debug("created", zap.String("path", dest), zap.Int("slot", p.Index))
		created = append(created, dest)
	}

	if err := flush(); err != nil {
		log.Warn("sync after copy failed", zap.Error(err))
	}

	return created, nil
}
