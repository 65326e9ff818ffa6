package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/crobird/zoia-patch-manager/internal/card"
	"github.com/crobird/zoia-patch-manager/internal/patch"
	"github.com/crobird/zoia-patch-manager/internal/preset"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

// CopyFilesCmd returns the copy-files command.
func CopyFilesCmd(d *deps) *Command {
	flags := flag.NewFlagSet("copy-files", flag.ContinueOnError)
	flags.StringP("config", "c", "", "Config `file` (default from settings)")
	flags.StringP("dest-dir", "d", "", "Destination patch `dir` (default from settings)")
	flags.BoolP("force", "f", false, "Delete existing files in the destination without asking")

	return &Command{
		Flags:   flags,
		Usage:   "copy-files [flags]",
		Aliases: []string{"copy_files"},
		Short:   "Copy patch files to a destination folder",
		Long: `Copy the active patches of a config to a destination folder, usually the
to_zoia folder of the ZOIA's SD card.

Patches with a preferred index are placed first. The remaining patches fill
the free slots in config order. Existing files in the destination are deleted
first (hidden files are kept). Only one page of 64 patches is supported;
extra patches are skipped with a warning.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execCopyFiles(o, d, flags, args)
		},
	}
}

func execCopyFiles(o *IO, d *deps, flags *flag.FlagSet, args []string) error {
	if err := rejectArgs(args); err != nil {
		return err
	}

	configPath, err := resolveFlag(flags, "config", d.cfg, d.cfg.PatchConfigAbs())
	if err != nil {
		return err
	}

	destDir, err := resolveFlag(flags, "dest-dir", d.cfg, d.cfg.DestDirAbs())
	if err != nil {
		return err
	}

	force, _ := flags.GetBool("force")

	// Everything that can fail on bad input happens before the destination
	// is touched, including missing patch files.
	entries, err := preset.Load(d.fs, configPath)
	if err != nil {
		return err
	}

	d.resolveEntries(entries)

	alloc, err := patch.Allocate(entries, patch.PageSize)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !e.Active {
			d.log.Debug("skipping inactive patch", zap.String("name", e.Name))
		}
	}

	if err := checkSources(d, alloc); err != nil {
		return err
	}

	warnTruncated(o, alloc)

	exists, err := d.fs.Exists(destDir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", destDir, err)
	}

	if exists && !force {
		ok, err := d.confirm.Confirm(fmt.Sprintf("Going to delete existing files in %s. Okay? y/[n] ", destDir))
		if err != nil {
			return err
		}

		if !ok {
			return errDeclined
		}
	}

	if err := card.Prepare(d.fs, destDir, d.log); err != nil {
		return err
	}

	created, err := card.Write(d.fs, alloc, destDir, d.log)
	if err != nil {
		return err
	}

	o.Printf("Copied %d patches to %s.\n", len(created), destDir)

	return nil
}

// checkSources fails if any placed patch file is missing or not a regular
// file.
func checkSources(d *deps, alloc patch.Allocation) error {
	for _, p := range alloc.Placed() {
		info, err := d.fs.Stat(p.Entry.FullPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: slot %d (%s): %s", patch.ErrMissingInput, p.Index, p.Entry.Name, p.Entry.FullPath)
			}

			return fmt.Errorf("slot %d (%s): %w", p.Index, p.Entry.Name, err)
		}

		if info.IsDir() {
			return fmt.Errorf("slot %d (%s): %s is a directory", p.Index, p.Entry.Name, p.Entry.FullPath)
		}
	}

	return nil
}

// warnTruncated records a warning naming the patches that did not fit.
func warnTruncated(o *IO, alloc patch.Allocation) {
	if !alloc.Truncated() {
		return
	}

	names := make([]string, 0, len(alloc.Dropped))
	for _, e := range alloc.Dropped {
		names = append(names, e.Name)
	}

	o.Warn(
		fmt.Sprintf("hit patch limit of %d, multiple pages not supported", patch.PageSize),
		fmt.Sprintf("skipped %d patch(es): %s", len(alloc.Dropped), strings.Join(names, ", ")),
	)
}
