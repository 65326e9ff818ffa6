package cli

import (
	"context"
	"errors"

	"github.com/crobird/zoia-patch-manager/internal/patch"
	"github.com/crobird/zoia-patch-manager/internal/preset"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
)

// ConfigStatsCmd returns the config-stats command.
func ConfigStatsCmd(d *deps) *Command {
	flags := flag.NewFlagSet("config-stats", flag.ContinueOnError)
	flags.StringP("config", "c", "", "Config `file` (default from settings)")
	flags.StringP("patch-dir", "p", "", "Patch `dir` to compare against (default from settings)")

	return &Command{
		Flags:   flags,
		Usage:   "config-stats [flags]",
		Aliases: []string{"config_stats"},
		Short:   "Provide some stats about a config file",
		Long: `Print patch counts and preferred indexes of a config.

Preferred indexes requested by more than one patch are marked with '*'. The
patch that comes first in the config gets the slot; the others are placed in
free slots. If the patch directory exists, patches missing from it and patches
not yet in the config are listed too.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execConfigStats(o, d, flags, args)
		},
	}
}

func execConfigStats(o *IO, d *deps, flags *flag.FlagSet, args []string) error {
	if err := rejectArgs(args); err != nil {
		return err
	}

	configPath, err := resolveFlag(flags, "config", d.cfg, d.cfg.PatchConfigAbs())
	if err != nil {
		return err
	}

	patchDir, err := resolveFlag(flags, "patch-dir", d.cfg, d.cfg.PatchDirAbs())
	if err != nil {
		return err
	}

	entries, err := preset.Load(d.fs, configPath)
	if err != nil {
		return err
	}

	report := patch.Stats(entries)

	conflict := color.New(color.FgRed, color.Bold)
	if d.color {
		conflict.EnableColor()
	} else {
		conflict.DisableColor()
	}

	o.Println(configPath)
	o.Println()
	o.Printf("total patches: %d\n", report.Total)
	o.Printf("active patches: %d\n", report.Active)
	o.Println()
	o.Printf("patches with preferred index: %d\n", report.PreferredCount())

	for _, req := range report.Preferred {
		marker := " "
		if req.Conflict() {
			marker = conflict.Sprint("*")
		}

		for _, name := range req.Names {
			o.Printf("\t%s[%d] %s\n", marker, req.Slot, name)
		}
	}

	fresh, err := patch.ScanDir(d.fs, patchDir)
	if err != nil {
		if errors.Is(err, patch.ErrMissingInput) {
			return nil
		}

		return err
	}

	drift := patch.DriftFunc(entries, fresh, d.identity)
	if drift.Empty() {
		return nil
	}

	o.Println()
	o.Printf("missing from %s: %d\n", patchDir, len(drift.Missing))

	for _, e := range drift.Missing {
		o.Printf("\t%s\n", e.FileName)
	}

	o.Printf("not in config: %d\n", len(drift.Untracked))

	for _, e := range drift.Untracked {
		o.Printf("\t%s\n", e.FileName)
	}

	return nil
}
