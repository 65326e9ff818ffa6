package cli

import (
	"context"
	"fmt"

	"github.com/crobird/zoia-patch-manager/internal/patch"
	"github.com/crobird/zoia-patch-manager/internal/preset"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

// CreateConfigCmd returns the create-config command.
func CreateConfigCmd(d *deps) *Command {
	flags := flag.NewFlagSet("create-config", flag.ContinueOnError)
	flags.StringP("patch-dir", "p", "", "Patch `dir` to scan (default from settings)")
	flags.StringP("output-config", "o", "", "Output config `file` (default from settings)")
	flags.StringP("input-config", "i", "", "Existing config `file` whose preferences are kept")
	flags.BoolP("force", "f", false, "Overwrite the output config without asking")

	return &Command{
		Flags:   flags,
		Usage:   "create-config [flags]",
		Aliases: []string{"create_config"},
		Short:   "Create a config from ZOIA patch files",
		Long: `Scan a patch directory and write a config listing every patch.

With --input-config, active flags and preferred indexes from that config are
kept for patches that are still present. Patches that disappeared are dropped
and new patches are added as active with no preferred index.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execCreateConfig(o, d, flags, args)
		},
	}
}

func execCreateConfig(o *IO, d *deps, flags *flag.FlagSet, args []string) error {
	if err := rejectArgs(args); err != nil {
		return err
	}

	patchDirGiven, err := givenFlag(flags, "patch-dir", d.cfg.PatchDir)
	if err != nil {
		return err
	}

	patchDir := d.cfg.Resolve(patchDirGiven)

	output, err := resolveFlag(flags, "output-config", d.cfg, d.cfg.PatchConfigAbs())
	if err != nil {
		return err
	}

	input, err := resolveFlag(flags, "input-config", d.cfg, "")
	if err != nil {
		return err
	}

	force, _ := flags.GetBool("force")

	entries, err := patch.ScanDirAs(d.fs, patchDir, patchDirGiven)
	if err != nil {
		return err
	}

	d.log.Debug("scanned patch dir", zap.String("dir", patchDir), zap.Int("patches", len(entries)))

	if input != "" {
		saved, err := preset.Load(d.fs, input)
		if err != nil {
			return err
		}

		drift := patch.DriftFunc(saved, entries, d.identity)
		d.log.Debug("merging config",
			zap.String("input", input),
			zap.Int("kept", len(saved)-len(drift.Missing)),
			zap.Int("dropped", len(drift.Missing)),
			zap.Int("new", len(drift.Untracked)),
		)

		entries = patch.MergeFunc(entries, saved, d.identity)
	}

	if !force && output != input {
		exists, err := d.fs.Exists(output)
		if err != nil {
			return fmt.Errorf("checking %s: %w", output, err)
		}

		if exists {
			ok, err := d.confirm.Confirm(fmt.Sprintf("The file '%s' already exists. Overwrite? y/[n] ", output))
			if err != nil {
				return err
			}

			if !ok {
				return errDeclined
			}
		}
	}

	if err := preset.Save(d.fs, output, entries); err != nil {
		return err
	}

	o.Printf("Wrote patch config to %s.\n", output)

	return nil
}
