package cli

import (
	"context"

	"github.com/crobird/zoia-patch-manager/internal/patch"
	"github.com/crobird/zoia-patch-manager/internal/preset"

	flag "github.com/spf13/pflag"
)

// PlanCmd returns the plan command.
func PlanCmd(d *deps) *Command {
	flags := flag.NewFlagSet("plan", flag.ContinueOnError)
	flags.StringP("config", "c", "", "Config `file` (default from settings)")

	return &Command{
		Flags: flags,
		Usage: "plan [flags]",
		Short: "Show the slot each patch would be copied to",
		Long: `Show the slot table copy-files would write, without touching any files.

Each line is the slot index followed by the patch name.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execPlan(o, d, flags, args)
		},
	}
}

func execPlan(o *IO, d *deps, flags *flag.FlagSet, args []string) error {
	if err := rejectArgs(args); err != nil {
		return err
	}

	configPath, err := resolveFlag(flags, "config", d.cfg, d.cfg.PatchConfigAbs())
	if err != nil {
		return err
	}

	entries, err := preset.Load(d.fs, configPath)
	if err != nil {
		return err
	}

	alloc, err := patch.Allocate(entries, patch.PageSize)
	if err != nil {
		return err
	}

	warnTruncated(o, alloc)

	for _, p := range alloc.Placed() {
		o.Printf("%03d %s\n", p.Index, p.Entry.Name)
	}

	return nil
}
