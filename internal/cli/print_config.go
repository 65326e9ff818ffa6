package cli

import (
	"context"

	"github.com/crobird/zoia-patch-manager/internal/config"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved settings",
		Long:  "Display the effective settings and which files they were loaded from.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			if err := rejectArgs(args); err != nil {
				return err
			}

			return execPrintConfig(io, cfg)
		},
	}
}

func execPrintConfig(io *IO, cfg *config.Config) error {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("patch_dir=" + cfg.PatchDirAbs())
	io.Println("dest_dir=" + cfg.DestDirAbs())
	io.Println("patch_config=" + cfg.PatchConfigAbs())

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_settings=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_settings=" + cfg.Sources.Project)
		}
	}

	return nil
}
