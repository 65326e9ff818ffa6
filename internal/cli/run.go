package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/crobird/zoia-patch-manager/internal/config"
	zfs "github.com/crobird/zoia-patch-manager/internal/fs"
	"github.com/crobird/zoia-patch-manager/internal/patch"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// deps are the collaborators every command receives. Commands never reach
// for process globals; tests swap any of these.
type deps struct {
	cfg     *config.Config
	fs      zfs.FS
	confirm Confirmer
	log     *zap.Logger
	color   bool
}

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	return run(in, out, errOut, args, env, zfs.NewReal())
}

func run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, fsys zfs.FS) int {
	globalFlags := flag.NewFlagSet("zman", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.SetOutput(&strings.Builder{})
	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagSettings := globalFlags.String("settings", "", "Use specified settings `file`")
	flagVerbose := globalFlags.BoolP("verbose", "v", false, "More verbose output")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globalFlags.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *flagCwd,
		SettingsPath:    *flagSettings,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	logger := newLogger(errOut, *flagVerbose)
	defer func() { _ = logger.Sync() }()

	d := &deps{
		cfg:     &cfg,
		fs:      fsys,
		confirm: NewConfirmer(in, out),
		log:     logger,
		color:   isTerminal(out),
	}

	commands := allCommands(d)

	commandAndArgs := globalFlags.Args()
	if *flagHelp || len(commandAndArgs) == 0 {
		printUsage(out, commands)

		return 0
	}

	cmdName := commandAndArgs[0]

	for _, cmd := range commands {
		if !cmd.Matches(cmdName) {
			continue
		}

		o := NewIO(out, errOut)
		code := cmd.Run(context.Background(), o, commandAndArgs[1:])
		o.Finish()

		return code
	}

	fprintln(errOut, "error: unknown command:", cmdName)
	printUsage(errOut, commands)

	return 1
}

func allCommands(d *deps) []*Command {
	return []*Command{
		CreateConfigCmd(d),
		CopyFilesCmd(d),
		ConfigStatsCmd(d),
		PlanCmd(d),
		PrintConfigCmd(d.cfg),
	}
}

// newLogger returns a console logger on w at debug level when verbose,
// and a no-op logger otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)

	return zap.New(core)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveFlag returns the resolved flag value when the flag was given,
// fallback otherwise.
func resolveFlag(flags *flag.FlagSet, name string, cfg *config.Config, fallback string) (string, error) {
	if !flags.Changed(name) {
		return fallback, nil
	}

	value, err := givenFlag(flags, name, "")
	if err != nil {
		return "", err
	}

	return cfg.Resolve(value), nil
}

// givenFlag returns the flag value as typed when the flag was given,
// fallback otherwise. Empty values are rejected.
func givenFlag(flags *flag.FlagSet, name string, fallback string) (string, error) {
	if !flags.Changed(name) {
		return fallback, nil
	}

	value, err := flags.GetString(name)
	if err != nil {
		return "", err
	}

	if value == "" {
		return "", fmt.Errorf("%w: --%s", config.ErrEmptyValue, name)
	}

	return value, nil
}

// identity maps a patch FullPath to the key used to match configs against
// scans. Relative paths are taken relative to the work dir.
func (d *deps) identity(path string) string {
	return filepath.Clean(d.cfg.Resolve(path))
}

// resolveEntries makes every FullPath in entries absolute against the work
// dir, so copies do not depend on the process directory.
func (d *deps) resolveEntries(entries []patch.Entry) {
	for i := range entries {
		entries[i].FullPath = d.cfg.Resolve(entries[i].FullPath)
	}
}

// rejectArgs fails when a command that takes only flags got positionals.
func rejectArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s", errUnexpectedArg, args[0])
	}

	return nil
}

var errUnexpectedArg = errors.New("unexpected argument")

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printGlobalOptions(w io.Writer) {
	fprintln(w, `
Global flags:
  -C, --cwd <dir>        Run as if started in <dir>
      --settings <file>  Use specified settings file
  -v, --verbose          More verbose output
  -h, --help             Show help`)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, `zman - manage ZOIA patch slots

Usage: zman [flags] <command> [args]`)
	printGlobalOptions(w)
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
