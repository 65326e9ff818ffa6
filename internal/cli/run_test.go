package cli_test

import (
	"testing"

	"github.com/crobird/zoia-patch-manager/internal/cli"
)

func Test_No_Args_Prints_Usage_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun()

	cli.AssertContains(t, stdout, "Usage: zman")
	cli.AssertContains(t, stdout, "create-config")
	cli.AssertContains(t, stdout, "copy-files")
	cli.AssertContains(t, stdout, "config-stats")
	cli.AssertContains(t, stdout, "plan")
	cli.AssertContains(t, stdout, "print-config")
}

func Test_Help_Flag_Prints_Usage_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("--help")

	cli.AssertContains(t, stdout, "Global flags:")
	cli.AssertContains(t, stdout, "--verbose")
}

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "plan")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--settings")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("shuffle")

	cli.AssertContains(t, stderr, "unknown command: shuffle")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Command_Help_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("copy-files", "--help")

	cli.AssertContains(t, stdout, "Usage: zman copy-files")
	cli.AssertContains(t, stdout, "--dest-dir")
	cli.AssertContains(t, stdout, "--force")
}

func Test_Command_Unknown_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, exitCode := c.Run("plan", "--bogus")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag: --bogus")
}

func Test_Command_Rejects_Positional_Args_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("plan", "extra")

	cli.AssertContains(t, stderr, "unexpected argument: extra")
}

func Test_Underscore_Command_And_Flag_Aliases_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WritePatches("mine", "001_zoia_a.bin")

	stdout := c.MustRun("create_config", "--patch_dir", "mine", "--output_config", "out.conf")

	cli.AssertContains(t, stdout, "Wrote patch config to "+c.Path("out.conf")+".")
}
