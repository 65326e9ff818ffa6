package cli_test

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/crobird/zoia-patch-manager/internal/cli"
	zfs "github.com/crobird/zoia-patch-manager/internal/fs"
	"github.com/crobird/zoia-patch-manager/internal/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binNames(names []string) []string {
	var out []string

	for _, n := range names {
		if strings.HasSuffix(n, patch.Suffix) {
			out = append(out, n)
		}
	}

	return out
}

func Test_Copy_Files_Places_Patches_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)

	stdout := c.MustRun("copy-files", "-d", "card")

	cli.AssertContains(t, stdout, "Copied 3 patches to "+c.Path("card")+".")

	assert.Equal(t,
		[]string{"000_zoia_bar.bin", "001_zoia_foo.bin", "060_zoia_barbar.bin"},
		binNames(c.ListDir("card")),
	)

	assert.Equal(t, "003_zoia_barbar.bin", c.ReadFile("card/060_zoia_barbar.bin"))
	assert.Equal(t, "001_zoia_bar.bin", c.ReadFile("card/000_zoia_bar.bin"))
}

func Test_Copy_Files_Declined_Keeps_Destination_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)
	c.WriteFile("card/010_zoia_old.bin", "old")

	stdout, stderr, code := c.Run("copy-files", "-d", "card")

	assert.Equal(t, 1, code)
	cli.AssertContains(t, stdout, "Going to delete existing files in "+c.Path("card")+". Okay? y/[n]")
	cli.AssertContains(t, stderr, "nothing done")
	assert.Equal(t, []string{"010_zoia_old.bin"}, c.ListDir("card"))
}

func Test_Copy_Files_Confirmed_Replaces_Destination_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)
	c.WriteFile("card/010_zoia_old.bin", "old")
	c.WriteFile("card/.Spotlight-V100", "")

	_, stderr, code := c.RunWithInput("yes\n", "copy-files", "-d", "card")

	require.Equal(t, 0, code, stderr)

	names := c.ListDir("card")
	assert.NotContains(t, names, "010_zoia_old.bin")
	assert.Contains(t, names, ".Spotlight-V100", "hidden files survive")
	assert.Len(t, binNames(names), 3)
}

func Test_Copy_Files_Force_Skips_Prompt_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)
	c.WriteFile("card/010_zoia_old.bin", "old")

	stdout := c.MustRun("copy-files", "-d", "card", "-f")

	cli.AssertNotContains(t, stdout, "Okay?")
	assert.NotContains(t, c.ListDir("card"), "010_zoia_old.bin")
}

func Test_Copy_Files_Default_Paths_From_Settings_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)
	c.WriteFile(".zman.json", `{"dest_dir": "sd/to_zoia"}`)

	c.MustRun("copy_files")

	assert.Len(t, binNames(c.ListDir("sd/to_zoia")), 3)
}

func Test_Copy_Files_Parse_Error_Leaves_Destination_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("zoia_patches.conf", "[{")
	c.WriteFile("card/010_zoia_old.bin", "old")

	stderr := c.MustFail("copy-files", "-d", "card", "-f")

	cli.AssertContains(t, stderr, patch.ErrConfigParse.Error())
	assert.Equal(t, []string{"010_zoia_old.bin"}, c.ListDir("card"))
}

func Test_Copy_Files_Missing_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("copy-files", "-d", "card", "-c", "nope.conf")

	cli.AssertContains(t, stderr, patch.ErrMissingInput.Error())
	assert.NotContains(t, c.ListDir("."), "card")
}

func Test_Copy_Files_Out_Of_Range_Slot_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WritePatches("patches", "001_zoia_a.bin")
	c.WriteFile("zoia_patches.conf", fmt.Sprintf(`[{"full_path": %q, "file_name": "001_zoia_a.bin", "name": "a.bin", "preferred_index": 64}]`,
		c.Path("patches", "001_zoia_a.bin")))

	stderr := c.MustFail("copy-files", "-d", "card")

	cli.AssertContains(t, stderr, patch.ErrSlotOutOfRange.Error())
}

func Test_Copy_Files_Missing_Source_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WritePatches("patches", "001_zoia_ok.bin")
	c.WriteFile("zoia_patches.conf", fmt.Sprintf(`[
		{"full_path": %q, "file_name": "001_zoia_ok.bin", "name": "ok.bin"},
		{"full_path": %q, "file_name": "002_zoia_gone.bin", "name": "gone.bin"},
	]`, c.Path("patches", "001_zoia_ok.bin"), c.Path("patches", "002_zoia_gone.bin")))
	c.WriteFile("card/000_zoia_keep.bin", "keep")

	stderr := c.MustFail("copy-files", "-d", "card", "-f")

	cli.AssertContains(t, stderr, patch.ErrMissingInput.Error())
	cli.AssertContains(t, stderr, "slot 1 (gone.bin)")
	assert.Equal(t, []string{"000_zoia_keep.bin"}, c.ListDir("card"), "card untouched")
	assert.Equal(t, "keep", c.ReadFile("card/000_zoia_keep.bin"))
}

func Test_Copy_Files_Relative_Config_Paths_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WritePatches("patches", "001_zoia_foo.bin", "002_zoia_bar.bin")
	c.WriteFile("zoia_patches.conf", relativeConfig)

	stdout := c.MustRun("copy-files", "-d", "card")

	cli.AssertContains(t, stdout, "Copied 1 patches")
	assert.Equal(t, []string{"060_zoia_bar.bin"}, binNames(c.ListDir("card")))
	assert.Equal(t, "002_zoia_bar.bin", c.ReadFile("card/060_zoia_bar.bin"))
}

func Test_Copy_Files_Destination_Stat_Failure_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)
	c.WriteFile("card/010_zoia_old.bin", "old")

	dest := c.Path("card")
	fsys := zfs.NewFaulty(zfs.NewReal()).Fail(zfs.OpStat, dest)

	var stdout, stderr bytes.Buffer

	code := cli.RunWithFS(strings.NewReader(""), &stdout, &stderr,
		[]string{"zman", "--cwd", c.Dir, "copy-files", "-d", "card", "-f"}, c.Env, fsys)

	assert.Equal(t, 1, code)
	cli.AssertContains(t, stderr.String(), "checking "+dest)
	assert.Equal(t, []string{"010_zoia_old.bin"}, c.ListDir("card"))
}

func Test_Copy_Files_Source_Stat_Failure_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)
	c.WriteFile("card/010_zoia_old.bin", "old")

	fsys := zfs.NewFaulty(zfs.NewReal()).Fail(zfs.OpStat, c.Path("patches", "003_zoia_barbar.bin"))

	var stdout, stderr bytes.Buffer

	code := cli.RunWithFS(strings.NewReader(""), &stdout, &stderr,
		[]string{"zman", "--cwd", c.Dir, "copy-files", "-d", "card", "-f"}, c.Env, fsys)

	assert.Equal(t, 1, code)
	cli.AssertContains(t, stderr.String(), "slot 60 (barbar.bin)")
	cli.AssertContains(t, stderr.String(), zfs.ErrInjected.Error())
	assert.Equal(t, []string{"010_zoia_old.bin"}, c.ListDir("card"))
}

func Test_Copy_Files_Truncates_At_Page_Size_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	names := make([]string, 0, patch.PageSize+1)
	for i := range patch.PageSize + 1 {
		names = append(names, fmt.Sprintf("%03d_zoia_p%02d.bin", i, i))
	}

	c.WritePatches("patches", names...)
	c.MustRun("create-config")

	stdout, stderr, code := c.Run("copy-files", "-d", "card")

	require.Equal(t, 0, code, "a truncated copy still succeeds")
	cli.AssertContains(t, stdout, fmt.Sprintf("Copied %d patches", patch.PageSize))
	cli.AssertContains(t, stderr, "warning: hit patch limit of 64, multiple pages not supported")
	cli.AssertContains(t, stderr, "skipped 1 patch(es): p64.bin")

	copied := binNames(c.ListDir("card"))
	assert.Len(t, copied, patch.PageSize)
	assert.True(t, slices.Contains(copied, "063_zoia_p63.bin"))
}

func Test_Copy_Files_Verbose_Logs_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)

	_, stderr, code := c.Run("-v", "copy-files", "-d", "card")

	require.Equal(t, 0, code, stderr)
	cli.AssertContains(t, stderr, "skipping inactive patch")
	cli.AssertContains(t, stderr, "barfoo.bin")
	cli.AssertContains(t, stderr, "created")
	cli.AssertContains(t, stderr, "060_zoia_barbar.bin")
}

func Test_Copy_Files_Quiet_By_Default_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	setupFixture(t, c)

	_, stderr, code := c.Run("copy-files", "-d", "card")

	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)
}
