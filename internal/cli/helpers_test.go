package cli_test

import (
	"testing"

	"github.com/crobird/zoia-patch-manager/internal/cli"
	zfs "github.com/crobird/zoia-patch-manager/internal/fs"
	"github.com/crobird/zoia-patch-manager/internal/patch"
	"github.com/crobird/zoia-patch-manager/internal/preset"

	"github.com/stretchr/testify/require"
)

// fixturePatches are the patch files used throughout the command tests.
// Two share default index 001.
var fixturePatches = []string{
	"001_zoia_foo.bin",
	"001_zoia_bar.bin",
	"002_zoia_barfoo.bin",
	"003_zoia_barbar.bin",
}

// setupFixture writes fixturePatches to patches/ and a config at the default
// location with barfoo inactive and barbar pinned to slot 60.
func setupFixture(t *testing.T, c *cli.CLI) []patch.Entry {
	t.Helper()

	c.WritePatches("patches", fixturePatches...)

	entries, err := patch.ScanDir(zfs.NewReal(), c.Path("patches"))
	require.NoError(t, err)

	for i := range entries {
		switch entries[i].Name {
		case "barfoo.bin":
			entries[i].Active = false
		case "barbar.bin":
			entries[i].PreferredIndex = patch.Index(60)
		}
	}

	saveConfig(t, c, "zoia_patches.conf", entries)

	return entries
}

// relativeConfig names patches/001_zoia_foo.bin (inactive) and
// patches/002_zoia_bar.bin (pinned to 60) relative to the work dir.
const relativeConfig = `[
    {
        "active": false,
        "file_name": "001_zoia_foo.bin",
        "full_path": "patches/001_zoia_foo.bin",
        "name": "foo.bin",
        "preferred_index": null
    },
    {
        "active": true,
        "file_name": "002_zoia_bar.bin",
        "full_path": "patches/002_zoia_bar.bin",
        "name": "bar.bin",
        "preferred_index": 60
    }
]`

func saveConfig(t *testing.T, c *cli.CLI, rel string, entries []patch.Entry) {
	t.Helper()

	require.NoError(t, preset.Save(zfs.NewReal(), c.Path(rel), entries))
}

func loadConfig(t *testing.T, c *cli.CLI, rel string) []patch.Entry {
	t.Helper()

	entries, err := preset.Load(zfs.NewReal(), c.Path(rel))
	require.NoError(t, err)

	return entries
}

func byName(entries []patch.Entry) map[string]patch.Entry {
	m := make(map[string]patch.Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}

	return m
}
