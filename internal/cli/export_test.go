package cli

import (
	"io"

	zfs "github.com/crobird/zoia-patch-manager/internal/fs"
)

// RunWithFS is [Run] over fsys.
func RunWithFS(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, fsys zfs.FS) int {
	return run(in, out, errOut, args, env, fsys)
}
