// Package main provides zman, a small tool that manages ZOIA patches.
//
// It keeps a config of which patches are active and which slot each one
// prefers, and copies the active patches to the pedal's SD card with slot
// conflicts resolved.
package main

import (
	"os"
	"strings"

	"github.com/crobird/zoia-patch-manager/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	os.Exit(exitCode)
}
