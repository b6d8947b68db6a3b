// Package main is the entry point for the sboxforge CLI.
package main

import (
	"os"

	"github.com/mrz1836/sboxforge/internal/cli"
)

// Set at link time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // ldflags injection targets
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	if err := cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date}); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
