package main

import (
	"fmt"
	"os"

	"github.com/zhubert/rsync-tui/cmd"
	"github.com/zhubert/rsync-tui/internal/errors"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rsync-tui: %s\n", errors.Message(err))
		os.Exit(cmd.ExitCode(err))
	}
}
