package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set with -ldflags at build time
var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calc version %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
