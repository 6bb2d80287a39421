package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set by the release build; development builds fall back to the
// module version recorded in build info.
var version = ""

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kicado version",
		Run: func(cmd *cobra.Command, args []string) {
			v := version
			if v == "" {
				if info, ok := debug.ReadBuildInfo(); ok {
					v = info.Main.Version
				}
			}
			if v == "" {
				v = "(devel)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), "kicado "+v)
		},
	}
}
