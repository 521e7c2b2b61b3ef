package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/ciprobe/display"
	"github.com/teranos/ciprobe/version"
)

// VersionCmd shows build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ciprobe version information",
	Long:  `Display version, build time, commit hash, and platform information for the ciprobe binary.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(info)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		return nil
	},
}
