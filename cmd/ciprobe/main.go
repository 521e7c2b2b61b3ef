package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/ciprobe/cmd/ciprobe/commands"
	"github.com/teranos/ciprobe/display"
	"github.com/teranos/ciprobe/logger"
	"github.com/teranos/ciprobe/sym"
)

var rootCmd = &cobra.Command{
	Use:   "ciprobe",
	Short: sym.Searching + " ciprobe - CI pipeline task version scanner",
	Long: sym.Searching + ` ciprobe - CI pipeline task version scanner

ciprobe reads the pipeline files of one or more repositories, extracts every
"task: name@version" declaration and checks it against an allow-list of
task versions (the registry, ciprobeconfig.yml by default).

The report lists invalid versions per task and repository, tasks the
registry requires but a repository never uses, and tasks used without any
configured version.

Available commands:
  analyze  - Analyze repositories and write the report
  scan     - Classify the task declarations of a single pipeline file
  settings - Show or validate ciprobe settings
  version  - Show build information

Examples:
  ciprobe analyze --repos https://dev.azure.com/org/project/_git/service-a
  ciprobe analyze --repos ./service-a,./service-b --workers 4 -v
  ciprobe scan azure-pipelines.yml --config ciprobeconfig.yml
  ciprobe settings show --sources`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if display.ShouldOutputJSON(cmd) {
			return logger.Initialize(true, verbosity)
		}
		return logger.InitializeFromEnvironment(verbosity)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddCommand(commands.AnalyzeCmd)
	rootCmd.AddCommand(commands.ScanCmd)
	rootCmd.AddCommand(commands.SettingsCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
