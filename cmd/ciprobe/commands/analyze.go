package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/ciprobe/display"
	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/logger"
	"github.com/teranos/ciprobe/probe"
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/repo"
	"github.com/teranos/ciprobe/report"
	"github.com/teranos/ciprobe/settings"
	"github.com/teranos/ciprobe/sym"
)

// AnalyzeCmd analyzes repositories and writes the report.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: sym.Report + " Analyze repositories and write the task report",
	Long: sym.Report + ` analyze - Analyze repositories and write the task report

Each repository is cloned (or updated) into the working directory, its
pipeline files are scanned for "task: name@version" declarations, and every
declaration is checked against the task registry.

Remote repositories need credentials: --credentials user:token, the
AZURE_USERNAME and AZURE_TOKEN environment variables, or a .env file.
Local paths are read in place.

Examples:
  ciprobe analyze --repos https://dev.azure.com/org/project/_git/service-a
  ciprobe analyze --repos ./service-a,./service-b --relaxed-versions
  ciprobe analyze --repos a,b,c --workers 3 --report out/report.md -v
  ciprobe analyze --repos ./service-a --json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

// analyzeFlagKeys maps analyze flags to the settings they override.
var analyzeFlagKeys = map[string]string{
	"config":    "registry.path",
	"report":    "report.path",
	"workers":   "analysis.workers",
	"fresh":     "git.fresh",
	"no-update": "git.no_update",
	"plain":     "report.plain",
}

func init() {
	AnalyzeCmd.Flags().String("repos", "", "Comma-separated repository URLs or local paths (required)")
	AnalyzeCmd.Flags().String("credentials", "", "Repository credentials as user:token")
	AnalyzeCmd.Flags().String("config", registry.DefaultPath, "Task registry file")
	AnalyzeCmd.Flags().String("report", report.DefaultPath, "Report output path")
	AnalyzeCmd.Flags().Int("workers", 1, "Repositories analyzed concurrently")
	AnalyzeCmd.Flags().Bool("relaxed-versions", false, "Treat 2, 2.0 and 2.0.0 as the same version")
	AnalyzeCmd.Flags().Bool("fresh", false, "Delete and re-clone existing working copies")
	AnalyzeCmd.Flags().Bool("no-update", false, "Reuse existing working copies without pulling")
	AnalyzeCmd.Flags().Bool("plain", false, "Use text markers instead of emoji in the report")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	useJSON := display.ShouldOutputJSON(cmd)

	repoFlag, _ := cmd.Flags().GetString("repos")
	repos, err := parseRepos(repoFlag)
	if err != nil {
		return err
	}

	cfg, err := loadAnalyzeSettings(cmd)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	if logger.ShouldOutput(verbosity, logger.OutputConfig) && !useJSON {
		pterm.Info.Printfln("Registry %s: %d tasks, %s version matching", cfg.Registry.Path, reg.Len(), reg.MatchMode())
	}

	var creds *repo.Credentials
	if repo.AnyRemote(repos) {
		credFlag, _ := cmd.Flags().GetString("credentials")
		creds, err = repo.LoadCredentials(credFlag, cfg.CredentialSources())
		if err != nil {
			return err
		}
	}

	fs := afero.NewOsFs()
	provider := repo.NewGitProvider(cfg.GitConfig(), creds, logger.ComponentLogger("repo"))
	finder := repo.NewFinder(fs, cfg.Discovery.Patterns, cfg.Discovery.Exclude, logger.ComponentLogger("discover"))

	localPaths := make(map[string]string, len(repos))
	progress := progressPrinter(verbosity, useJSON)
	analyzer := probe.NewAnalyzer(reg, provider, finder, fs, probe.Options{
		Workers:          cfg.Analysis.Workers,
		AcquirePerMinute: cfg.Analysis.AcquirePerMinute,
		OnRepo: func(res probe.RepoResult) {
			if res.LocalPath != "" {
				localPaths[res.RepoID] = res.LocalPath
			}
			progress(res)
		},
		Logger: logger.ComponentLogger("probe"),
	})

	if !useJSON {
		pterm.DefaultSection.Printfln("%s Analyzing %d repositories", sym.Searching, len(repos))
	}
	ti, runErr := analyzer.Run(cmd.Context(), repos)

	in := report.Input{
		Repos:        repos,
		Issues:       ti,
		Registry:     reg,
		RegistryPath: cfg.Registry.Path,
		LocalPaths:   localPaths,
		GeneratedAt:  time.Now(),
		Plain:        cfg.Report.Plain,
	}
	if err := writeReport(cfg, in); err != nil {
		return err
	}

	if useJSON {
		if err := display.OutputJSON(report.Summarize(in)); err != nil {
			return err
		}
	} else {
		summary, err := report.Console(in)
		if err != nil {
			return errors.Wrap(err, "failed to render summary")
		}
		fmt.Print(summary)
		pterm.Success.Printfln("Report written to %s", cfg.Report.Path)
	}

	return runErr
}

// loadAnalyzeSettings applies the analyze flags over the settings cascade.
func loadAnalyzeSettings(cmd *cobra.Command) (*settings.Settings, error) {
	v := settings.GetViper()
	if _, err := bindFlags(cmd, v, analyzeFlagKeys); err != nil {
		return nil, err
	}
	if relaxed, _ := cmd.Flags().GetBool("relaxed-versions"); relaxed {
		v.Set("registry.version_match", string(registry.MatchRelaxed))
	}

	cfg, err := settings.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeReport(cfg *settings.Settings, in report.Input) error {
	if cfg.Report.Format != settings.FormatJSON {
		return report.WriteFile(cfg.Report.Path, in)
	}

	f, err := os.Create(cfg.Report.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to create report %s", cfg.Report.Path)
	}
	if err := report.JSON(f, in); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write report %s", cfg.Report.Path)
	}
	return f.Close()
}

// progressPrinter returns the per-repository console callback.
// Failures print at every verbosity; progress from -v; timing from -vv.
func progressPrinter(verbosity int, quiet bool) func(probe.RepoResult) {
	return func(res probe.RepoResult) {
		if quiet {
			return
		}
		name := repo.ShortName(res.RepoID)
		step := fmt.Sprintf("[%d/%d]", res.Index+1, res.Total)

		switch res.Outcome {
		case probe.OutcomeAcquireFailed, probe.OutcomeDiscoverFailed, probe.OutcomeReadFailed:
			if logger.ShouldOutput(verbosity, logger.OutputErrors) {
				pterm.Warning.Printfln("%s %s: %s: %v", step, name, res.Outcome, res.Err)
			}
		case probe.OutcomeSkipped:
			if logger.ShouldOutput(verbosity, logger.OutputRepoStatus) {
				pterm.Info.Printfln("%s %s: no pipeline files found, skipped", step, name)
			}
		default:
			if logger.ShouldOutput(verbosity, logger.OutputProgress) {
				pterm.Success.Printfln("%s %s: %d files, %d tasks, %d invalid, %d missing",
					step, name, res.Files, res.Tasks, res.Invalid, res.Missing)
			}
		}

		if logger.ShouldOutput(verbosity, logger.OutputTiming) {
			pterm.Printfln("   └─ %s", res.Duration.Round(time.Millisecond))
		}
	}
}
