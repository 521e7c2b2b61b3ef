package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/ciprobe/display"
	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/issues"
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/settings"
	"github.com/teranos/ciprobe/sym"
	"github.com/teranos/ciprobe/task"
)

// ScanCmd classifies the task declarations of one local pipeline file.
var ScanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: sym.Task + " Classify the task declarations of a pipeline file",
	Long: sym.Task + ` scan - Classify the task declarations of a pipeline file

Reads a single local file, extracts each distinct "task: name@version"
declaration and reports whether the registry accepts it. No repository is
cloned and no report is written.

Examples:
  ciprobe scan azure-pipelines.yml
  ciprobe scan ci/build.yml --config ../ciprobeconfig.yml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	ScanCmd.Flags().String("config", registry.DefaultPath, "Task registry file")
}

// Sighting is one classified declaration.
type Sighting struct {
	Task          string   `json:"task"`
	Version       string   `json:"version"`
	State         string   `json:"state"`
	ValidVersions []string `json:"valid_versions"`
}

func runScan(cmd *cobra.Command, args []string) error {
	if _, err := bindFlags(cmd, settings.GetViper(), map[string]string{"config": "registry.path"}); err != nil {
		return err
	}
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	sightings, err := scanFile(afero.NewOsFs(), args[0], reg)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(sightings)
	}
	return printSightings(cmd.OutOrStdout(), args[0], sightings)
}

// scanFile reads path and classifies each distinct declaration against reg.
func scanFile(fs afero.Fs, path string, reg *registry.Registry) ([]Sighting, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WithHint(
			errors.WrapRead(err, "failed to read "+path),
			"scan takes the path of a local pipeline file")
	}

	ti := issues.New()
	decls := task.Scan(string(data)).Declarations()
	out := make([]Sighting, 0, len(decls))
	for _, d := range decls {
		state := ti.RecordSighting(d.Name, path, d.Version, path, reg)
		valid := registry.SortVersions(reg.ValidVersionsFor(d.Name))
		if valid == nil {
			valid = []string{}
		}
		out = append(out, Sighting{
			Task:          string(d.Name),
			Version:       d.Version,
			State:         state.String(),
			ValidVersions: valid,
		})
	}
	return out, nil
}

func printSightings(w io.Writer, path string, sightings []Sighting) error {
	if len(sightings) == 0 {
		fmt.Fprintf(w, "No task declarations found in %s\n", path)
		return nil
	}

	data := pterm.TableData{{"Task", "Version", "State", "Valid versions"}}
	for _, s := range sightings {
		data = append(data, []string{s.Task, s.Version, s.State, strings.Join(s.ValidVersions, ", ")})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(w, table)
	return nil
}
