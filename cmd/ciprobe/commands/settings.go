package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/ciprobe/display"
	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/settings"
)

// SettingsCmd groups the settings subcommands.
var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or validate ciprobe settings",
	Long: `settings - Show or validate ciprobe settings

Settings sources (later overrides earlier):
  1. Built-in defaults
  2. /etc/ciprobe/ciprobe.toml
  3. ~/.ciprobe/ciprobe.toml
  4. ciprobe.toml in the working directory or the nearest parent
  5. CIPROBE_* environment variables (CIPROBE_GIT_WORK_DIR for git.work_dir)
  6. Command line flags

Examples:
  ciprobe settings show                  # TOML
  ciprobe settings show --format yaml
  ciprobe settings show --sources        # where each value came from
  ciprobe settings validate`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")
	settingsShowCmd.Flags().Bool("sources", false, "Show the source of each setting")

	SettingsCmd.AddCommand(settingsShowCmd)
	SettingsCmd.AddCommand(settingsValidateCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	cfg, err := settings.Load()
	if err != nil {
		return err
	}

	if showSources, _ := cmd.Flags().GetBool("sources"); showSources {
		infos := settings.Introspect(settings.GetViper(), nil)
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(infos)
		}
		return printSources(cmd, infos)
	}

	format, _ := cmd.Flags().GetString("format")
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	out, err := renderSettings(cfg, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// renderSettings encodes cfg as toml, json or yaml.
func renderSettings(cfg *settings.Settings, format string) (string, error) {
	switch format {
	case "json":
		data, err := display.MarshalJSON(cfg)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal settings to JSON")
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal settings to YAML")
		}
		return "# ciprobe settings\n" + string(data), nil
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal settings to TOML")
		}
		return "# ciprobe settings\n" + string(data), nil
	default:
		return "", errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func printSources(cmd *cobra.Command, infos []settings.SettingInfo) error {
	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, info := range infos {
		data = append(data, []string{info.Key, fmt.Sprint(info.Value), string(info.Source), info.Path})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, args []string) error {
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "settings validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Settings are valid")
	return nil
}
