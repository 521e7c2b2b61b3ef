package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/logger"
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/settings"
)

// parseRepos splits a comma-separated --repos value, dropping blank entries.
func parseRepos(value string) ([]string, error) {
	var repos []string
	for _, r := range strings.Split(value, ",") {
		if r = strings.TrimSpace(r); r != "" {
			repos = append(repos, r)
		}
	}
	if len(repos) == 0 {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("no repositories given"),
			"pass --repos with comma-separated repository URLs or local paths")
	}
	return repos, nil
}

// bindFlags binds each named flag of cmd to its settings key and returns the
// keys whose flag was set on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper, keys map[string]string) (map[string]bool, error) {
	changed := make(map[string]bool)
	for name, key := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, errors.Wrapf(err, "failed to bind --%s", name)
		}
		if f.Changed {
			changed[key] = true
		}
	}
	return changed, nil
}

// loadRegistry reads the task registry named by cfg.
func loadRegistry(cfg *settings.Settings) (*registry.Registry, error) {
	opts, err := cfg.RegistryOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, registry.WithLogger(logger.ComponentLogger("registry")))
	return registry.Load(cfg.Registry.Path, opts...)
}

// PrintError writes err and any hints attached to it.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, pterm.Red("Error: "+err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}
