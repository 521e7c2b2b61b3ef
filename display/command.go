// Package display holds output helpers shared by the CLI commands.
package display

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/ciprobe/errors"
)

// ShouldOutputJSON reports whether cmd should print JSON instead of text:
// the command's own --json flag wins, then the root's persistent --json flag.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	if cmd.Flags().Lookup("json") != nil && cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}
	return false
}

// OutputJSON prints v to stdout using MarshalJSON.
func OutputJSON(v interface{}) error {
	if err := WriteJSON(os.Stdout, v); err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	return nil
}
