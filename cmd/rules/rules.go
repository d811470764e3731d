// Package rules prints the active decomposition rule set
package rules

import (
	"fmt"
	"io"

	"fjacquet/wire-csv/cmd/root"
	"fjacquet/wire-csv/internal/parser"
	"fjacquet/wire-csv/pkg/decomposer"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active decomposition rules",
	Long: `Print the active decomposition rules in the rule file layout.

The output can be saved, edited and set as rules.file in the configuration
(or WIRE_RULES_FILE) to replace the built-in rules.

Example:
  wire-csv rules > rules.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := decomposer.Default()
		if c := root.GetContainer(); c != nil {
			d = c.GetDecomposer()
		}
		return write(cmd.OutOrStdout(), d)
	},
}

func write(w io.Writer, d *decomposer.Decomposer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(parser.NewRuleFile(d.Stages())); err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	return enc.Close()
}
