package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samabhi/MEDnetworksimulation/sim/clinic"
)

// defaultsCmd prints the reference scenario as YAML, ready to be edited and
// passed back with run --config.
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default scenario config as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(clinic.DefaultConfig())
		if err != nil {
			return fmt.Errorf("encoding default config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
