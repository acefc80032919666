package cmd

import (
	"github.com/charmbracelet/turbo/internal/config"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration file",
	Long:  "Print the JSON schema of turbo.json, for editors that validate and complete configuration files.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := &jsonschema.Reflector{
			// Every field is optional: missing ones get defaults.
			RequiredFromJSONSchemaTags: true,
		}
		return writeJSON(cmd.OutOrStdout(), reflector.Reflect(&config.Config{}))
	},
}
