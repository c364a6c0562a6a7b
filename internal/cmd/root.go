// Package cmd provides the CLI commands for templates.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "templates",
	Short: "Lint and resolve deployment blueprints",
	Long: `templates - blueprint linting and variable resolution

A toolkit for repositories of deployment blueprints: each blueprint pairs
a docker-compose.yml with a template.yml descriptor declaring domains,
environment variables, file mounts, and generator-backed variables.

COMMANDS
  lint [name...]        Validate blueprints against their manifests
    --strict            Treat warnings as errors
  resolve <name>        Print the blueprint's resolved variables
    --domain <host>     Override the ${domain} helper
    --seed <n>          Deterministic generator output
  create <name>         Scaffold a new blueprint directory
  update                Update templates to the latest release
    --check             Check without installing`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
