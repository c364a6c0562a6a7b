package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rubixvi/templates/internal/blueprint"
	"github.com/rubixvi/templates/internal/config"
	"github.com/rubixvi/templates/internal/ui"
	"github.com/rubixvi/templates/internal/validator"
)

var lintStrict bool

// lintCmd represents the lint command.
var lintCmd = &cobra.Command{
	Use:   "lint [blueprint...]",
	Short: "Validate blueprints against their manifests",
	Long: `Validate blueprint descriptors against their compose manifests.

Without arguments every blueprint under blueprints/ is checked. Errors
make a blueprint invalid; warnings are advisory unless --strict is set.

Examples:
  templates lint                 # Lint every blueprint
  templates lint wordpress       # Lint a single blueprint
  templates lint --strict        # Fail on warnings too`,
	Run: runLint,
}

func init() {
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Treat warnings as errors")
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		ui.Fatal("%v", err)
	}

	names := args
	if len(names) == 0 {
		names, err = cfg.List()
		if err != nil {
			ui.Fatal("%v", err)
		}
		if len(names) == 0 {
			ui.Warning("no blueprints found under %s", cfg.BlueprintsDir)
			return
		}
	}

	var totalErrors, totalWarnings int
	for _, name := range names {
		errors, warnings := lintBlueprint(cfg.BlueprintDir(name))
		totalErrors += errors
		totalWarnings += warnings
	}

	fmt.Println()
	if totalErrors > 0 {
		ui.Red.Printf("✗ %d error(s), %d warning(s)\n", totalErrors, totalWarnings)
		os.Exit(1)
	}
	if totalWarnings > 0 {
		ui.Yellow.Printf("⚠ %d warning(s)\n", totalWarnings)
		if lintStrict {
			os.Exit(1)
		}
		return
	}
	ui.Success("all blueprints are valid")
}

// lintBlueprint validates one blueprint directory and prints its report.
func lintBlueprint(dir string) (errors, warnings int) {
	bp, err := blueprint.Load(dir)
	if err != nil {
		ui.Error("%v", err)
		return 1, 0
	}

	report := validator.Validate(bp.Descriptor, bp.Compose)
	if bp.ComposeErr != nil {
		// The validator already flags the missing service map; surface
		// the parse failure alongside it.
		report.Errors = append(report.Errors, fmt.Sprintf("manifest: %v", bp.ComposeErr))
	}

	switch {
	case !report.Valid():
		ui.Red.Printf("✗ %s\n", bp.Name)
	case len(report.Warnings) > 0:
		ui.Yellow.Printf("⚠ %s\n", bp.Name)
	default:
		ui.Green.Printf("✓ %s\n", bp.Name)
	}

	for _, message := range report.Errors {
		ui.Red.Printf("    error: %s\n", message)
	}
	for _, message := range report.Warnings {
		ui.Yellow.Printf("    warning: %s\n", message)
	}

	return len(report.Errors), len(report.Warnings)
}
