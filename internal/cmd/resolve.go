package cmd

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rubixvi/templates/internal/blueprint"
	"github.com/rubixvi/templates/internal/config"
	"github.com/rubixvi/templates/internal/resolver"
	"github.com/rubixvi/templates/internal/ui"
)

var (
	resolveDomain string
	resolveSeed   int64
)

// resolveCmd represents the resolve command.
var resolveCmd = &cobra.Command{
	Use:   "resolve <blueprint>",
	Short: "Print a blueprint's resolved variables",
	Long: `Resolve a blueprint's variable declarations and print the result.

Generator helpers produce fresh placeholder values on every run unless
--seed pins the random source. Values are preview placeholders, not
production credentials.

Examples:
  templates resolve wordpress
  templates resolve wordpress --domain blog.example.com
  templates resolve wordpress --seed 1   # Reproducible output`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveDomain, "domain", "", "Override the ${domain} helper")
	resolveCmd.Flags().Int64Var(&resolveSeed, "seed", 0, "Seed the generators for reproducible output")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		ui.Fatal("%v", err)
	}

	bp, err := blueprint.Load(cfg.BlueprintDir(args[0]))
	if err != nil {
		ui.Fatal("%v", err)
	}
	if bp.Descriptor.Config == nil {
		ui.Fatal("blueprint %s: descriptor is missing its config section", bp.Name)
	}

	r := &resolver.Resolver{Domain: resolveDomain}
	if cmd.Flags().Changed("seed") {
		r.Rand = rand.New(rand.NewSource(resolveSeed))
	}

	resolved, unresolved := r.ResolveVariables(bp.Descriptor.StringVariables())

	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s=%s\n", name, resolved[name])
	}

	for _, expr := range unresolved {
		ui.Warning("unresolved expression %s", expr)
	}
}
