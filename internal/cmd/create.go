package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/rubixvi/templates/internal/blueprint"
	"github.com/rubixvi/templates/internal/config"
	"github.com/rubixvi/templates/internal/ui"
)

var createImage string

// createCmd represents the create command.
var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold a new blueprint directory",
	Long: `Scaffold a new blueprint under blueprints/<name> with a starter
docker-compose.yml and template.yml.

Examples:
  templates create ghost
  templates create ghost --image ghost:5`,
	Args: cobra.ExactArgs(1),
	Run:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createImage, "image", "", "Container image for the scaffolded service")
	rootCmd.AddCommand(createCmd)
}

// composeSkeleton and descriptorSkeleton are rendered with sprig template
// functions; the descriptor's ${...} expressions are emitted verbatim for
// the resolution engine, not expanded here.
const composeSkeleton = `services:
  {{ .Name | lower }}:
    image: {{ .Image }}
    environment:
      - APP_URL=https://${main_domain}
`

const descriptorSkeleton = `variables:
  main_domain: ${domain}
  app_secret: ${password:32}

config:
  domains:
    - serviceName: {{ .Name | lower }}
      port: 3000
      host: ${main_domain}
  env:
    - APP_NAME={{ .Name | title }}
  mounts: []
`

func runCreate(cmd *cobra.Command, args []string) {
	name := args[0]

	cfg, err := config.Load()
	if err != nil {
		ui.Fatal("%v", err)
	}

	dir := cfg.BlueprintDir(name)
	if _, err := os.Stat(dir); err == nil {
		ui.Fatal("blueprint %s already exists", name)
	}

	image := createImage
	if image == "" {
		image = name + ":latest"
	}

	data := map[string]any{
		"Name":  name,
		"Image": image,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		ui.Fatal("create blueprint directory: %v", err)
	}

	files := map[string]string{
		blueprint.ComposeFile:    composeSkeleton,
		blueprint.DescriptorFile: descriptorSkeleton,
	}

	for filename, skeleton := range files {
		if err := renderSkeleton(filepath.Join(dir, filename), skeleton, data); err != nil {
			ui.Fatal("%v", err)
		}
	}

	ui.Success("created blueprint %s", name)
	ui.Info("  %s", filepath.Join(dir, blueprint.ComposeFile))
	ui.Info("  %s", filepath.Join(dir, blueprint.DescriptorFile))
}

// renderSkeleton renders one skeleton file with sprig functions available.
func renderSkeleton(path, skeleton string, data map[string]any) error {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(sprig.TxtFuncMap()).
		Parse(skeleton)
	if err != nil {
		return fmt.Errorf("parse skeleton %s: %w", filepath.Base(path), err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	if err := tmpl.Execute(out, data); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	return nil
}
