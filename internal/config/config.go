// Package config handles blueprint repository discovery and configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rubixvi/templates/internal/blueprint"
)

// Config holds the blueprint repository configuration.
type Config struct {
	// Root is the repository root directory (contains blueprints/).
	Root string

	// BlueprintsDir is the path to the blueprints directory.
	BlueprintsDir string
}

// FindRoot searches upward from the current directory to find the
// repository root, identified by the presence of a blueprints/ directory.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	return findRootFrom(dir)
}

func findRootFrom(dir string) (string, error) {
	for {
		blueprintsDir := filepath.Join(dir, "blueprints")
		if info, err := os.Stat(blueprintsDir); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("repository root not found (no blueprints/ directory)")
}

// Load finds the repository root and returns a Config.
func Load() (*Config, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}

	return &Config{
		Root:          root,
		BlueprintsDir: filepath.Join(root, "blueprints"),
	}, nil
}

// LoadFrom returns a Config for the repository containing dir.
func LoadFrom(dir string) (*Config, error) {
	root, err := findRootFrom(dir)
	if err != nil {
		return nil, err
	}

	return &Config{
		Root:          root,
		BlueprintsDir: filepath.Join(root, "blueprints"),
	}, nil
}

// BlueprintDir returns the path to a named blueprint directory.
func (c *Config) BlueprintDir(name string) string {
	return filepath.Join(c.BlueprintsDir, name)
}

// List returns the names of all blueprint directories: entries of
// blueprints/ that contain both a compose manifest and a descriptor.
func (c *Config) List() ([]string, error) {
	entries, err := os.ReadDir(c.BlueprintsDir)
	if err != nil {
		return nil, fmt.Errorf("read blueprints directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(c.BlueprintsDir, entry.Name())
		if !fileExists(filepath.Join(dir, blueprint.ComposeFile)) {
			continue
		}
		if !fileExists(filepath.Join(dir, blueprint.DescriptorFile)) {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
