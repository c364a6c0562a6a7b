package blueprint

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Blueprint pairs a parsed compose manifest with its descriptor.
type Blueprint struct {
	// Name is the blueprint directory name.
	Name string

	// Compose is the parsed manifest, nil if it failed to parse.
	Compose *Compose

	// ComposeErr records a manifest parse failure. The validator reports
	// it as an error while still running descriptor-only checks.
	ComposeErr error

	// Descriptor is the parsed companion descriptor.
	Descriptor *Descriptor
}

// LoadCompose reads and parses a compose manifest file.
func LoadCompose(path string) (*Compose, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return ParseCompose(content)
}

// ParseCompose parses compose manifest bytes.
func ParseCompose(content []byte) (*Compose, error) {
	var compose Compose
	if err := yaml.Unmarshal(content, &compose); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	return &compose, nil
}

// LoadDescriptor reads and parses a blueprint descriptor file.
func LoadDescriptor(path string) (*Descriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	return ParseDescriptor(content)
}

// ParseDescriptor parses descriptor bytes.
func ParseDescriptor(content []byte) (*Descriptor, error) {
	var descriptor Descriptor
	if err := yaml.Unmarshal(content, &descriptor); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	return &descriptor, nil
}

// Load reads a blueprint directory containing docker-compose.yml and
// template.yml. A manifest that fails to parse is recorded in ComposeErr
// rather than aborting, so descriptor checks can still run; a descriptor
// that fails to parse is a hard error since nothing can be validated
// without it.
func Load(dir string) (*Blueprint, error) {
	descriptor, err := LoadDescriptor(filepath.Join(dir, DescriptorFile))
	if err != nil {
		return nil, fmt.Errorf("blueprint %s: %w", filepath.Base(dir), err)
	}

	bp := &Blueprint{
		Name:       filepath.Base(dir),
		Descriptor: descriptor,
	}

	bp.Compose, bp.ComposeErr = LoadCompose(filepath.Join(dir, ComposeFile))

	return bp, nil
}
