// Package blueprint defines the data model for deployment blueprints: a
// compose manifest paired with a companion descriptor declaring domains,
// environment variables, file mounts, and generator-backed variables.
package blueprint

import "sort"

// Well-known file names inside a blueprint directory.
const (
	// ComposeFile is the orchestration manifest file name.
	ComposeFile = "docker-compose.yml"

	// DescriptorFile is the companion descriptor file name.
	DescriptorFile = "template.yml"
)

// Compose mirrors the subset of a compose manifest the validator inspects.
type Compose struct {
	// Services maps service names to their definitions.
	Services map[string]Service `yaml:"services"`

	// Networks holds top-level network definitions, if any.
	Networks map[string]any `yaml:"networks,omitempty"`
}

// Service is one service entry from the compose manifest. Fields the
// validator does not inspect are collected in Rest so round-tripping a
// manifest loses nothing.
type Service struct {
	// Image is the container image reference.
	Image string `yaml:"image,omitempty"`

	// ContainerName is the explicit container name, forbidden in blueprints.
	ContainerName string `yaml:"container_name,omitempty"`

	// Ports holds port declarations. Entries may be numbers, strings,
	// or published/target mappings; the validator checks their shape.
	Ports []any `yaml:"ports,omitempty"`

	// Networks is the explicit network attachment, forbidden in blueprints
	// (the platform attaches services to its isolation network itself).
	Networks any `yaml:"networks,omitempty"`

	// Rest captures all remaining service fields.
	Rest map[string]any `yaml:",inline"`
}

// Descriptor is the companion file declaring variables and configuration
// for a blueprint.
type Descriptor struct {
	// Variables maps variable names to string values that may contain
	// ${...} expressions. Typed loosely so the validator can report
	// malformed shapes instead of failing the parse.
	Variables map[string]any `yaml:"variables,omitempty"`

	// Config is the required configuration section.
	Config *Config `yaml:"config"`
}

// Config groups the domain, environment, and mount declarations.
type Config struct {
	// Domains requests exposure of service ports under host templates.
	Domains []Domain `yaml:"domains,omitempty"`

	// Env holds environment declarations, either a sequence of
	// "KEY=VALUE" strings and mappings, or a single key/value mapping.
	Env any `yaml:"env,omitempty"`

	// Mounts lists inline files to materialize at deploy time.
	Mounts []Mount `yaml:"mounts,omitempty"`
}

// Domain requests exposure of one service's port under a host template.
type Domain struct {
	// ServiceName references a service key in the compose manifest.
	ServiceName string `yaml:"serviceName"`

	// Port is the container port to expose. Typed loosely so values like
	// "3_000" can be normalized during validation.
	Port any `yaml:"port"`

	// Host is the host template, expected to contain a ${...} expression.
	Host string `yaml:"host,omitempty"`

	// Path is an optional path prefix.
	Path string `yaml:"path,omitempty"`
}

// Mount is an inline file to write at deploy time. Both fields are typed
// loosely so the validator can distinguish missing from mistyped values.
type Mount struct {
	// FilePath is the destination path, required and non-empty.
	FilePath any `yaml:"filePath"`

	// Content is the file content, required; may contain ${...} expressions.
	Content any `yaml:"content"`
}

// ServiceNames returns the sorted service keys of the manifest.
func (c *Compose) ServiceNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StringVariables returns the string-valued entries of the descriptor's
// variables mapping. Non-string values are skipped; the validator reports
// them separately.
func (d *Descriptor) StringVariables() map[string]string {
	vars := make(map[string]string, len(d.Variables))
	for name, value := range d.Variables {
		if s, ok := value.(string); ok {
			vars[name] = s
		}
	}
	return vars
}
