// Package validator checks a blueprint descriptor for structural integrity
// and referential consistency against its compose manifest. Every check
// appends to a single Report; no check aborts the run, so one pass yields
// the complete picture.
package validator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rubixvi/templates/internal/blueprint"
	"github.com/rubixvi/templates/internal/resolver"
)

// ReservedNetwork is the isolation network the platform attaches every
// service to. Blueprints must not configure it explicitly.
const ReservedNetwork = "deploy-network"

// Validate checks descriptor against compose and returns the accumulated
// report. A nil compose means the manifest failed to parse; manifest-
// dependent checks are skipped but descriptor-only checks still run.
// Each call is independent; there is no state carried between runs.
func Validate(descriptor *blueprint.Descriptor, compose *blueprint.Compose) *Report {
	report := &Report{}

	manifestOK := checkManifest(report, compose)

	if descriptor == nil || descriptor.Config == nil {
		report.errorf("descriptor is missing its config section")
		return report
	}

	vars := descriptor.StringVariables()

	checkVariables(report, descriptor.Variables)
	checkDomains(report, descriptor.Config.Domains, compose, manifestOK, vars)
	checkEnv(report, descriptor.Config.Env)
	checkMounts(report, descriptor.Config.Mounts)
	checkResolution(report, descriptor.Config, vars)

	return report
}

// checkManifest validates the manifest structure and each service entry.
// Returns false when the manifest is absent or has no services, in which
// case service-referencing checks are skipped.
func checkManifest(report *Report, compose *blueprint.Compose) bool {
	if compose == nil || len(compose.Services) == 0 {
		report.errorf("compose manifest must define at least one service")
		return false
	}

	for _, name := range compose.ServiceNames() {
		service := compose.Services[name]

		if name != strings.ToLower(name) || strings.Contains(name, "_") {
			report.warnf("service %q: name should be lowercase and hyphenated", name)
		}

		if service.ContainerName != "" {
			report.errorf("service %q: container_name is not allowed (the platform names containers)", name)
		}

		checkServiceNetworks(report, name, service.Networks)
		checkServicePorts(report, name, service.Ports)
	}

	return true
}

// checkServiceNetworks rejects explicit network configuration. The platform
// manages the isolation network implicitly, so any explicit list or mapping
// conflicts with it.
func checkServiceNetworks(report *Report, name string, networks any) {
	var entries []string
	switch v := networks.(type) {
	case nil:
		return
	case []any:
		for _, entry := range v {
			entries = append(entries, toString(entry))
		}
	case map[string]any:
		for key := range v {
			entries = append(entries, key)
		}
	default:
		entries = []string{toString(networks)}
	}

	if len(entries) == 0 {
		return
	}

	for _, entry := range entries {
		if entry == ReservedNetwork {
			report.errorf("service %q: must not reference the reserved network %q", name, ReservedNetwork)
			return
		}
	}
	report.errorf("service %q: explicit networks are not allowed (the platform attaches the isolation network)", name)
}

// checkServicePorts rejects host:container mappings; only bare container
// ports are permitted so the platform controls published ports.
func checkServicePorts(report *Report, name string, ports []any) {
	for _, entry := range ports {
		switch v := entry.(type) {
		case string:
			if strings.Contains(v, ":") {
				report.errorf("service %q: port %q maps a host port; declare only the container port", name, v)
			}
		case map[string]any:
			_, hasPublished := v["published"]
			_, hasTarget := v["target"]
			if hasPublished && hasTarget {
				report.errorf("service %q: port entries must not use published/target mappings", name)
			}
		}
	}
}

// checkVariables requires a flat mapping of string values.
func checkVariables(report *Report, variables map[string]any) {
	for _, name := range sortedKeys(variables) {
		if _, ok := variables[name].(string); !ok {
			report.errorf("variable %q: value must be a string", name)
		}
	}
}

// checkDomains validates each domain declaration: required fields, the
// service reference, the port range, and the host template.
func checkDomains(report *Report, domains []blueprint.Domain, compose *blueprint.Compose, manifestOK bool, vars map[string]string) {
	for i, domain := range domains {
		label := domainLabel(i, domain)

		if domain.ServiceName == "" {
			report.errorf("%s: serviceName is required", label)
		} else if manifestOK {
			if _, ok := compose.Services[domain.ServiceName]; !ok {
				report.errorf("%s: service %q not found in manifest (available: %s)",
					label, domain.ServiceName, strings.Join(compose.ServiceNames(), ", "))
			}
		}

		checkDomainPort(report, label, domain.Port)
		checkDomainHost(report, label, domain.Host, vars)
	}
}

func checkDomainPort(report *Report, label string, port any) {
	if port == nil {
		report.errorf("%s: port is required", label)
		return
	}

	n, ok := parsePort(port)
	if !ok {
		report.warnf("%s: port %q is not a number", label, toString(port))
		return
	}
	if n < 1 || n > 65535 {
		report.warnf("%s: port %d is outside 1-65535", label, n)
	}
}

func checkDomainHost(report *Report, label string, host string, vars map[string]string) {
	if !resolver.HasExpression(host) {
		report.warnf("%s: host has no ${...} expression; static hosts collide across deployments", label)
		return
	}

	for _, expr := range resolver.Expressions(host) {
		tag := resolver.ExpressionTag(expr)
		if resolver.Known(tag) {
			continue
		}
		if _, ok := vars[tag]; ok {
			continue
		}
		report.warnf("%s: host references unknown helper or variable %q", label, expr)
	}
}

// checkEnv accepts "KEY=VALUE" strings, key/value mappings, booleans, and
// numbers. The mapping form is equally valid to the sequence form.
func checkEnv(report *Report, env any) {
	switch v := env.(type) {
	case nil:
	case []any:
		for i, entry := range v {
			checkEnvEntry(report, "env["+strconv.Itoa(i)+"]", entry)
		}
	case map[string]any:
		if len(v) == 0 {
			report.warnf("env: empty mapping")
			return
		}
		for _, key := range sortedKeys(v) {
			checkEnvValue(report, "env "+strconv.Quote(key), v[key])
		}
	default:
		report.errorf("env: expected a sequence or mapping, got %T", env)
	}
}

func checkEnvEntry(report *Report, label string, entry any) {
	switch v := entry.(type) {
	case string:
		if !strings.Contains(v, "=") {
			report.warnf("%s: expected \"KEY=VALUE\", got %q", label, v)
		}
	case map[string]any:
		if len(v) == 0 {
			report.warnf("%s: empty mapping", label)
			return
		}
		for _, key := range sortedKeys(v) {
			checkEnvValue(report, label+" "+strconv.Quote(key), v[key])
		}
	case bool, int, int64, uint64, float64:
	default:
		report.errorf("%s: unsupported entry type %T", label, entry)
	}
}

func checkEnvValue(report *Report, label string, value any) {
	switch value.(type) {
	case string, bool, int, int64, uint64, float64:
	default:
		report.errorf("%s: unsupported value type %T", label, value)
	}
}

// checkMounts requires a non-empty string filePath and a string content on
// every mount.
func checkMounts(report *Report, mounts []blueprint.Mount) {
	for i, mount := range mounts {
		label := "mount[" + strconv.Itoa(i) + "]"

		switch v := mount.FilePath.(type) {
		case nil:
			report.errorf("%s: filePath is required", label)
		case string:
			if v == "" {
				report.errorf("%s: filePath must not be empty", label)
			}
		default:
			report.errorf("%s: filePath must be a string", label)
		}

		switch mount.Content.(type) {
		case nil:
			report.errorf("%s: content is required", label)
		case string:
		default:
			report.errorf("%s: content must be a string", label)
		}
	}
}

// checkResolution is the resolution smoke test: resolve the declared
// variables, substitute them into every domain host, string-form env
// value, and mount path/content, and flag whatever expression survives.
// This catches broken cross-references without failing the validation.
func checkResolution(report *Report, config *blueprint.Config, vars map[string]string) {
	r := resolver.New()
	resolved, _ := r.ResolveVariables(vars)

	flag := func(label, value string) {
		for _, expr := range r.ResolveExpressions(value, resolved).Unresolved {
			report.warnf("%s: unresolved expression %s", label, expr)
		}
	}

	for i, domain := range config.Domains {
		flag(domainLabel(i, domain)+" host", domain.Host)
	}

	switch env := config.Env.(type) {
	case []any:
		for i, entry := range env {
			label := "env[" + strconv.Itoa(i) + "]"
			switch v := entry.(type) {
			case string:
				flag(label, v)
			case map[string]any:
				for _, key := range sortedKeys(v) {
					if s, ok := v[key].(string); ok {
						flag(label+" "+strconv.Quote(key), s)
					}
				}
			}
		}
	case map[string]any:
		for _, key := range sortedKeys(env) {
			if s, ok := env[key].(string); ok {
				flag("env "+strconv.Quote(key), s)
			}
		}
	}

	for i, mount := range config.Mounts {
		label := "mount[" + strconv.Itoa(i) + "]"
		if s, ok := mount.FilePath.(string); ok {
			flag(label+" filePath", s)
		}
		if s, ok := mount.Content.(string); ok {
			flag(label+" content", s)
		}
	}
}

func domainLabel(i int, domain blueprint.Domain) string {
	if domain.ServiceName == "" {
		return "domain[" + strconv.Itoa(i) + "]"
	}
	return "domain[" + strconv.Itoa(i) + "] " + strconv.Quote(domain.ServiceName)
}

// parsePort normalizes a port value: integers pass through, strings are
// parsed after stripping underscore thousands separators.
func parsePort(port any) (int, bool) {
	switch v := port.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.ReplaceAll(v, "_", ""))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
