package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubixvi/templates/internal/blueprint"
)

// webCompose is a minimal valid manifest with a single "web" service.
func webCompose() *blueprint.Compose {
	return &blueprint.Compose{
		Services: map[string]blueprint.Service{
			"web": {Image: "x"},
		},
	}
}

// webDescriptor is the matching descriptor with one domain, one env entry,
// and a generated variable.
func webDescriptor() *blueprint.Descriptor {
	return &blueprint.Descriptor{
		Variables: map[string]any{"main_domain": "${domain}"},
		Config: &blueprint.Config{
			Domains: []blueprint.Domain{
				{ServiceName: "web", Port: 3000, Host: "${main_domain}"},
			},
			Env:    []any{"PORT=3000"},
			Mounts: []blueprint.Mount{},
		},
	}
}

func TestValidate_CleanBlueprint(t *testing.T) {
	report := Validate(webDescriptor(), webCompose())

	assert.True(t, report.Valid())
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestValidate_UnknownServiceName(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Domains[0].ServiceName = "worker"

	report := Validate(descriptor, webCompose())

	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], `"worker"`)
	assert.Contains(t, report.Errors[0], "web")
}

func TestValidate_MatchingServiceRemovesError(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Domains[0].ServiceName = "worker"

	compose := webCompose()
	compose.Services["worker"] = blueprint.Service{Image: "y"}

	report := Validate(descriptor, compose)
	assert.Empty(t, report.Errors)
}

func TestValidate_StaticHostWarns(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Domains[0].Host = "static.example.com"

	report := Validate(descriptor, webCompose())

	assert.True(t, report.Valid())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "${...}")
}

func TestValidate_EmptyManifest(t *testing.T) {
	tests := []struct {
		name    string
		compose *blueprint.Compose
	}{
		{"nil manifest", nil},
		{"no services", &blueprint.Compose{}},
		{"empty services", &blueprint.Compose{Services: map[string]blueprint.Service{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(webDescriptor(), tt.compose)

			assert.False(t, report.Valid())
			require.NotEmpty(t, report.Errors)
			assert.Contains(t, report.Errors[0], "at least one service")

			// Descriptor-only checks still ran: no service-reference
			// error was added for the now-unverifiable domain.
			assert.Len(t, report.Errors, 1)
		})
	}
}

func TestValidate_ContainerNameForbidden(t *testing.T) {
	compose := webCompose()
	compose.Services["web"] = blueprint.Service{Image: "x", ContainerName: "my-web"}

	report := Validate(webDescriptor(), compose)

	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "container_name")
}

func TestValidate_ExplicitNetworks(t *testing.T) {
	tests := []struct {
		name     string
		networks any
		want     string
	}{
		{"reserved network in list", []any{ReservedNetwork}, "reserved network"},
		{"other network in list", []any{"frontend"}, "explicit networks"},
		{"reserved network in mapping", map[string]any{ReservedNetwork: nil}, "reserved network"},
		{"other network in mapping", map[string]any{"backend": nil}, "explicit networks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compose := webCompose()
			compose.Services["web"] = blueprint.Service{Image: "x", Networks: tt.networks}

			report := Validate(webDescriptor(), compose)

			assert.False(t, report.Valid())
			require.Len(t, report.Errors, 1)
			assert.Contains(t, report.Errors[0], tt.want)
		})
	}
}

func TestValidate_EmptyNetworksAccepted(t *testing.T) {
	compose := webCompose()
	compose.Services["web"] = blueprint.Service{Image: "x", Networks: []any{}}

	report := Validate(webDescriptor(), compose)
	assert.True(t, report.Valid())
}

func TestValidate_PortMappings(t *testing.T) {
	tests := []struct {
		name    string
		ports   []any
		wantErr bool
	}{
		{"host mapping string", []any{"8080:80"}, true},
		{"bare container port string", []any{"80"}, false},
		{"bare container port number", []any{80}, false},
		{"protocol suffix without mapping", []any{"80/udp"}, false},
		{"published target object", []any{map[string]any{"published": 8080, "target": 80}}, true},
		{"target only object", []any{map[string]any{"target": 80}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compose := webCompose()
			compose.Services["web"] = blueprint.Service{Image: "x", Ports: tt.ports}

			report := Validate(webDescriptor(), compose)

			if tt.wantErr {
				assert.False(t, report.Valid())
			} else {
				assert.True(t, report.Valid())
			}
		})
	}
}

func TestValidate_ServiceNamingConvention(t *testing.T) {
	compose := &blueprint.Compose{
		Services: map[string]blueprint.Service{
			"Web":     {Image: "x"},
			"app_api": {Image: "x"},
			"ok-name": {Image: "x"},
		},
	}
	descriptor := webDescriptor()
	descriptor.Config.Domains[0].ServiceName = "ok-name"

	report := Validate(descriptor, compose)

	// Naming issues are warnings, never errors.
	assert.True(t, report.Valid())
	assert.Len(t, report.Warnings, 2)
}

func TestValidate_MissingConfigSection(t *testing.T) {
	report := Validate(&blueprint.Descriptor{}, webCompose())

	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "config")
}

func TestValidate_DomainRequiredFields(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Domains = []blueprint.Domain{
		{Port: 3000, Host: "${main_domain}"},
		{ServiceName: "web", Host: "${main_domain}"},
	}

	report := Validate(descriptor, webCompose())

	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], "serviceName is required")
	assert.Contains(t, report.Errors[1], "port is required")
}

func TestValidate_DomainPortRange(t *testing.T) {
	tests := []struct {
		name     string
		port     any
		warnings int
	}{
		{"in range", 3000, 0},
		{"too high", 70000, 1},
		{"zero", 0, 1},
		{"negative", -1, 1},
		{"string with separator", "3_000", 0},
		{"out of range string", "99_999", 1},
		{"not a number", "many", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descriptor := webDescriptor()
			descriptor.Config.Domains[0].Port = tt.port

			report := Validate(descriptor, webCompose())

			// Out-of-range ports are warnings, not errors.
			assert.True(t, report.Valid())
			assert.Len(t, report.Warnings, tt.warnings)
		})
	}
}

func TestValidate_HostUnknownExpression(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Domains[0].Host = "${not_declared}"

	report := Validate(descriptor, webCompose())

	assert.True(t, report.Valid())
	// One warning from the name check, one from the resolution smoke test.
	require.Len(t, report.Warnings, 2)
	assert.Contains(t, report.Warnings[0], "unknown helper or variable")
	assert.Contains(t, report.Warnings[1], "unresolved expression")
}

func TestValidate_HostHelperExpression(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Domains[0].Host = "${domain}"

	report := Validate(descriptor, webCompose())
	assert.True(t, report.Valid())
	assert.Empty(t, report.Warnings)
}

func TestValidate_EnvShapes(t *testing.T) {
	tests := []struct {
		name     string
		env      any
		errors   int
		warnings int
	}{
		{"nil env", nil, 0, 0},
		{"key value strings", []any{"A=1", "B=2"}, 0, 0},
		{"string without equals", []any{"JUST_A_KEY"}, 0, 1},
		{"mapping entry in sequence", []any{map[string]any{"A": "1"}}, 0, 0},
		{"empty mapping entry", []any{map[string]any{}}, 0, 1},
		{"boolean entry", []any{true}, 0, 0},
		{"numeric entry", []any{42}, 0, 0},
		{"sequence entry is an error", []any{[]any{"nested"}}, 1, 0},
		{"top level mapping", map[string]any{"A": "1", "B": 2, "C": true}, 0, 0},
		{"empty top level mapping", map[string]any{}, 0, 1},
		{"mapping with bad value", map[string]any{"A": []any{"x"}}, 1, 0},
		{"scalar env section", "A=1", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descriptor := webDescriptor()
			descriptor.Config.Env = tt.env

			report := Validate(descriptor, webCompose())

			assert.Len(t, report.Errors, tt.errors)
			assert.Len(t, report.Warnings, tt.warnings)
		})
	}
}

func TestValidate_MountShapes(t *testing.T) {
	tests := []struct {
		name   string
		mount  blueprint.Mount
		errors int
	}{
		{"valid mount", blueprint.Mount{FilePath: "/etc/app.conf", Content: "key=value"}, 0},
		{"empty content is fine", blueprint.Mount{FilePath: "/etc/app.conf", Content: ""}, 0},
		{"missing filePath", blueprint.Mount{Content: "x"}, 1},
		{"empty filePath", blueprint.Mount{FilePath: "", Content: "x"}, 1},
		{"non-string filePath", blueprint.Mount{FilePath: 7, Content: "x"}, 1},
		{"missing content", blueprint.Mount{FilePath: "/a"}, 1},
		{"non-string content", blueprint.Mount{FilePath: "/a", Content: []any{}}, 1},
		{"both missing", blueprint.Mount{}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descriptor := webDescriptor()
			descriptor.Config.Mounts = []blueprint.Mount{tt.mount}

			report := Validate(descriptor, webCompose())
			assert.Len(t, report.Errors, tt.errors)
		})
	}
}

func TestValidate_VariableValuesMustBeStrings(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Variables = map[string]any{
		"main_domain": "${domain}",
		"count":       3,
		"flag":        true,
	}

	report := Validate(descriptor, webCompose())

	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], `"count"`)
	assert.Contains(t, report.Errors[1], `"flag"`)
}

func TestValidate_SmokeTestFlagsBrokenReference(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Mounts = []blueprint.Mount{
		{FilePath: "/etc/app.conf", Content: "domain=${main_domain}\nsecret=${undeclared_secret}\n"},
	}

	report := Validate(descriptor, webCompose())

	// Broken cross-references degrade to warnings, never errors.
	assert.True(t, report.Valid())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "mount[0] content")
	assert.Contains(t, report.Warnings[0], "${undeclared_secret}")
}

func TestValidate_SmokeTestCoversEnvValues(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Env = []any{
		"URL=https://${main_domain}",
		"BROKEN=${missing_var}",
		map[string]any{"ALSO_BROKEN": "${missing_var}"},
	}

	report := Validate(descriptor, webCompose())

	assert.True(t, report.Valid())
	require.Len(t, report.Warnings, 2)
	assert.Contains(t, report.Warnings[0], "env[1]")
	assert.Contains(t, report.Warnings[1], "env[2]")
}

func TestValidate_ReportsAreIndependent(t *testing.T) {
	descriptor := webDescriptor()
	descriptor.Config.Domains[0].ServiceName = "worker"

	first := Validate(descriptor, webCompose())
	second := Validate(descriptor, webCompose())

	assert.Equal(t, first.Errors, second.Errors)
	assert.NotSame(t, first, second)
}

func TestValidate_AccumulatesAcrossCheckGroups(t *testing.T) {
	compose := &blueprint.Compose{
		Services: map[string]blueprint.Service{
			"Web": {Image: "x", ContainerName: "web", Ports: []any{"8080:80"}},
		},
	}
	descriptor := &blueprint.Descriptor{
		Variables: map[string]any{"n": 1},
		Config: &blueprint.Config{
			Domains: []blueprint.Domain{{ServiceName: "gone", Port: 3000, Host: "plain"}},
			Env:     []any{[]any{"bad"}},
			Mounts:  []blueprint.Mount{{}},
		},
	}

	report := Validate(descriptor, compose)

	// container_name, host port mapping, unknown service, bad env entry,
	// missing filePath, missing content, non-string variable.
	assert.Len(t, report.Errors, 7)
	// service naming + static host.
	assert.Len(t, report.Warnings, 2)
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
		ok    bool
	}{
		{"int", 8080, 8080, true},
		{"int64", int64(443), 443, true},
		{"string", "3000", 3000, true},
		{"string with separators", "65_535", 65535, true},
		{"garbage string", "http", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePort(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
