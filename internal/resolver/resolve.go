// Package resolver evaluates ${...} helper expressions and variable
// references embedded in blueprint strings. Resolution is best-effort by
// contract: a malformed or unknown expression is left in place as literal
// text for the validator to flag, never surfaced as a failure.
package resolver

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// exprPattern matches ${...} expressions: a tag optionally followed by
// colon-separated arguments, or a bare variable name.
var exprPattern = regexp.MustCompile(`\$\{([^{}]+)\}`)

// independentPattern matches values that are exactly one directly-generated
// helper expression. These are materialized in the first resolution pass so
// later entries can reference them by name.
var independentPattern = regexp.MustCompile(`^\$\{(?:domain|base64|password|hash)(?::[^{}]*)?\}$`)

// Resolver evaluates helper expressions. The zero value uses crypto/rand
// and the wall clock; tests inject a seeded Source and a fixed Now for
// deterministic output. A Resolver holds no mutable state, so one instance
// may serve concurrent resolutions.
type Resolver struct {
	// Rand supplies randomness for generator helpers. Nil means crypto/rand.
	Rand Source

	// Now supplies the current instant for timestamp helpers. Nil means time.Now.
	Now func() time.Time

	// Domain overrides ${domain} when non-empty. When empty a placeholder
	// host is synthesized instead.
	Domain string
}

// New returns a Resolver backed by crypto/rand and the wall clock.
func New() *Resolver {
	return &Resolver{}
}

func (r *Resolver) rand() Source {
	if r.Rand != nil {
		return r.Rand
	}
	return CryptoSource()
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Result is the outcome of resolving one template string. Unresolved lists
// the ${...} expressions left in place, in scan order, so callers can flag
// them without re-scanning the value.
type Result struct {
	// Value is the template with every resolvable expression substituted.
	Value string

	// Unresolved holds the literal text of expressions that stayed put.
	Unresolved []string
}

// ResolveHelper evaluates the body of one ${...} expression. The tag is
// the text before the first colon; recognized tags dispatch to their
// generator, anything else is looked up as a variable name in vars. An
// expression that cannot be evaluated is returned as its literal ${...}
// text.
func (r *Resolver) ResolveHelper(body string, vars map[string]string) string {
	parts := strings.Split(body, ":")
	tag := parts[0]
	args := parts[1:]

	if fn, ok := helpers[tag]; ok {
		if value, ok := fn(r, args, vars); ok {
			return value
		}
		return "${" + body + "}"
	}

	if value, ok := vars[body]; ok {
		return value
	}

	return "${" + body + "}"
}

// ResolveExpressions substitutes every ${...} expression in template,
// scanning left to right. Expressions that do not resolve are kept as
// literal text and reported in Result.Unresolved.
func (r *Resolver) ResolveExpressions(template string, vars map[string]string) Result {
	var unresolved []string

	value := exprPattern.ReplaceAllStringFunc(template, func(match string) string {
		body := exprPattern.FindStringSubmatch(match)[1]

		out := r.ResolveHelper(body, vars)
		if out == match {
			unresolved = append(unresolved, match)
		}
		return out
	})

	return Result{Value: value, Unresolved: unresolved}
}

// ResolveVariables resolves a raw variable map in two passes. Pass one
// materializes entries that are exactly ${domain}, ${base64[:n]},
// ${password[:n]}, or ${hash[:n]}; these never depend on other variables
// and must exist before any cross-reference is followed. Pass two runs
// ResolveExpressions over every entry against the pass-one map, so
// ${other_var} references resolve regardless of declaration order.
//
// A reference that passes through two or more dependent (non pass-one)
// helpers is not guaranteed to resolve; the engine runs a single dependent
// pass and does not iterate to a fixed point. The input map is never
// mutated. The second return value lists expressions left unresolved,
// deduplicated and sorted.
func (r *Resolver) ResolveVariables(raw map[string]string) (map[string]string, []string) {
	materialized := make(map[string]string, len(raw))
	for name, value := range raw {
		if independentPattern.MatchString(value) {
			materialized[name] = r.ResolveHelper(value[2:len(value)-1], nil)
		} else {
			materialized[name] = value
		}
	}

	resolved := make(map[string]string, len(materialized))
	seen := make(map[string]bool)
	var unresolved []string

	names := make([]string, 0, len(materialized))
	for name := range materialized {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := r.ResolveExpressions(materialized[name], materialized)
		resolved[name] = result.Value
		for _, expr := range result.Unresolved {
			if !seen[expr] {
				seen[expr] = true
				unresolved = append(unresolved, expr)
			}
		}
	}
	sort.Strings(unresolved)

	return resolved, unresolved
}

// Expressions returns the ${...} expressions found in s, in scan order.
func Expressions(s string) []string {
	return exprPattern.FindAllString(s, -1)
}

// ExpressionTag returns the tag of one ${...} expression: the text between
// the braces up to the first colon. Returns "" if expr is not an expression.
func ExpressionTag(expr string) string {
	m := exprPattern.FindStringSubmatch(expr)
	if m == nil {
		return ""
	}
	body := m[1]
	if i := strings.IndexByte(body, ':'); i >= 0 {
		return body[:i]
	}
	return body
}

// HasExpression reports whether s contains at least one ${...} expression.
func HasExpression(s string) bool {
	return exprPattern.MatchString(s)
}
