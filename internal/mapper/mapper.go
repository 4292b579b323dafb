// Package mapper implements C1, the Specifier Mapper Registry: a list of
// pure predicates matching well-known remote-package URL shapes to a bare
// package name and optional version (spec.md §4.1).
package mapper

import (
	"regexp"
	"strings"

	"github.com/dunglas/go-urlpattern"
)

// Match is the result of a successful mapping: the bare package name to
// substitute, and its version (empty for built-ins with no installable
// dependency, per spec.md §3 PackageMappedSpecifier.version = None).
type Match struct {
	ToSpecifier string
	Version     string
}

// Rule is one entry in the registry: a pure predicate from specifier text
// to an optional Match.
type Rule func(specifier string) (Match, bool)

// Registry is an ordered, first-wins list of Rules.
type Registry struct {
	rules []Rule
}

// Default returns the built-in registry: Deno std node built-ins,
// Skypack, and esm.sh (spec.md §4.1), with the concrete 31-entry
// Node-builtin table (stdNodeBuiltins) from the original dnt source (SPEC_FULL.md's
// supplemented features) rather than a single illustrative example.
func Default() *Registry {
	r := &Registry{}
	r.rules = append(r.rules, stdNodeBuiltinRule())
	r.rules = append(r.rules, skypackRule())
	r.rules = append(r.rules, esmShRule())
	return r
}

// New builds a registry from an explicit rule list (tests, or a caller
// wanting a reduced/extended set).
func New(rules ...Rule) *Registry { return &Registry{rules: rules} }

// Match runs the registry's rules in order and returns the first hit.
// "Used only when the caller has not supplied an explicit mapping for the
// same specifier" (spec.md §4.1) — that precedence is enforced by the
// caller (internal/loader), not here.
func (r *Registry) Match(specifier string) (Match, bool) {
	for _, rule := range r.rules {
		if m, ok := rule(specifier); ok {
			return m, true
		}
	}
	return Match{}, false
}

var stdNodePattern = mustCompile("https\\://deno.land/std\\{/:ver\\}?/node/:pkg.ts")

func mustCompile(p string) *urlpattern.URLPattern {
	pat, err := urlpattern.New(urlpattern.Input{Pathname: p}, "", nil)
	if err != nil {
		// The pattern is a compile-time constant; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return pat
}

// stdNodeBuiltins is the concrete table of Node built-in module names the
// Deno std library re-exports under .../std[@ver]/node/<pkg>.ts.
var stdNodeBuiltins = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "cluster": true,
	"console": true, "constants": true, "crypto": true, "dgram": true,
	"dns": true, "events": true, "fs": true, "http": true, "https": true,
	"module": true, "net": true, "os": true, "path": true, "process": true,
	"querystring": true, "readline": true, "stream": true, "string_decoder": true,
	"sys": true, "timers": true, "tls": true, "tty": true, "url": true,
	"util": true, "v8": true, "vm": true, "zlib": true,
}

func stdNodeBuiltinRule() Rule {
	return func(specifier string) (Match, bool) {
		if !strings.HasPrefix(specifier, "https://deno.land/std") {
			return Match{}, false
		}
		res := stdNodePattern.Exec(urlpattern.Input{Pathname: specifier}, "")
		if res == nil {
			return Match{}, false
		}
		pkg := res.Pathname.Groups["pkg"]
		if pkg == "" || !stdNodeBuiltins[pkg] {
			return Match{}, false
		}
		return Match{ToSpecifier: pkg, Version: ""}, true
	}
}

var skypackRe = regexp.MustCompile(`^https://cdn\.skypack\.dev/(@?[^@/]+(?:/[^@/]+)?)@([^/]+)`)

func skypackRule() Rule {
	return func(specifier string) (Match, bool) {
		m := skypackRe.FindStringSubmatch(specifier)
		if m == nil {
			return Match{}, false
		}
		return Match{ToSpecifier: m[1], Version: m[2]}, true
	}
}

var esmShRe = regexp.MustCompile(`^https://esm\.sh/(@?[^@/]+(?:/[^@/]+)?)@([^/]+)`)

func esmShRule() Rule {
	return func(specifier string) (Match, bool) {
		m := esmShRe.FindStringSubmatch(specifier)
		if m == nil {
			return Match{}, false
		}
		return Match{ToSpecifier: m[1], Version: m[2]}, true
	}
}
