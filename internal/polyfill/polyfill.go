// Package polyfill implements C11, the Polyfill Detector: a fixed,
// order-sensitive registry of AST-pattern predicates, each gated by a
// target ECMAScript version, with a static file body and dependency list
// (spec.md §4.11). Polyfill script bodies are themselves out of scope
// (spec.md §1): they are opaque static strings keyed by identifier, kept
// in bodies.go.
package polyfill

import (
	"github.com/denoland/dnt-sub000/internal/ast"
)

// Target mirrors spec.md §6's ScriptTarget ∈ {ES3..ES2023, Latest}, in
// increasing order so "< ES2021" comparisons are ordinal.
type Target int

const (
	ES3 Target = iota
	ES5
	ES2015
	ES2016
	ES2017
	ES2018
	ES2019
	ES2020
	ES2021
	ES2022
	ES2023
	Latest
)

// Dependency is an npm dependency a polyfill requires when activated.
type Dependency struct {
	Name           string
	Version        string
	PeerDependency bool
}

type state int

const (
	searching state = iota
	found
)

// Polyfill is one registry entry: a tagged record with a predicate
// closure and a static body string (spec.md §9: "avoid reflection; the
// registry is finite and known at build time").
type Polyfill struct {
	ID           string
	UseForTarget func(Target) bool
	VisitNode    func(n ast.Node, scope ast.Scope) bool
	FileText     func() string
	Deps         func() []Dependency

	state state
}

// Registry is the ordered set of polyfills considered for one
// environment (main or test) during a transform call.
type Registry struct {
	entries []*Polyfill
}

// NewRegistry builds the fixed, minimum registry from spec.md §4.11,
// filtered by target: polyfills whose UseForTarget(target) is false are
// never added to the searching set.
func NewRegistry(target Target) *Registry {
	r := &Registry{}
	for _, p := range allPolyfills() {
		if p.UseForTarget(target) {
			cp := *p
			cp.state = searching
			r.entries = append(r.entries, &cp)
		}
	}
	return r
}

// Visit offers node n to every still-searching polyfill, in reverse
// registration order, moving the first to match into the found state
// (spec.md §4.11). Once found, a polyfill is never queried again.
func (r *Registry) Visit(n ast.Node, scope ast.Scope) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		p := r.entries[i]
		if p.state == found {
			continue
		}
		if p.VisitNode(n, scope) {
			p.state = found
			return
		}
	}
}

// Found returns the polyfills that matched, in registration order (the
// order C13 concatenates their bodies in).
func (r *Registry) Found() []*Polyfill {
	var out []*Polyfill
	for _, p := range r.entries {
		if p.state == found {
			out = append(out, p)
		}
	}
	return out
}

// hasGlobalPropertyAccess implements spec.md §4.11's
// has_global_property_access(node, Obj, Prop): fires on a member
// expression "<Obj>.<Prop>" whose object identifier is unresolved and not
// a top-level decl, or on a destructuring of <Obj> that extracts <Prop>
// (including string-key and rest patterns — unknown shapes count as a
// match, the conservative rule).
func hasGlobalPropertyAccess(n ast.Node, scope ast.Scope, obj, prop string) bool {
	switch n.Kind() {
	case ast.KindMemberExpression:
		children := n.Children()
		if len(children) < 2 {
			return false
		}
		objNode, propNode := children[0], children[1]
		if objNode.Kind() != ast.KindIdentifier || objNode.Text() != obj {
			return false
		}
		if propNode.Text() != prop {
			return false
		}
		return scope.IsUnresolved(objNode) && !objNode.IsDeclarationIdent()
	case ast.KindObjectPattern:
		// Conservative: a destructuring of `obj` (const { prop } = Obj,
		// or `const { prop: renamed, ...rest } = Obj`) counts as a match
		// for unknown/rest/computed shapes, per spec.md §4.11 — but only
		// once the destructured source is confirmed to be an unresolved
		// reference to obj itself; `const { prop } = other` must not match.
		parent := n.Parent()
		if parent == nil || parent.Kind() != ast.KindVariableDeclarator {
			return false
		}
		init := declaratorInit(parent, n)
		if init == nil || init.Kind() != ast.KindIdentifier || init.Text() != obj {
			return false
		}
		if init.IsDeclarationIdent() || !scope.IsUnresolved(init) {
			return false
		}
		for _, child := range n.Children() {
			if child.Text() == prop {
				return true
			}
		}
		return containsRestOrComputed(n)
	}
	return false
}

// declaratorInit returns declarator's non-pattern child — the initializer
// expression a destructuring binding pattern is assigned from.
func declaratorInit(declarator, pattern ast.Node) ast.Node {
	for _, c := range declarator.Children() {
		if c != pattern {
			return c
		}
	}
	return nil
}

func containsRestOrComputed(n ast.Node) bool {
	for _, c := range n.Children() {
		if c.Text() == "..." || c.Kind() == ast.KindUnknown {
			return true
		}
	}
	return false
}
