package tsparser

import "github.com/denoland/dnt-sub000/internal/ast"

// scope implements ast.Scope over the scope-owner nodes build() attached
// to the tree: each owner's scopeDecls holds the names bound directly in
// it, and node.scope chains owners outward to the Program root.
type scope struct {
	root *node
}

func newScope(root *node) *scope {
	return &scope{root: root}
}

func (s *scope) TopLevelDecls() map[string]bool {
	return s.root.scopeDecls
}

func (s *scope) IsUnresolved(n ast.Node) bool {
	tn, ok := n.(*node)
	if !ok {
		return true
	}
	name := tn.text
	for owner := tn.scope; owner != nil; owner = owner.scope {
		if owner.scopeDecls[name] {
			return false
		}
		if owner == s.root {
			break
		}
	}
	return true
}
