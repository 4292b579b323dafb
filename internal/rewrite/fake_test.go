package rewrite

import "github.com/denoland/dnt-sub000/internal/ast"

// fakeNode is a minimal ast.Node used across this package's unit tests.
type fakeNode struct {
	kind     ast.Kind
	text     string
	start    int
	end      int
	children []ast.Node
	parent   ast.Node
	isDecl   bool
}

func (f *fakeNode) Kind() ast.Kind           { return f.kind }
func (f *fakeNode) Position() ast.Position   { return ast.Position{Start: f.start, End: f.end} }
func (f *fakeNode) Text() string             { return f.text }
func (f *fakeNode) Children() []ast.Node     { return f.children }
func (f *fakeNode) Parent() ast.Node         { return f.parent }
func (f *fakeNode) IsDeclarationIdent() bool { return f.isDecl }

func ident(text string, start, end int) *fakeNode {
	return &fakeNode{kind: ast.KindIdentifier, text: text, start: start, end: end}
}

func program(children ...ast.Node) *fakeNode {
	return &fakeNode{kind: ast.KindProgram, children: children}
}

func link(parent *fakeNode, children ...*fakeNode) *fakeNode {
	nodes := make([]ast.Node, len(children))
	for i, c := range children {
		c.parent = parent
		nodes[i] = c
	}
	parent.children = nodes
	return parent
}

type fakeScope struct {
	topLevel   map[string]bool
	unresolved map[ast.Node]bool
}

func (s fakeScope) TopLevelDecls() map[string]bool { return s.topLevel }
func (s fakeScope) IsUnresolved(n ast.Node) bool    { return s.unresolved[n] }
