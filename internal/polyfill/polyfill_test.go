package polyfill

import (
	"testing"

	"github.com/denoland/dnt-sub000/internal/ast"
)

type fakeNode struct {
	kind     ast.Kind
	text     string
	children []ast.Node
	parent   ast.Node
	isDecl   bool
}

func (f *fakeNode) Kind() ast.Kind           { return f.kind }
func (f *fakeNode) Position() ast.Position   { return ast.Position{} }
func (f *fakeNode) Text() string             { return f.text }
func (f *fakeNode) Children() []ast.Node     { return f.children }
func (f *fakeNode) Parent() ast.Node         { return f.parent }
func (f *fakeNode) IsDeclarationIdent() bool { return f.isDecl }

// destructure builds `const { <prop> } = <objName>` as a VariableDeclarator
// holding an ObjectPattern binding and an init expression, wired with
// parent pointers the way hasGlobalPropertyAccess's ObjectPattern branch
// expects. Returns the pattern node (to feed to Visit) and the init
// identifier node (to mark unresolved in a fakeScope).
func destructure(objName, prop string) (pattern ast.Node, init ast.Node) {
	propChild := &fakeNode{kind: ast.KindIdentifier, text: prop}
	p := &fakeNode{kind: ast.KindObjectPattern, children: []ast.Node{propChild}}
	obj := &fakeNode{kind: ast.KindIdentifier, text: objName}
	declarator := &fakeNode{kind: ast.KindVariableDeclarator, children: []ast.Node{p, obj}}
	p.parent = declarator
	obj.parent = declarator
	return p, obj
}

type fakeScope struct {
	unresolved map[ast.Node]bool
}

func (s fakeScope) TopLevelDecls() map[string]bool { return nil }
func (s fakeScope) IsUnresolved(n ast.Node) bool    { return s.unresolved[n] }

func memberExpr(objName, prop string) (ast.Node, ast.Node) {
	obj := &fakeNode{kind: ast.KindIdentifier, text: objName}
	propNode := &fakeNode{kind: ast.KindIdentifier, text: prop}
	member := &fakeNode{kind: ast.KindMemberExpression, children: []ast.Node{obj, propNode}}
	return member, obj
}

func TestObjectHasOwn_MemberExpression(t *testing.T) {
	member, obj := memberExpr("Object", "hasOwn")
	scope := fakeScope{unresolved: map[ast.Node]bool{obj: true}}

	r := NewRegistry(Latest)
	r.Visit(member, scope)

	found := r.Found()
	if len(found) != 1 || found[0].ID != "object_has_own" {
		t.Fatalf("expected object_has_own found, got %v", found)
	}
}

func TestObjectHasOwn_NotUnresolved(t *testing.T) {
	member, obj := memberExpr("Object", "hasOwn")
	scope := fakeScope{unresolved: map[ast.Node]bool{}} // obj not unresolved -> shadowed

	r := NewRegistry(Latest)
	r.Visit(member, scope)
	_ = obj
	if len(r.Found()) != 0 {
		t.Fatalf("expected no match when Object is shadowed, got %v", r.Found())
	}
}

func TestWeakRef_GatedByTarget(t *testing.T) {
	ident := &fakeNode{kind: ast.KindIdentifier, text: "WeakRef"}
	scope := fakeScope{unresolved: map[ast.Node]bool{ident: true}}

	r := NewRegistry(Latest) // ES2021+ -> weak_ref not in searching set
	r.Visit(ident, scope)
	if len(r.Found()) != 0 {
		t.Fatalf("weak_ref must not fire at Latest target, found=%v", r.Found())
	}

	r2 := NewRegistry(ES2020)
	r2.Visit(ident, scope)
	found := r2.Found()
	if len(found) != 1 || found[0].ID != "weak_ref" {
		t.Fatalf("expected weak_ref to fire below ES2021, got %v", found)
	}
}

func TestObjectHasOwn_DestructuredFromTargetObject(t *testing.T) {
	pattern, init := destructure("Object", "hasOwn")
	scope := fakeScope{unresolved: map[ast.Node]bool{init: true}}

	r := NewRegistry(Latest)
	r.Visit(pattern, scope)

	found := r.Found()
	if len(found) != 1 || found[0].ID != "object_has_own" {
		t.Fatalf("expected object_has_own found, got %v", found)
	}
}

func TestObjectHasOwn_DestructuredFromUnrelatedSource(t *testing.T) {
	pattern, init := destructure("other", "hasOwn")
	scope := fakeScope{unresolved: map[ast.Node]bool{init: true}}

	r := NewRegistry(Latest)
	r.Visit(pattern, scope)

	if len(r.Found()) != 0 {
		t.Fatalf("const { hasOwn } = other must not match, got %v", r.Found())
	}
}

func TestObjectHasOwn_DestructuredFromShadowedObject(t *testing.T) {
	pattern, init := destructure("Object", "hasOwn")
	scope := fakeScope{unresolved: map[ast.Node]bool{}} // Object shadowed, not unresolved

	r := NewRegistry(Latest)
	r.Visit(pattern, scope)
	_ = init

	if len(r.Found()) != 0 {
		t.Fatalf("const { hasOwn } = Object must not match when Object is shadowed, got %v", r.Found())
	}
}

func TestFoundOnce_NeverRevisited(t *testing.T) {
	member1, obj1 := memberExpr("Object", "hasOwn")
	member2, obj2 := memberExpr("Object", "hasOwn")
	scope := fakeScope{unresolved: map[ast.Node]bool{obj1: true, obj2: true}}

	r := NewRegistry(Latest)
	r.Visit(member1, scope)
	r.Visit(member2, scope)

	if len(r.Found()) != 1 {
		t.Fatalf("expected exactly one found entry, got %d", len(r.Found()))
	}
}
