package analysis

import (
	"testing"

	"github.com/denoland/dnt-sub000/internal/ast"
)

func TestScanIgnoreLines_CurrentAndLegacy(t *testing.T) {
	comments := []ast.Comment{
		{Position: ast.Position{Start: 0, End: 20}, Text: "// dnt-shim-ignore", Line: 0},
		{Position: ast.Position{Start: 40, End: 62}, Text: "// deno-shim-ignore", Line: 2},
	}
	tokens := []ast.Token{
		{Position: ast.Position{Start: 21, End: 26}, Text: "Deno", Line: 1},
		{Position: ast.Position{Start: 63, End: 68}, Text: "Deno", Line: 3},
	}

	got := ScanIgnoreLines(comments, tokens, "file:///mod.ts")
	if !got.LineIndexes[1] || !got.LineIndexes[3] {
		t.Errorf("expected lines 1 and 3 ignored, got %v", got.LineIndexes)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("expected 1 legacy-spelling warning, got %d", len(got.Warnings))
	}
}

func TestScanIgnoreLines_NoDirective(t *testing.T) {
	got := ScanIgnoreLines(nil, nil, "file:///mod.ts")
	if len(got.LineIndexes) != 0 || len(got.Warnings) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

// fakeScope is a minimal ast.Scope for unit testing the thin wrapper
// functions in this package.
type fakeScope struct {
	topLevel   map[string]bool
	unresolved map[ast.Node]bool
}

func (s fakeScope) TopLevelDecls() map[string]bool { return s.topLevel }
func (s fakeScope) IsUnresolved(n ast.Node) bool    { return s.unresolved[n] }

type fakeNode struct{ text string }

func (f *fakeNode) Kind() ast.Kind             { return ast.KindIdentifier }
func (f *fakeNode) Position() ast.Position     { return ast.Position{} }
func (f *fakeNode) Text() string               { return f.text }
func (f *fakeNode) Children() []ast.Node       { return nil }
func (f *fakeNode) Parent() ast.Node           { return nil }
func (f *fakeNode) IsDeclarationIdent() bool   { return false }

func TestTopLevelDeclsAndUnresolved(t *testing.T) {
	n := &fakeNode{text: "Deno"}
	scope := fakeScope{
		topLevel:   map[string]bool{"foo": true},
		unresolved: map[ast.Node]bool{n: true},
	}
	if !TopLevelDecls(scope)["foo"] {
		t.Error("expected foo to be a top-level decl")
	}
	if !IsUnresolvedGlobal(scope, n) {
		t.Error("expected n to be unresolved")
	}
}
