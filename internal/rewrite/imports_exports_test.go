package rewrite

import (
	"testing"

	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/textchange"
)

func stringLit(text string, start, end int) *fakeNode {
	return &fakeNode{kind: ast.KindStringLiteral, text: text, start: start, end: end}
}

func TestRewriteImportsExports_RelativePath(t *testing.T) {
	lit := stringLit(`"./util.ts"`, 14, 25)
	decl := link(&fakeNode{kind: ast.KindImportDeclaration, start: 0, end: 26}, lit)

	resolve := func(text, referrer string) (string, bool) {
		if text == "./util.ts" {
			return "file:///util.ts", true
		}
		return "", false
	}
	outputPathFor := func(specifier string) (string, bool) {
		if specifier == "file:///util.ts" {
			return "/out/util.js", true
		}
		return "", false
	}

	src := `import x from "./util.ts";`
	changes, err := RewriteImportsExports(decl, "file:///mod.ts", "/out/mod.js", resolve, outputPathFor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := textchange.Apply(src, changes)
	want := `import x from "./util.js";`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteImportsExports_PackageMapping(t *testing.T) {
	lit := stringLit(`"https://esm.sh/chalk@5"`, 14, 38)
	decl := link(&fakeNode{kind: ast.KindImportDeclaration, start: 0, end: 39}, lit)

	resolve := func(text, referrer string) (string, bool) { return text, true }
	outputPathFor := func(string) (string, bool) { return "", false }
	mappings := PackageSpecifierMappings{"https://esm.sh/chalk@5": "chalk"}

	src := `import c from "https://esm.sh/chalk@5";`
	changes, err := RewriteImportsExports(decl, "file:///mod.ts", "/out/mod.js", resolve, outputPathFor, mappings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := textchange.Apply(src, changes)
	want := `import c from "chalk";`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteImportsExports_UnresolvedIsError(t *testing.T) {
	lit := stringLit(`"weird:thing"`, 17, 30)
	decl := link(&fakeNode{kind: ast.KindImportDeclaration, start: 0, end: 31}, lit)

	resolve := func(string, string) (string, bool) { return "", false }
	outputPathFor := func(string) (string, bool) { return "", false }

	_, err := RewriteImportsExports(decl, "file:///mod.ts", "/out/mod.js", resolve, outputPathFor, nil)
	if err == nil {
		t.Fatal("expected UnresolvedSpecifierError")
	}
	if _, ok := err.(*UnresolvedSpecifierError); !ok {
		t.Errorf("expected *UnresolvedSpecifierError, got %T", err)
	}
}
