// Package depextract supplies graph.New's DependencyExtractor: the
// function that pulls raw specifier texts and the types-dependency edge
// out of a parsed module, which graph.go documents as "implemented atop
// internal/analysis + internal/rewrite helpers by the caller that wires
// the graph together" (spec.md §4.3).
package depextract

import (
	"regexp"
	"strings"

	"github.com/denoland/dnt-sub000/internal/ast"
)

// Mirrors the directive patterns internal/rewrite/commentdirectives.go
// strips: a types dependency is whichever of these appears first.
var (
	tripleSlashReferenceRe = regexp.MustCompile(`^///\s*<reference\s+types\s*=\s*"([^"]+)"\s*/>`)
	denoTypesRe            = regexp.MustCompile(`@deno-types\s*=\s*"?([^"\s]+)"?`)
)

// Extract implements graph.DependencyExtractor.
func Extract(parsed ast.ParsedSource) (deps []string, typesDep string) {
	if parsed.Root != nil {
		ast.Walk(parsed.Root, func(n ast.Node) bool {
			switch n.Kind() {
			case ast.KindImportDeclaration, ast.KindExportAllDeclaration,
				ast.KindExportNamedDeclaration, ast.KindTSImportType, ast.KindTSModuleDeclaration:
				if lit := firstStringLiteralChild(n); lit != nil {
					deps = append(deps, unquote(lit.Text()))
				}
			case ast.KindImportCall:
				args := n.Children()
				if len(args) > 0 && args[0].Kind() == ast.KindStringLiteral {
					deps = append(deps, unquote(args[0].Text()))
				}
			}
			return true
		})
	}

	for _, c := range parsed.Comments {
		if m := tripleSlashReferenceRe.FindStringSubmatch(c.Text); m != nil {
			typesDep = m[1]
			break
		}
		if m := denoTypesRe.FindStringSubmatch(c.Text); m != nil {
			typesDep = m[1]
			break
		}
	}
	return deps, typesDep
}

func firstStringLiteralChild(n ast.Node) ast.Node {
	for _, c := range n.Children() {
		if c.Kind() == ast.KindStringLiteral {
			return c
		}
	}
	return nil
}

func unquote(raw string) string {
	return strings.Trim(raw, `"'`)
}
