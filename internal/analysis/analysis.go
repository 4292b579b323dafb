// Package analysis implements C7, the small set of AST-inspection helpers
// shared by the rewriters and the polyfill detector: ignore-line scanning,
// top-level declaration collection, and the unresolved-global test
// (spec.md §4.7).
package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/diagnostic"
)

var lower = cases.Lower(language.Und)

// IgnoreLines is the result of scanning a module for dnt-shim-ignore
// directive comments.
type IgnoreLines struct {
	// LineIndexes is the set of 0-based source lines whose *next token*
	// must be skipped by the globals rewriter.
	LineIndexes map[int]bool
	Warnings    []diagnostic.Diagnostic
}

// ScanIgnoreLines finds line comments whose trimmed, lower-cased text
// begins with "dnt-shim-ignore" or the legacy "deno-shim-ignore" spelling.
// The line index recorded is the *next* token's starting line, not the
// comment's own line (spec.md §4.7). A warning is emitted for every
// legacy-spelling occurrence (spec.md §7, LegacyIgnoreSpelling).
func ScanIgnoreLines(comments []ast.Comment, tokens []ast.Token, specifier string) IgnoreLines {
	result := IgnoreLines{LineIndexes: make(map[int]bool)}

	for _, c := range comments {
		text := lower.String(strings.TrimSpace(stripLineCommentMarker(c.Text)))
		isCurrent := strings.HasPrefix(text, "dnt-shim-ignore")
		isLegacy := strings.HasPrefix(text, "deno-shim-ignore")
		if !isCurrent && !isLegacy {
			continue
		}
		if isLegacy {
			result.Warnings = append(result.Warnings, diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Category: diagnostic.CategoryLegacyIgnoreSpelling,
				File:     specifier,
				Line:     c.Line + 1,
				Message:  "\"deno-shim-ignore\" is a legacy spelling; use \"dnt-shim-ignore\"",
			})
		}
		if nextLine, ok := nextTokenLine(tokens, c.Position.End); ok {
			result.LineIndexes[nextLine] = true
		}
	}
	return result
}

func stripLineCommentMarker(text string) string {
	t := strings.TrimPrefix(text, "//")
	t = strings.TrimPrefix(t, "/*")
	t = strings.TrimSuffix(t, "*/")
	return t
}

func nextTokenLine(tokens []ast.Token, afterOffset int) (int, bool) {
	for _, tok := range tokens {
		if tok.Position.Start >= afterOffset {
			return tok.Line, true
		}
	}
	return 0, false
}

// TopLevelDecls collects every identifier name declared at module top
// level: variable bindings, class/function/interface/type/module/
// namespace declarations, destructuring keys, and import specifiers
// (spec.md §4.7). It delegates the structural "is this a declaration at
// module scope" judgment to the Scope the parser produced, since that
// scope already tracks syntax-context identity — a naive string-match
// substitute would wrongly treat same-named nested declarations as
// top-level (spec.md §9).
func TopLevelDecls(scope ast.Scope) map[string]bool {
	return scope.TopLevelDecls()
}

// IsUnresolvedGlobal reports whether identifier node n is a free
// reference: not bound by any enclosing declaration, top-level or nested
// (spec.md §4.7, §9).
func IsUnresolvedGlobal(scope ast.Scope, n ast.Node) bool {
	return scope.IsUnresolved(n)
}
