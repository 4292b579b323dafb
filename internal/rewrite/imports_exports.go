package rewrite

import (
	"strings"

	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/textchange"
)

// SpecifierResolver resolves the text of a module-specifier string
// literal against its referrer, mirroring ModuleGraph.resolve_dependency
// (spec.md §4.3). It returns ok=false when resolution fails.
type SpecifierResolver func(text string, referrerSpecifier string) (resolved string, ok bool)

// OutputPathForSpecifier looks up the assigned output path (C6's
// Mappings) for a resolved specifier.
type OutputPathForSpecifier func(specifier string) (outputPath string, ok bool)

// PackageSpecifierMappings maps a resolved specifier to the bare package
// text to substitute (spec.md §4.9's package_specifier_mappings union).
type PackageSpecifierMappings map[string]string

// UnresolvedSpecifierError reports an import/export string that could not
// be resolved and is not in the package mapping (spec.md §7,
// UnresolvedSpecifier).
type UnresolvedSpecifierError struct {
	Specifier string
	Referrer  string
}

func (e *UnresolvedSpecifierError) Error() string {
	return "unresolved specifier " + e.Specifier + " (referenced from " + e.Referrer + ")"
}

// RewriteImportsExports implements C9: it rewrites the string-literal
// contents of import/export/dynamic-import specifiers, and strips import
// attribute clauses and dynamic-import options (spec.md §4.9).
func RewriteImportsExports(
	root ast.Node,
	referrerSpecifier string,
	outputFile string,
	resolve SpecifierResolver,
	outputPathFor OutputPathForSpecifier,
	packageMappings PackageSpecifierMappings,
) ([]textchange.TextChange, error) {
	var changes []textchange.TextChange

	var visitErr error
	ast.Walk(root, func(n ast.Node) bool {
		if visitErr != nil {
			return false
		}
		switch n.Kind() {
		case ast.KindImportDeclaration, ast.KindExportAllDeclaration,
			ast.KindExportNamedDeclaration, ast.KindTSImportType, ast.KindTSModuleDeclaration:
			lit := findStringLiteralChild(n)
			if lit == nil {
				return true
			}
			if err := rewriteModuleSpecifierLiteral(&changes, lit, referrerSpecifier, outputFile, resolve, outputPathFor, packageMappings); err != nil {
				visitErr = err
				return false
			}
			stripImportAttributes(&changes, n)
		case ast.KindImportCall:
			args := n.Children()
			if len(args) == 0 || args[0].Kind() != ast.KindStringLiteral {
				return true
			}
			if err := rewriteModuleSpecifierLiteral(&changes, args[0], referrerSpecifier, outputFile, resolve, outputPathFor, packageMappings); err != nil {
				visitErr = err
				return false
			}
			if len(args) > 1 {
				// Strip the second argument: from the comma preceding it
				// through the end of the call's argument list.
				changes = append(changes, textchange.TextChange{
					Lo: args[0].Position().End, Hi: args[len(args)-1].Position().End, NewText: "",
				})
			}
		}
		return true
	})

	if visitErr != nil {
		return nil, visitErr
	}
	return changes, nil
}

func findStringLiteralChild(n ast.Node) ast.Node {
	for _, c := range n.Children() {
		if c.Kind() == ast.KindStringLiteral {
			return c
		}
	}
	return nil
}

// rewriteModuleSpecifierLiteral rewrites only the literal's inner text
// (the byte range inside the quotes, spec.md §4.9), resolving via
// `resolve` and substituting either a bare package name or a relative
// output-to-output path.
func rewriteModuleSpecifierLiteral(
	changes *[]textchange.TextChange,
	lit ast.Node,
	referrerSpecifier string,
	outputFile string,
	resolve SpecifierResolver,
	outputPathFor OutputPathForSpecifier,
	packageMappings PackageSpecifierMappings,
) error {
	raw := lit.Text()
	inner := strings.Trim(raw, `"'`)

	resolved, ok := resolve(inner, referrerSpecifier)
	if !ok {
		if bare, mapped := packageMappings[inner]; mapped {
			setLiteralInner(changes, lit, bare)
			return nil
		}
		return &UnresolvedSpecifierError{Specifier: inner, Referrer: referrerSpecifier}
	}

	if bare, mapped := packageMappings[resolved]; mapped {
		setLiteralInner(changes, lit, bare)
		return nil
	}

	targetPath, ok := outputPathFor(resolved)
	if !ok {
		return &UnresolvedSpecifierError{Specifier: inner, Referrer: referrerSpecifier}
	}

	rel := RelativeSpecifier(outputFile, targetPath)
	setLiteralInner(changes, lit, rel)
	return nil
}

func setLiteralInner(changes *[]textchange.TextChange, lit ast.Node, newText string) {
	pos := lit.Position()
	*changes = append(*changes, textchange.TextChange{Lo: pos.Start + 1, Hi: pos.End - 1, NewText: newText})
}

// stripImportAttributes removes a trailing `with { ... }` / `assert { ...
// }` clause from a static import/export declaration (spec.md §4.9): the
// range from the token preceding `with`/`assert` to the end of the
// object.
func stripImportAttributes(changes *[]textchange.TextChange, decl ast.Node) {
	children := decl.Children()
	for i, c := range children {
		if c.Text() == "with" || c.Text() == "assert" {
			if i+1 < len(children) {
				obj := children[i+1]
				*changes = append(*changes, textchange.TextChange{
					Lo: children[i-1].Position().End, Hi: obj.Position().End, NewText: "",
				})
			}
			return
		}
	}
}
