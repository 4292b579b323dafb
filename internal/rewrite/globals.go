package rewrite

import (
	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/textchange"
)

// GlobalsResult is the output of RewriteGlobals: the TextChanges to apply,
// and whether any rewrite fired (which gates whether C12's shim file gets
// emitted/imported for this module's environment, spec.md §4.12).
type GlobalsResult struct {
	Changes      []textchange.TextChange
	ImportedShim bool
	ShimLocalName string
}

// RewriteGlobals implements C8: it walks the AST and, for every
// unresolved-scope identifier, rewrites bare `window`, shim-covered
// global names, and `globalThis` occurrences to go through a generated
// shim import (spec.md §4.8).
//
// shimGlobalNames is the union of every active shim's global_names for
// this environment. ignoredLines is the set of source lines the
// dnt-shim-ignore directive (C7) suppresses rewriting on. shimRelativePath
// is the already-computed relative specifier from this module's output
// file to the environment's shim file.
func RewriteGlobals(
	root ast.Node,
	scope ast.Scope,
	shimGlobalNames map[string]bool,
	ignoredLines map[int]bool,
	lineOf func(pos int) int,
	shimRelativePath string,
) GlobalsResult {
	allNames := ast.AllIdentifierNames(root)
	shimLocal := ast.UniqueName("dntShim", allNames)

	var changes []textchange.TextChange
	fired := false

	ast.Walk(root, func(n ast.Node) bool {
		if n.Kind() != ast.KindIdentifier {
			return true
		}
		if ignoredLines[lineOf(n.Position().Start)] {
			return true
		}
		if n.IsDeclarationIdent() {
			return true
		}
		if !scope.IsUnresolved(n) {
			return true
		}

		name := n.Text()
		switch {
		case name == "window":
			if isTopLevelDeclShadowed(scope, "window") {
				break
			}
			change, shimForm, skip := classifyGlobalOccurrence(n, shimLocal, shimGlobalNames)
			switch {
			case skip:
				// leave untouched
			case shimForm:
				changes = append(changes, change)
				fired = true
			default:
				changes = append(changes, textchange.TextChange{
					Lo: n.Position().Start, Hi: n.Position().End, NewText: "globalThis",
				})
			}
		case name == "globalThis":
			change, shimForm, skip := classifyGlobalOccurrence(n, shimLocal, shimGlobalNames)
			switch {
			case skip:
				// leave untouched
			case shimForm:
				changes = append(changes, change)
				fired = true
			default:
				changes = append(changes, textchange.TextChange{
					Lo: n.Position().Start, Hi: n.Position().End, NewText: shimLocal + ".dntGlobalThis",
				})
				fired = true
			}
		case shimGlobalNames[name]:
			if shouldSkipShimGlobalRewrite(n, name) {
				return true
			}
			changes = append(changes, textchange.TextChange{
				Lo: n.Position().Start, Hi: n.Position().End, NewText: shimLocal + "." + name,
			})
			fired = true
		}
		return true
	})

	if !fired {
		return GlobalsResult{Changes: changes, ImportedShim: false}
	}

	importStmt := "import * as " + shimLocal + " from " + quote(shimRelativePath) + ";\n"
	changes = append(changes, textchange.TextChange{Lo: 0, Hi: 0, NewText: importStmt})

	return GlobalsResult{Changes: changes, ImportedShim: true, ShimLocalName: shimLocal}
}

func isTopLevelDeclShadowed(scope ast.Scope, name string) bool {
	return scope.TopLevelDecls()[name]
}

// shouldSkipShimGlobalRewrite implements the "Skip" clause of spec.md
// §4.8: declaration identifiers, and member-expression objects whose
// property is NOT itself a shim-global name.
func shouldSkipShimGlobalRewrite(n ast.Node, name string) bool {
	if n.IsDeclarationIdent() {
		return true
	}
	parent := n.Parent()
	if parent == nil || parent.Kind() != ast.KindMemberExpression {
		return false
	}
	children := parent.Children()
	if len(children) < 1 || children[0] != n {
		// n is the property, not the object — never a global reference.
		return true
	}
	return false
}

// classifyGlobalOccurrence implements the typed/qualified-context rules
// spec.md §4.8 applies identically to `window` and `globalThis`:
//   - `typeof x` type-query -> shim form (dntShim.dntGlobalThis)
//   - `T.U` qualified type name -> shim form (dntShim.<U>), only when U is
//     a shim global; otherwise skipped entirely
//   - member-expression object -> shim form, only when the property is a
//     shim global; otherwise skipped entirely (unrelated `x.foo` stays put)
//   - anything else is a plain value-context reference, left to the caller
//     (bare `window`/`globalThis` get different plain-context treatment).
func classifyGlobalOccurrence(n ast.Node, shimLocal string, shimGlobalNames map[string]bool) (change textchange.TextChange, shimForm bool, skip bool) {
	parent := n.Parent()
	if parent == nil {
		return textchange.TextChange{}, false, false
	}

	switch parent.Kind() {
	case ast.KindTSQualifiedName:
		children := parent.Children()
		if len(children) == 2 && children[0] == n {
			right := children[1].Text()
			if !shimGlobalNames[right] {
				return textchange.TextChange{}, false, true
			}
			return textchange.TextChange{
				Lo: parent.Position().Start, Hi: parent.Position().End,
				NewText: shimLocal + "." + right,
			}, true, false
		}
	case ast.KindTSTypeQuery:
		return textchange.TextChange{
			Lo: n.Position().Start, Hi: n.Position().End,
			NewText: shimLocal + ".dntGlobalThis",
		}, true, false
	case ast.KindMemberExpression:
		children := parent.Children()
		if len(children) >= 1 && children[0] == n {
			prop := ""
			if len(children) >= 2 {
				prop = children[1].Text()
			}
			if !shimGlobalNames[prop] {
				return textchange.TextChange{}, false, true
			}
			return textchange.TextChange{
				Lo: n.Position().Start, Hi: n.Position().End,
				NewText: shimLocal + ".dntGlobalThis",
			}, true, false
		}
		// n is the property of some other member expression (`foo.globalThis`) — not ours.
		return textchange.TextChange{}, false, true
	}

	return textchange.TextChange{}, false, false
}

func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	out = append(out, '"')
	return string(out)
}
