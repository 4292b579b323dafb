package polyfill

import "github.com/denoland/dnt-sub000/internal/ast"

// allPolyfills returns spec.md §4.11's minimum registry, in registration
// order (the order their bodies are concatenated in by C13, and the
// order Visit searches in reverse).
func allPolyfills() []*Polyfill {
	return []*Polyfill{
		objectHasOwn(),
		arrayFromAsync(),
		arrayFindLast(),
		errorCause(),
		stringReplaceAll(),
		importMeta(),
		promiseWithResolvers(),
		weakRef(),
	}
}

func always(Target) bool { return true }

func belowES2021(t Target) bool { return t < ES2021 }

func objectHasOwn() *Polyfill {
	return &Polyfill{
		ID:           "object_has_own",
		UseForTarget: always,
		VisitNode: func(n ast.Node, scope ast.Scope) bool {
			return hasGlobalPropertyAccess(n, scope, "Object", "hasOwn")
		},
		FileText: func() string { return objectHasOwnBody },
		Deps:     func() []Dependency { return nil },
	}
}

func arrayFromAsync() *Polyfill {
	return &Polyfill{
		ID:           "array_from_async",
		UseForTarget: always,
		VisitNode: func(n ast.Node, scope ast.Scope) bool {
			return hasGlobalPropertyAccess(n, scope, "Array", "fromAsync")
		},
		FileText: func() string { return arrayFromAsyncBody },
		Deps:     func() []Dependency { return nil },
	}
}

func arrayFindLast() *Polyfill {
	return &Polyfill{
		ID:           "array_find_last",
		UseForTarget: always,
		VisitNode: func(n ast.Node, _ ast.Scope) bool {
			if n.Kind() != ast.KindCallExpression {
				return false
			}
			children := n.Children()
			if len(children) == 0 || children[0].Kind() != ast.KindMemberExpression {
				return false
			}
			memberChildren := children[0].Children()
			if len(memberChildren) < 2 {
				return false
			}
			prop := memberChildren[1].Text()
			if prop != "findLast" && prop != "findLastIndex" {
				return false
			}
			argCount := len(children) - 1
			return argCount == 1 || argCount == 2
		},
		FileText: func() string { return arrayFindLastBody },
		Deps:     func() []Dependency { return nil },
	}
}

func errorCause() *Polyfill {
	return &Polyfill{
		ID:           "error_cause",
		UseForTarget: always,
		VisitNode: func(n ast.Node, _ ast.Scope) bool {
			if n.Kind() != ast.KindMemberExpression {
				return false
			}
			children := n.Children()
			return len(children) >= 2 && children[1].Text() == "cause"
		},
		FileText: func() string { return errorCauseBody },
		Deps:     func() []Dependency { return nil },
	}
}

func stringReplaceAll() *Polyfill {
	return &Polyfill{
		ID:           "string_replace_all",
		UseForTarget: belowES2021,
		VisitNode: func(n ast.Node, _ ast.Scope) bool {
			if n.Kind() != ast.KindCallExpression {
				return false
			}
			children := n.Children()
			if len(children) == 0 || children[0].Kind() != ast.KindMemberExpression {
				return false
			}
			memberChildren := children[0].Children()
			if len(memberChildren) < 2 || memberChildren[1].Text() != "replaceAll" {
				return false
			}
			return len(children)-1 == 2
		},
		FileText: func() string { return stringReplaceAllBody },
		Deps:     func() []Dependency { return nil },
	}
}

func importMeta() *Polyfill {
	return &Polyfill{
		ID:           "import_meta",
		UseForTarget: always,
		VisitNode: func(n ast.Node, _ ast.Scope) bool {
			if n.Kind() != ast.KindMemberExpression {
				return false
			}
			children := n.Children()
			return len(children) >= 1 && children[0].Kind() == ast.KindImportMeta
		},
		FileText: func() string { return importMetaBody },
		Deps:     func() []Dependency { return nil },
	}
}

func promiseWithResolvers() *Polyfill {
	return &Polyfill{
		ID:           "promise_with_resolvers",
		UseForTarget: always,
		VisitNode: func(n ast.Node, scope ast.Scope) bool {
			return hasGlobalPropertyAccess(n, scope, "Promise", "withResolvers")
		},
		FileText: func() string { return promiseWithResolversBody },
		Deps:     func() []Dependency { return nil },
	}
}

func weakRef() *Polyfill {
	return &Polyfill{
		ID:           "weak_ref",
		UseForTarget: belowES2021,
		VisitNode: func(n ast.Node, scope ast.Scope) bool {
			return n.Kind() == ast.KindIdentifier && n.Text() == "WeakRef" && scope.IsUnresolved(n)
		},
		FileText: func() string { return weakRefBody },
		Deps:     func() []Dependency { return nil },
	}
}
