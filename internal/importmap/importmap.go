// Package importmap parses the optional import-map document spec.md §9
// names as an external collaborator: "an optional import-map document
// pair (base_url, value)". The document's "imports"/"scopes" members are
// an arbitrary string-keyed object (bare specifiers, scoped specifiers,
// trailing-slash prefixes), so rather than unmarshal it into a fixed Go
// struct the members are walked with gjson, the way bennypowers-cem reads
// its own loosely-structured JSON/JSONC documents.
package importmap

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/denoland/dnt-sub000/internal/specifier"
)

// Map is a parsed import map: top-level "imports" plus scoped overrides
// keyed by scope prefix, both resolved to absolute Specifiers against
// baseURL.
type Map struct {
	BaseURL specifier.Specifier
	Imports map[string]specifier.Specifier
	Scopes  map[string]map[string]specifier.Specifier
}

// Parse reads an import-map JSON document, resolving every mapped value
// against baseURL per the WHATWG import-maps "resolve a module specifier"
// address rules this package implements a practical subset of: bare
// strings and self-referencing ("./", "../", "/") values are resolved
// relative to baseURL, absolute URLs are kept as-is.
func Parse(doc string, baseURL specifier.Specifier) (*Map, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("importmap: invalid JSON document")
	}
	root := gjson.Parse(doc)

	m := &Map{
		BaseURL: baseURL,
		Imports: map[string]specifier.Specifier{},
		Scopes:  map[string]map[string]specifier.Specifier{},
	}

	root.Get("imports").ForEach(func(key, value gjson.Result) bool {
		if resolved, ok := resolveValue(baseURL, value.String()); ok {
			m.Imports[key.String()] = resolved
		}
		return true
	})

	root.Get("scopes").ForEach(func(scopeKey, scopeValue gjson.Result) bool {
		scopeURL, ok := resolveValue(baseURL, scopeKey.String())
		scopeName := scopeKey.String()
		if ok {
			scopeName = scopeURL.String()
		}
		entries := map[string]specifier.Specifier{}
		scopeValue.ForEach(func(key, value gjson.Result) bool {
			if resolved, ok := resolveValue(baseURL, value.String()); ok {
				entries[key.String()] = resolved
			}
			return true
		})
		m.Scopes[scopeName] = entries
		return true
	})

	return m, nil
}

func resolveValue(baseURL specifier.Specifier, text string) (specifier.Specifier, bool) {
	if text == "" {
		return specifier.Specifier{}, false
	}
	if abs, err := specifier.Parse(text); err == nil {
		return abs, true
	}
	return baseURL.Resolve(text)
}

// Resolve applies spec.md §9's import-map lookup for one specifier text
// seen while loading referrer: the most specific matching scope wins,
// falling back to the top-level imports table, mirroring the "most
// specific scope first, then unscoped imports" precedence the import-maps
// standard defines.
func (m *Map) Resolve(text string, referrer specifier.Specifier) (specifier.Specifier, bool) {
	if m == nil {
		return specifier.Specifier{}, false
	}
	ref := referrer.String()
	best := ""
	var bestScope map[string]specifier.Specifier
	for prefix, scope := range m.Scopes {
		matches := prefix == ref || (prefix != "" && prefix[len(prefix)-1] == '/' && len(ref) > len(prefix) && ref[:len(prefix)] == prefix)
		if matches && (bestScope == nil || len(prefix) > len(best)) {
			best, bestScope = prefix, scope
		}
	}
	if resolved, ok := bestScope[text]; ok {
		return resolved, true
	}
	resolved, ok := m.Imports[text]
	return resolved, ok
}

// Redirects flattens a Map's top-level imports into the
// map[string]specifier.Specifier shape loader.SourceLoader.New expects
// for its userRedirects argument, letting an import map participate in
// C2's load algorithm as another explicit redirect source.
func (m *Map) Redirects() map[string]specifier.Specifier {
	if m == nil {
		return nil
	}
	out := make(map[string]specifier.Specifier, len(m.Imports))
	for k, v := range m.Imports {
		out[k] = v
	}
	return out
}
