// Package polyfillfile implements C13, the Polyfill File Builder: it
// concatenates the activated polyfills' bodies into one synthesized file
// and reports the import line each entry point needs (spec.md §4.13).
package polyfillfile

import (
	"strings"

	"github.com/denoland/dnt-sub000/internal/polyfill"
)

// Build concatenates each found polyfill's FileText in registration
// order. Returns ok=false if nothing was found, in which case no file
// should be emitted (spec.md §4.13: "if any polyfill is found").
func Build(found []*polyfill.Polyfill) (source string, ok bool) {
	if len(found) == 0 {
		return "", false
	}
	var sb strings.Builder
	for i, p := range found {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(p.FileText())
	}
	return sb.String(), true
}

// EntryPointImport renders the import line to prepend to every
// entry-point output file.
func EntryPointImport(relativePathToPolyfillFile string) string {
	return "import \"" + relativePathToPolyfillFile + "\";\n"
}

// MergeDependencies merges every found polyfill's declared dependencies
// into an environment's dependency list, deduplicating by name.
func MergeDependencies(found []*polyfill.Polyfill, existing []polyfill.Dependency) []polyfill.Dependency {
	seen := make(map[string]bool, len(existing))
	out := append([]polyfill.Dependency(nil), existing...)
	for _, d := range existing {
		seen[d.Name] = true
	}
	for _, p := range found {
		for _, d := range p.Deps() {
			if seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			out = append(out, d)
		}
	}
	return out
}
