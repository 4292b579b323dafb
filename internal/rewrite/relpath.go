// Package rewrite implements C8 (globals/shim rewriting), C9
// (imports/exports rewriting) and C10 (comment-directive rewriting): the
// three independent passes the orchestrator (C15) runs over every kept
// module's AST to produce TextChange lists (spec.md §4.8-§4.10).
package rewrite

import (
	"path/filepath"
	"strings"
)

// RelativeSpecifier computes the relative import specifier from an
// output file to another output file, normalizing to forward slashes and
// a leading "./" (spec.md §4.9: "the relative path from the current
// output file to the target's output file, with a leading './'
// normalized in, and platform-independent '/' separators"). The
// computation itself — filepath.Rel from the importing file's directory,
// then ToSlash, then "./"-prefixing when bare — follows the same
// companion-file relative-import idiom used elsewhere for cross-file
// specifier rewriting.
func RelativeSpecifier(fromOutputFile, toOutputFile string) string {
	fromDir := filepath.Dir(fromOutputFile)
	rel, err := filepath.Rel(fromDir, toOutputFile)
	if err != nil {
		return toOutputFile
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
