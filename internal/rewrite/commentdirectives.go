package rewrite

import (
	"regexp"
	"strings"

	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/textchange"
)

var (
	tripleSlashReferenceRe = regexp.MustCompile(`^///\s*<reference\s+types\s*=\s*"([^"]+)"\s*/>`)
	denoTypesRe            = regexp.MustCompile(`@deno-types\s*=\s*"?([^"\s]+)"?`)
)

// RewriteCommentDirectives implements C10: it strips two comment kinds by
// replacing their full extended range (delimiters included) with the
// empty string (spec.md §4.10):
//   - leading triple-slash `<reference types="..." />` whose target is
//     local (./, ../) or http(s)://  — package-relative ones are left alone.
//   - any `@deno-types="..."` comment anywhere in the file.
func RewriteCommentDirectives(comments []ast.Comment) []textchange.TextChange {
	var changes []textchange.TextChange
	for _, c := range comments {
		text := c.Text

		if m := tripleSlashReferenceRe.FindStringSubmatch(text); m != nil {
			target := m[1]
			if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") ||
				strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
				changes = append(changes, textchange.TextChange{
					Lo: c.Position.Start, Hi: c.Position.End, NewText: "",
				})
			}
			continue
		}

		if denoTypesRe.MatchString(text) {
			changes = append(changes, textchange.TextChange{
				Lo: c.Position.Start, Hi: c.Position.End, NewText: "",
			})
		}
	}
	return changes
}
