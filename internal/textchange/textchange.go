// Package textchange applies a set of non-overlapping byte-range edits to
// source text (C14). This is the only place source text is ever mutated;
// every other component produces TextChange values against the original,
// unmutated source (spec.md §9 "AST trait vs. concrete tree").
package textchange

import "sort"

// TextChange is a byte range [Lo, Hi) in the original source, and its
// replacement text.
type TextChange struct {
	Lo, Hi  int
	NewText string
}

// Apply sorts changes by descending Lo and splices each NewText in place
// of [Lo, Hi). Splicing from the end of the string backward means earlier
// byte offsets in changes still-to-apply remain valid — no change needs
// the others' final coordinates.
//
// Behavior is undefined if ranges overlap (spec.md §4.14); Apply does not
// validate this, matching the reference implementation.
func Apply(source string, changes []TextChange) string {
	if len(changes) == 0 {
		return source
	}
	sorted := make([]TextChange, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo > sorted[j].Lo })

	result := source
	for _, c := range sorted {
		if c.Lo < 0 || c.Hi > len(result) || c.Lo > c.Hi {
			continue
		}
		result = result[:c.Lo] + c.NewText + result[c.Hi:]
	}
	return result
}
