// Package decls implements C5, the Declaration-File Resolver: for each
// code module with multiple candidate `.d.ts` dependencies it picks one
// winner deterministically and reports the rest as ignored duplicates
// (spec.md §4.5).
package decls

import (
	"sort"

	"github.com/denoland/dnt-sub000/internal/diagnostic"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

// Candidate is one TypesDependency edge: the declaration-file specifier
// plus the specifier of the module that referenced it.
type Candidate struct {
	Specifier specifier.Specifier
	Referrer  specifier.Specifier
	// SourceLength is the candidate declaration file's source length in
	// bytes, used as the final tie-break (spec.md §4.5, step 2).
	SourceLength int
}

// Resolution is the outcome for one code specifier.
type Resolution struct {
	Code     specifier.Specifier
	Selected Candidate
	Ignored  []Candidate
}

// SourceLenLookup returns the byte length of a declaration file's source,
// used for the size tie-break.
type SourceLenLookup func(spec specifier.Specifier) int

// Resolve implements spec.md §4.5's three-step algorithm for one code
// specifier `code` and its candidate set `candidates`.
func Resolve(code specifier.Specifier, candidates []Candidate) (Resolution, bool) {
	// Step 1: discard entries whose referrer equals `code` AND whose
	// specifier is also == code (a redundant self-reference).
	filtered := candidates[:0:0]
	for _, c := range candidates {
		if c.Referrer.String() == code.String() && c.Specifier.String() == code.String() {
			continue
		}
		filtered = append(filtered, c)
	}
	if len(filtered) == 0 {
		return Resolution{}, false
	}

	selected := filtered[0]
	var ignored []Candidate

	for _, d := range filtered[1:] {
		if pick := preferOver(code, selected, d); pick {
			ignored = append(ignored, selected)
			selected = d
		} else {
			ignored = append(ignored, d)
		}
	}

	sort.Slice(ignored, func(i, j int) bool {
		if ignored[i].Specifier.String() != ignored[j].Specifier.String() {
			return ignored[i].Specifier.String() < ignored[j].Specifier.String()
		}
		return ignored[i].Referrer.String() < ignored[j].Referrer.String()
	})

	return Resolution{Code: code, Selected: selected, Ignored: ignored}, true
}

// preferOver reports whether candidate `d` should replace `selected` as
// the winner, per spec.md §4.5 step 2's ordered rule list.
func preferOver(code specifier.Specifier, selected, d Candidate) bool {
	selectedIsFile := selected.Referrer.Scheme() == specifier.SchemeFile
	dIsFile := d.Referrer.Scheme() == specifier.SchemeFile

	if dIsFile && !selectedIsFile {
		return true
	}
	if selectedIsFile && !dIsFile {
		return false
	}

	// Referrers' file-ness is equal.
	if selected.Referrer.String() == code.String() {
		return false // keep selected: it's the code's own declaration header
	}
	if d.Referrer.String() == code.String() {
		return true
	}

	if d.SourceLength > selected.SourceLength {
		return true
	}
	return false
}

// Warnings builds the DuplicateDeclaration diagnostics for a Resolution.
// When the winning referrer is local, only ignored candidates that were
// also referenced from a local file are worth surfacing — a remote
// package's own (necessarily-ignored) declaration reference isn't
// something the caller can do anything about, so it's skipped. When the
// winner is remote, every ignored candidate is reported, since any of
// them could be promoted to the winner by adding a local @deno-types
// override. The hint differs correspondingly (spec.md §4.5).
func Warnings(res Resolution) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	winnerIsLocal := res.Selected.Referrer.Scheme() == specifier.SchemeFile

	var hint string
	if winnerIsLocal {
		hint = "suppress this warning by having only one local file specify the declaration file for this module"
	} else {
		hint = "suppress this warning by specifying a declaration file for this module locally via @deno-types"
	}

	for _, ig := range res.Ignored {
		if winnerIsLocal && ig.Referrer.Scheme() != specifier.SchemeFile {
			continue
		}
		out = append(out, diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Category: diagnostic.CategoryDuplicateDeclaration,
			File:     res.Code.String(),
			Message:  "duplicate declaration file found for " + res.Code.String() + "; specified " + ig.Specifier.String() + " in " + ig.Referrer.String() + "; selected " + res.Selected.Specifier.String(),
			Hint:     hint,
		})
	}
	return out
}
