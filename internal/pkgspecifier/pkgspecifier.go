// Package pkgspecifier models mapped-package specifiers: the destination
// of a specifier mapping (spec.md §3 PackageMappedSpecifier), including
// parsing the "npm:name[@version][/subpath]" form documented in the
// original dnt source (rs-lib/src/lib.rs, PackageMappedSpecifier::from_npm_specifier)
// but elided from the distilled spec — a supplemented feature.
package pkgspecifier

import "strings"

// PackageMappedSpecifier is the destination of a C1/C2 specifier mapping:
// a package name, optional version, optional sub-path, and whether it
// should be recorded as a peer dependency rather than a direct one.
type PackageMappedSpecifier struct {
	Name           string
	Version        string // "" models a built-in with no installable dependency
	SubPath        string // "" if the mapping targets the package root
	PeerDependency bool
}

// FromNpmSpecifier parses an "npm:name[@version][/subpath]" specifier
// string. Supports scoped packages ("npm:@scope/name@1.0.0/sub").
//
// Handles the full edge-case set: a bare name with no version or
// subpath, a version with no subpath, a subpath with no version, and
// scoped package names whose leading "@" must not be mistaken for the
// version-separator "@".
func FromNpmSpecifier(text string) (PackageMappedSpecifier, bool) {
	const prefix = "npm:"
	if !strings.HasPrefix(text, prefix) {
		return PackageMappedSpecifier{}, false
	}
	rest := text[len(prefix):]
	if rest == "" {
		return PackageMappedSpecifier{}, false
	}

	scoped := strings.HasPrefix(rest, "@")
	searchFrom := 0
	if scoped {
		searchFrom = 1
	}

	// Split off the sub-path first: the first "/" after the name+version
	// portion. For scoped packages the name itself contains one "/"
	// (@scope/name), so the *second* "/" (if any) begins the sub-path.
	slashCount := 0
	subPathIdx := -1
	for i := searchFrom; i < len(rest); i++ {
		if rest[i] == '/' {
			slashCount++
			if (!scoped && slashCount == 1) || (scoped && slashCount == 2) {
				subPathIdx = i
				break
			}
		}
	}

	namever := rest
	subPath := ""
	if subPathIdx >= 0 {
		namever = rest[:subPathIdx]
		subPath = rest[subPathIdx+1:]
	}

	// Split name and version on the first "@" after the scope marker.
	name := namever
	version := ""
	atIdx := -1
	for i := searchFrom; i < len(namever); i++ {
		if namever[i] == '@' {
			atIdx = i
			break
		}
	}
	if atIdx >= 0 {
		name = namever[:atIdx]
		version = namever[atIdx+1:]
	}

	if name == "" {
		return PackageMappedSpecifier{}, false
	}

	return PackageMappedSpecifier{Name: name, Version: version, SubPath: subPath}, true
}

// SpecifierText renders the mapped specifier as bare-import text: the
// package name, plus "/subPath" when set (spec.md §4.9: "substitute the
// bare package text (including optional sub-path)").
func (p PackageMappedSpecifier) SpecifierText() string {
	if p.SubPath == "" {
		return p.Name
	}
	return p.Name + "/" + p.SubPath
}
