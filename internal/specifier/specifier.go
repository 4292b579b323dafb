// Package specifier represents and classifies the absolute URLs that name
// modules in a transform run: file://, http(s)://, node:, and synthetic
// package-mapped specifiers.
package specifier

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerScheme = cases.Lower(language.Und)

// Scheme classifies a Specifier's URL scheme.
type Scheme string

const (
	SchemeFile    Scheme = "file"
	SchemeHTTP    Scheme = "http"
	SchemeHTTPS   Scheme = "https"
	SchemeNode    Scheme = "node"
	SchemeNpm     Scheme = "npm"
	SchemeUnknown Scheme = ""
)

// Specifier is an absolute URL identifying a module. Equality is URL
// equality: two Specifiers with the same normalized string are equal.
type Specifier struct {
	raw string
	u   *url.URL
}

// Parse builds a Specifier from a raw absolute URL string.
func Parse(raw string) (Specifier, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Specifier{}, fmt.Errorf("parsing specifier %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return Specifier{}, fmt.Errorf("specifier %q is not absolute", raw)
	}
	return Specifier{raw: raw, u: u}, nil
}

// MustParse panics on error; used for literal specifiers in tests and
// built-in tables.
func MustParse(raw string) Specifier {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the specifier's canonical URL text.
func (s Specifier) String() string { return s.raw }

// IsZero reports whether the Specifier is the zero value.
func (s Specifier) IsZero() bool { return s.u == nil }

// Scheme classifies the specifier's URL scheme.
func (s Specifier) Scheme() Scheme {
	if s.u == nil {
		return SchemeUnknown
	}
	switch lowerScheme.String(s.u.Scheme) {
	case "file":
		return SchemeFile
	case "http":
		return SchemeHTTP
	case "https":
		return SchemeHTTPS
	case "node":
		return SchemeNode
	case "npm":
		return SchemeNpm
	default:
		return SchemeUnknown
	}
}

// IsLocal reports whether this is a file:// specifier.
func (s Specifier) IsLocal() bool { return s.Scheme() == SchemeFile }

// IsRemote reports whether this is an http(s):// specifier.
func (s Specifier) IsRemote() bool {
	sc := s.Scheme()
	return sc == SchemeHTTP || sc == SchemeHTTPS
}

// Host returns the URL host (remote specifiers only).
func (s Specifier) Host() string {
	if s.u == nil {
		return ""
	}
	return s.u.Host
}

// Path returns the URL path component.
func (s Specifier) Path() string {
	if s.u == nil {
		return ""
	}
	return s.u.Path
}

// FilePath converts a file:// specifier to an OS file path. Non-file
// specifiers return the empty string.
func (s Specifier) FilePath() string {
	if s.Scheme() != SchemeFile {
		return ""
	}
	p := s.u.Path
	// Windows drive-letter specifiers (file:///C:/foo) carry a leading
	// slash before the drive letter; strip it.
	if len(p) >= 3 && p[0] == '/' && isWindowsDriveSegment(p[1:3]) {
		p = p[1:]
	}
	return p
}

func isWindowsDriveSegment(s string) bool {
	if len(s) != 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// FromFilePath builds a file:// specifier from an OS absolute path.
func FromFilePath(path string) Specifier {
	path = strings.ReplaceAll(path, "\\", "/")
	if len(path) >= 2 && isWindowsDriveSegment(path[:2]) {
		path = "/" + path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return MustParse("file://" + path)
}

// Resolve joins a relative text against this specifier as a referrer,
// following Module Graph's fallback chain (spec.md §4.3): absolute
// http(s)/file/node/npm specifiers pass through unchanged; "./" and "../"
// are joined against the referrer; anything else is unresolved.
func (referrer Specifier) Resolve(text string) (Specifier, bool) {
	if text == "" {
		return Specifier{}, false
	}
	if u, err := url.Parse(text); err == nil && u.IsAbs() {
		switch lowerScheme.String(u.Scheme) {
		case "http", "https", "file", "node", "npm":
			return Specifier{raw: text, u: u}, true
		}
	}
	if strings.HasPrefix(text, "./") || strings.HasPrefix(text, "../") || text == "." || text == ".." {
		if referrer.u == nil {
			return Specifier{}, false
		}
		resolved, err := referrer.u.Parse(text)
		if err != nil {
			return Specifier{}, false
		}
		return Specifier{raw: resolved.String(), u: resolved}, true
	}
	return Specifier{}, false
}

// Equal reports whether two specifiers are URL-equal.
func Equal(a, b Specifier) bool { return a.raw == b.raw }

// SortSpecifiers sorts a slice of Specifier by raw string, the
// deterministic iteration order required throughout the pipeline
// (spec.md §5, §9 "Remote path grouping").
func SortSpecifiers(specs []Specifier) {
	sort.Slice(specs, func(i, j int) bool { return specs[i].raw < specs[j].raw })
}

// SortStrings sorts specifier strings.
func SortStrings(ss []string) { sort.Strings(ss) }
