// Package partition implements C4, the Specifier Partitioner: it walks
// the built Module Graph from the main and test entry points and sorts
// every reachable specifier into local/remote/mapped/ignored/type-carrier
// buckets (spec.md §4.4).
package partition

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/denoland/dnt-sub000/internal/specifier"
)

// Environment distinguishes the main program from its test siblings;
// both walk independently but share the mapped/ignored sets C2 recorded.
type Environment int

const (
	Main Environment = iota
	Test
)

// Graph is the narrow slice of internal/graph.ModuleGraph the
// partitioner needs: dependency lookups by specifier.
type Graph interface {
	Dependencies(spec specifier.Specifier) (codeDeps []specifier.Specifier, typesDeps []specifier.Specifier, ownTypesDependency specifier.Specifier, ok bool)
}

// UnknownSchemeError is a fatal error: a reachable module used a scheme
// other than file/http/https/node (spec.md §7, UnknownScheme).
type UnknownSchemeError struct {
	Specifier string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("unknown scheme for specifier %q", e.Specifier)
}

// Result is the partitioned classification of one environment's walk.
type Result struct {
	Local         []specifier.Specifier
	Remote        []specifier.Specifier
	Mapped        []specifier.Specifier
	Ignored       []specifier.Specifier
	TypeCandidate map[string][]specifier.Specifier // code specifier -> candidate TypesDependency set
}

func newResult() *Result {
	return &Result{TypeCandidate: make(map[string][]specifier.Specifier)}
}

// Partitioner is C4.
type Partitioner struct {
	graph   Graph
	mapped  map[string]bool
	ignored map[string]bool
}

// New builds a Partitioner. mapped and ignored are the sets C2's
// SourceLoader recorded (loader.Specifiers.Mapped / the ignored-specifier
// option set, respectively).
func New(g Graph, mapped map[string]bool, ignored map[string]bool) *Partitioner {
	return &Partitioner{graph: g, mapped: mapped, ignored: ignored}
}

// Walk implements spec.md §4.4's main-walk algorithm for a single
// environment's entry points, popping one specifier at a time:
//   - mapped -> recorded, not recursed into.
//   - ignored -> recorded, not recursed into.
//   - otherwise -> recorded as a module, its code/type dependencies and
//     its own TypesDependency are pushed onto the queue.
func (p *Partitioner) Walk(entryPoints []specifier.Specifier) (*Result, error) {
	res := newResult()
	visited := make(map[string]bool)
	queue := append([]specifier.Specifier(nil), entryPoints...)

	for len(queue) > 0 {
		spec := queue[0]
		queue = queue[1:]
		key := spec.String()
		if visited[key] {
			continue
		}
		visited[key] = true

		if p.mapped[key] {
			res.Mapped = append(res.Mapped, spec)
			continue
		}
		if p.ignored[key] {
			res.Ignored = append(res.Ignored, spec)
			continue
		}

		switch spec.Scheme() {
		case specifier.SchemeFile:
			res.Local = append(res.Local, spec)
		case specifier.SchemeHTTP, specifier.SchemeHTTPS:
			res.Remote = append(res.Remote, spec)
		case specifier.SchemeNode:
			// node: built-ins are external: never emitted, never walked.
			continue
		default:
			return nil, &UnknownSchemeError{Specifier: key}
		}

		codeDeps, typesDeps, ownTypes, ok := p.graph.Dependencies(spec)
		if !ok {
			continue
		}
		queue = append(queue, codeDeps...)
		for _, td := range typesDeps {
			res.TypeCandidate[key] = append(res.TypeCandidate[key], td)
			queue = append(queue, td)
		}
		if !ownTypes.IsZero() {
			res.TypeCandidate[key] = append(res.TypeCandidate[key], ownTypes)
			queue = append(queue, ownTypes)
		}
	}

	return res, nil
}

// Remainder classifies any specifier still left in the mapped/ignored
// sets after the main walk as test-side (spec.md §4.4, "any specifier
// still in mapped or ignored is classified as test-side").
func Remainder(mapped, ignored map[string]bool, consumedMapped, consumedIgnored []specifier.Specifier) (stillMapped, stillIgnored []string) {
	consumed := make(map[string]bool)
	for _, s := range consumedMapped {
		consumed[s.String()] = true
	}
	for _, s := range consumedIgnored {
		consumed[s.String()] = true
	}
	for k := range mapped {
		if !consumed[k] {
			stillMapped = append(stillMapped, k)
		}
	}
	for k := range ignored {
		if !consumed[k] {
			stillIgnored = append(stillIgnored, k)
		}
	}
	return
}

// SubtractDeclarations removes the selected and ignored declaration-file
// specifiers from the local/remote lists: declaration files are handled
// through C5's types map, never emitted standalone (spec.md §4.4).
func SubtractDeclarations(specs []specifier.Specifier, declSpecifiers map[string]bool) []specifier.Specifier {
	out := specs[:0:0]
	for _, s := range specs {
		if declSpecifiers[s.String()] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ConflictingMappedVersionsError is fatal: two specifiers mapped to the
// same output package name with differing versions (spec.md §7).
type ConflictingMappedVersionsError struct {
	Package  string
	First    string
	Second   string
	Version1 string
	Version2 string
}

func (e *ConflictingMappedVersionsError) Error() string {
	return fmt.Sprintf("specifiers %q (%s) and %q (%s) both map to package %q with conflicting versions",
		e.First, e.Version1, e.Second, e.Version2, e.Package)
}

// MappedVersion is one (specifier -> package name/version) mapping
// recorded across main and test environments.
type MappedVersion struct {
	Specifier string
	Package   string
	Version   string
}

// CheckConflictingMappedVersions implements spec.md §4.4's validity
// check: for every pair mapping to the same output package name, their
// versions must agree.
func CheckConflictingMappedVersions(mappings []MappedVersion) error {
	byPackage := make(map[string]MappedVersion)
	for _, m := range mappings {
		if prev, ok := byPackage[m.Package]; ok {
			if !versionsEqual(prev.Version, m.Version) {
				return &ConflictingMappedVersionsError{
					Package: m.Package, First: prev.Specifier, Second: m.Specifier,
					Version1: prev.Version, Version2: m.Version,
				}
			}
			continue
		}
		byPackage[m.Package] = m
	}
	return nil
}

// versionsEqual compares two mapped-dependency version strings the way
// C4's conflict check needs: "1.0.0", "v1.0.0", and "1.0.0+build" should
// all agree, which semver.Compare handles once normalized with a leading
// "v" (semver.IsValid/Compare require it). Strings that aren't valid
// semver (a dist-tag like "latest", or a literal path) fall back to exact
// string comparison.
func versionsEqual(a, b string) bool {
	if a == b {
		return true
	}
	va, vb := normalizeSemver(a), normalizeSemver(b)
	if !semver.IsValid(va) || !semver.IsValid(vb) {
		return false
	}
	return semver.Compare(va, vb) == 0
}

func normalizeSemver(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
