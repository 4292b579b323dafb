// Package graph implements C3, the Module Graph: a facade over the
// loader that resolves dependencies transitively from a set of entry
// points and records per-module parse/load errors without aborting the
// whole walk (spec.md §4.3).
package graph

import (
	"context"
	"sort"
	"strings"

	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/mappings"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

// Module is one resolved, parsed node in the graph.
type Module struct {
	Specifier    specifier.Specifier
	Source       string
	Parsed       ast.ParsedSource
	Dependencies []specifier.Specifier
	// TypesDependency holds the resolved target of a `@deno-types`/triple
	// slash reference comment, if any (consumed later by C5).
	TypesDependency specifier.Specifier
	// MediaType is this module's declared media type (spec.md §4.6, §6):
	// from its specifier's file extension when it has one, else sniffed
	// from the load response's Content-Type header (needed for an
	// extensionless remote URL, spec.md §8 scenario 4).
	MediaType mappings.MediaType
}

// mediaTypeEnumNames maps a mappings.MediaType extension constant to the
// media-type name ast.ParseRequest.MediaType expects, so the parser can
// pick a grammar variant (e.g. TSX) without knowing about file extensions.
var mediaTypeEnumNames = map[mappings.MediaType]string{
	mappings.MediaTS:   "TypeScript",
	mappings.MediaJS:   "JavaScript",
	mappings.MediaDTS:  "Dts",
	mappings.MediaJSON: "Json",
	mappings.MediaTSX:  "Tsx",
	mappings.MediaJSX:  "Jsx",
	mappings.MediaMTS:  "Mts",
	mappings.MediaCTS:  "Cts",
	mappings.MediaMJS:  "Mjs",
	mappings.MediaCJS:  "Cjs",
}

// mediaTypeOf determines a module's declared media type from its
// specifier's file extension, falling back to the load response's
// Content-Type header when the specifier carries no recognized extension.
func mediaTypeOf(spec specifier.Specifier, headers map[string]string) mappings.MediaType {
	if mt, ok := mediaTypeFromExtension(spec.Path()); ok {
		return mt
	}
	return mediaTypeFromContentType(headers["Content-Type"])
}

func mediaTypeFromExtension(p string) (mappings.MediaType, bool) {
	switch {
	case strings.HasSuffix(p, ".d.ts"):
		return mappings.MediaDTS, true
	case strings.HasSuffix(p, ".tsx"):
		return mappings.MediaTSX, true
	case strings.HasSuffix(p, ".ts"):
		return mappings.MediaTS, true
	case strings.HasSuffix(p, ".jsx"):
		return mappings.MediaJSX, true
	case strings.HasSuffix(p, ".mts"):
		return mappings.MediaMTS, true
	case strings.HasSuffix(p, ".cts"):
		return mappings.MediaCTS, true
	case strings.HasSuffix(p, ".mjs"):
		return mappings.MediaMJS, true
	case strings.HasSuffix(p, ".cjs"):
		return mappings.MediaCJS, true
	case strings.HasSuffix(p, ".js"):
		return mappings.MediaJS, true
	case strings.HasSuffix(p, ".json"):
		return mappings.MediaJSON, true
	}
	return "", false
}

// mediaTypeFromContentType sniffs a media type off an HTTP Content-Type
// header for a specifier whose extension alone doesn't say (an
// extensionless remote URL); unrecognized/empty content types default to
// JavaScript, matching RemotePass's own pre-existing default.
func mediaTypeFromContentType(contentType string) mappings.MediaType {
	base := contentType
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = base[:i]
	}
	base = strings.ToLower(strings.TrimSpace(base))
	switch base {
	case "application/typescript", "text/typescript", "application/x-typescript", "video/vnd.dlna.mpeg-tts":
		return mappings.MediaTS
	case "application/json", "text/json":
		return mappings.MediaJSON
	default:
		return mappings.MediaJS
	}
}

// ModuleError records a load or parse failure for one specifier; the walk
// continues past it (spec.md §4.3: "errors recorded, not fatal").
type ModuleError struct {
	Specifier specifier.Specifier
	Err       error
}

// Parser is the subset of ast.Parser the graph needs, kept narrow so
// tests can fake it without a real tree-sitter backend.
type Parser interface {
	ParseProgram(req ast.ParseRequest) (ast.ParsedSource, error)
}

// DependencyExtractor pulls the raw specifier texts referenced by a
// parsed module's import/export/dynamic-import/type-reference nodes. It
// is implemented atop internal/analysis + internal/rewrite helpers by
// the caller that wires the graph together; kept as an injected function
// here so this package has no dependency on a concrete AST shape.
type DependencyExtractor func(parsed ast.ParsedSource) (deps []string, typesDep string)

// ModuleGraph is C3.
type ModuleGraph struct {
	loader    *loader.SourceLoader
	parser    Parser
	extractor DependencyExtractor

	modules map[string]*Module
	errors  []ModuleError
	order   []string // insertion order, for deterministic Modules()
}

// New builds a ModuleGraph over the given loader/parser/extractor.
func New(l *loader.SourceLoader, p Parser, extract DependencyExtractor) *ModuleGraph {
	return &ModuleGraph{
		loader:    l,
		parser:    p,
		extractor: extract,
		modules:   make(map[string]*Module),
	}
}

// Build walks the graph from the given entry points, breadth-first,
// loading and parsing every reachable module exactly once.
func (g *ModuleGraph) Build(ctx context.Context, entryPoints []specifier.Specifier) {
	seen := make(map[string]bool)
	queue := append([]specifier.Specifier(nil), entryPoints...)
	for _, e := range entryPoints {
		seen[e.String()] = true
	}

	for len(queue) > 0 {
		spec := queue[0]
		queue = queue[1:]

		mod, err := g.loadAndParse(ctx, spec)
		if err != nil {
			g.errors = append(g.errors, ModuleError{Specifier: spec, Err: err})
			continue
		}
		if mod == nil {
			// External (node:) module, or the raw loader found nothing:
			// no further dependencies to walk.
			continue
		}
		g.modules[spec.String()] = mod
		g.order = append(g.order, spec.String())

		for _, dep := range mod.Dependencies {
			key := dep.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			queue = append(queue, dep)
		}
	}
}

func (g *ModuleGraph) loadAndParse(ctx context.Context, spec specifier.Specifier) (*Module, error) {
	resp, err := g.loader.Load(ctx, spec, loader.CacheUseCache)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	source := string(resp.Content)
	mediaType := mediaTypeOf(spec, resp.Headers)
	parsed, err := g.parser.ParseProgram(ast.ParseRequest{
		Specifier:     spec.String(),
		Text:          source,
		MediaType:     mediaTypeEnumNames[mediaType],
		ScopeAnalysis: true,
	})
	if err != nil {
		return nil, err
	}

	depTexts, typesText := g.extractor(parsed)

	mod := &Module{Specifier: spec, Source: source, Parsed: parsed, MediaType: mediaType}
	for _, text := range depTexts {
		if resolved, ok := g.resolveDependency(spec, text); ok {
			mod.Dependencies = append(mod.Dependencies, resolved)
		}
	}
	if typesText != "" {
		if resolved, ok := g.resolveDependency(spec, typesText); ok {
			mod.TypesDependency = resolved
		}
	}
	return mod, nil
}

// resolveDependency implements spec.md §4.3's resolve_dependency: joins a
// relative specifier text against its referrer, passing absolute
// specifiers through unchanged.
func (g *ModuleGraph) resolveDependency(referrer specifier.Specifier, text string) (specifier.Specifier, bool) {
	return referrer.Resolve(text)
}

// Get returns the module for a specifier, if loaded successfully.
func (g *ModuleGraph) Get(spec specifier.Specifier) (*Module, bool) {
	m, ok := g.modules[spec.String()]
	return m, ok
}

// Modules returns every successfully loaded module in deterministic
// (insertion) order.
func (g *ModuleGraph) Modules() []*Module {
	out := make([]*Module, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.modules[key])
	}
	return out
}

// Errors returns all recorded module errors, sorted by specifier for
// deterministic diagnostic output.
func (g *ModuleGraph) Errors() []ModuleError {
	out := append([]ModuleError(nil), g.errors...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Specifier.String() < out[j].Specifier.String()
	})
	return out
}
