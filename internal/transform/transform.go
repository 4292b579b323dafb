// Package transform implements C15, the Orchestrator: the single
// `Transform` entry point that wires C1-C14 together into one
// straight-line pipeline over a set of entry points (spec.md §4.15).
package transform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/denoland/dnt-sub000/internal/analysis"
	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/decls"
	"github.com/denoland/dnt-sub000/internal/diagnostic"
	"github.com/denoland/dnt-sub000/internal/graph"
	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/mappings"
	"github.com/denoland/dnt-sub000/internal/partition"
	"github.com/denoland/dnt-sub000/internal/pkgspecifier"
	"github.com/denoland/dnt-sub000/internal/polyfill"
	"github.com/denoland/dnt-sub000/internal/polyfillfile"
	"github.com/denoland/dnt-sub000/internal/rewrite"
	"github.com/denoland/dnt-sub000/internal/shimfile"
	"github.com/denoland/dnt-sub000/internal/specifier"
	"github.com/denoland/dnt-sub000/internal/textchange"
	"github.com/denoland/dnt-sub000/internal/trace"
	"github.com/denoland/dnt-sub000/internal/xerrors"
)

// NoEntryPointsError is spec.md §7's first fatal error: the caller gave
// zero main entry points.
type NoEntryPointsError struct{}

func (NoEntryPointsError) Error() string { return "no entry points given" }

// UnsupportedModuleKindError fires when a kept module is neither
// JS/TS-family nor JSON.
type UnsupportedModuleKindError struct {
	Specifier string
}

func (e *UnsupportedModuleKindError) Error() string {
	return fmt.Sprintf("unsupported module kind for %s", e.Specifier)
}

// Dependency is a runtime (or dev) package dependency in a TransformOutput.
type Dependency struct {
	Name           string
	Version        string
	PeerDependency bool
}

// OutputFile is one emitted file.
type OutputFile struct {
	Path string
	Text string
}

// EnvironmentOutput is spec.md §6's per-environment TransformOutput shape.
type EnvironmentOutput struct {
	EntryPoints  []string
	Files        []OutputFile
	Dependencies []Dependency
	DevDeps      []Dependency
}

// Options mirrors spec.md §6's TransformOptions.
type Options struct {
	EntryPoints       []specifier.Specifier
	TestEntryPoints   []specifier.Specifier
	Shims             []shimfile.Shim
	TestShims         []shimfile.Shim
	SpecifierMappings map[string]pkgspecifier.PackageMappedSpecifier
	Target            polyfill.Target
	Cwd               string
}

// Output is spec.md §6's TransformOutput.
type Output struct {
	Main     EnvironmentOutput
	Test     EnvironmentOutput
	Warnings []string
}

// environment accumulates per-environment state while the orchestrator
// runs: the active (searching/found) polyfill registry and the set of
// shim global names rewritten references must route through.
type environment struct {
	polyfills       *polyfill.Registry
	shimGlobalNames map[string]bool
	configuredShims []shimfile.Shim
	importedShim    bool
	files           []OutputFile
	entryPoints     []string
	dependencies    []Dependency

	shimsPath     string
	polyfillsPath string
}

func newEnvironment(target polyfill.Target, shims []shimfile.Shim) *environment {
	names := make(map[string]bool)
	for _, s := range shims {
		for _, g := range s.GlobalNames {
			names[g.Name] = true
		}
	}
	return &environment{
		polyfills:       polyfill.NewRegistry(target),
		shimGlobalNames: names,
		configuredShims: shims,
	}
}

// Orchestrator runs Transform.
type Orchestrator struct {
	Graph     *graph.ModuleGraph
	Loader    *loader.SourceLoader
	Parser    ast.Parser
	Collector *diagnostic.Collector
}

// moduleKind is how an output module's text is derived.
type moduleKind int

const (
	kindJS moduleKind = iota
	kindJSON
	kindUnsupported
)

// classifyModuleKind dispatches on a module's declared media type (graph.go
// resolves this from the specifier's extension, or from the load response's
// Content-Type header when the specifier has none — spec.md §8 scenario 4's
// extensionless remote import still gets a media type, and so still
// transforms instead of being dropped as unsupported).
func classifyModuleKind(mt mappings.MediaType) moduleKind {
	switch mt {
	case "":
		return kindUnsupported
	case mappings.MediaJSON:
		return kindJSON
	case mappings.MediaDTS:
		return kindUnsupported
	default:
		return kindJS
	}
}

// Run executes spec.md §4.15's 12-step pipeline.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (Output, error) {
	// Step 1: validate.
	if len(opts.EntryPoints) == 0 {
		return Output{}, NoEntryPointsError{}
	}

	// Step 3: build graph (assumed already built into o.Graph by the
	// caller via graph.ModuleGraph.Build over entry_points ∪
	// test_entry_points ∪ module shims with concrete specifiers).
	if errs := o.Graph.Errors(); len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, fmt.Sprintf("%s: %v", e.Specifier.String(), e.Err))
		}
		return Output{}, xerrors.Wrap(diagnostic.CategoryGraphBuildError, strings.Join(msgs, "; "), errs[0].Err)
	}

	// Step 4: partition (partitionBoth bridges o.Graph to
	// internal/partition's Graph interface through graphPartitionAdapter).
	trace.Log("partitioning %d main + %d test entry points", len(opts.EntryPoints), len(opts.TestEntryPoints))
	mainRes, testRes, err := o.partitionBoth(opts)
	if err != nil {
		var schemeErr *partition.UnknownSchemeError
		if ok := errors.As(err, &schemeErr); ok {
			return Output{}, xerrors.Wrap(diagnostic.CategoryUnknownScheme, schemeErr.Error(), err)
		}
		return Output{}, err
	}

	// Step 5 (+ C5): resolve declaration-file winners, subtract all
	// candidates from local/remote before assigning output paths.
	mainDecls, declWarnings := o.resolveDeclarations(mainRes)
	testDecls, moreDeclWarnings := o.resolveDeclarations(testRes)
	subtractDeclarationCandidates(mainRes, mainDecls)
	subtractDeclarationCandidates(testRes, testDecls)

	mainMaps := o.buildMappings(mainRes)
	testMaps := o.buildMappings(testRes)

	mainEnv := newEnvironment(opts.Target, opts.Shims)
	testEnv := newEnvironment(opts.Target, opts.TestShims)
	mainEnv.entryPoints = entryOutputPaths(opts.EntryPoints, mainMaps)
	testEnv.entryPoints = entryOutputPaths(opts.TestEntryPoints, testMaps)
	mainEnv.shimsPath, mainEnv.polyfillsPath = mainMaps.MainShims, mainMaps.MainPolyfills
	testEnv.shimsPath, testEnv.polyfillsPath = testMaps.TestShims, testMaps.TestPolyfills

	pkgMappings := o.packageSpecifierMappings(opts)

	warnings := append(declWarnings, moreDeclWarnings...)
	warnings = append(warnings, o.processEnvironment(mainEnv, mainRes, mainMaps, pkgMappings)...)
	warnings = append(warnings, o.processEnvironment(testEnv, testRes, testMaps, pkgMappings)...)

	// Step 9: append polyfill/shim aggregate files.
	o.finalizeEnvironment(mainEnv)
	o.finalizeEnvironment(testEnv)

	// Step 10/11: dev-dependency promotion and de-dup are handled by the
	// caller-supplied shim package list's types_package field, which this
	// package does not model standalone (no types_package plumbing beyond
	// Dependency); subtract identical (name,version,peer) tuples already
	// present in main from test's runtime dependencies.
	testEnv.dependencies = subtractPresent(testEnv.dependencies, mainEnv.dependencies)

	sort.Strings(warnings)

	return Output{
		Main: EnvironmentOutput{EntryPoints: mainEnv.entryPoints, Files: mainEnv.files, Dependencies: mainEnv.dependencies},
		Test: EnvironmentOutput{EntryPoints: testEnv.entryPoints, Files: testEnv.files, Dependencies: testEnv.dependencies},
		Warnings: warnings,
	}, nil
}

func subtractPresent(test, main []Dependency) []Dependency {
	present := make(map[string]bool, len(main))
	for _, d := range main {
		present[fmt.Sprintf("%s@%s@%v", d.Name, d.Version, d.PeerDependency)] = true
	}
	out := test[:0:0]
	for _, d := range test {
		key := fmt.Sprintf("%s@%s@%v", d.Name, d.Version, d.PeerDependency)
		if present[key] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// partitionBoth runs C4 for the main and test entry-point sets. The
// dependency lookups are bridged here from graph.ModuleGraph to
// partition.Graph through graphPartitionAdapter.
func (o *Orchestrator) partitionBoth(opts Options) (*partition.Result, *partition.Result, error) {
	mapped := make(map[string]bool)
	for k := range o.Loader.Specifiers.Mapped {
		mapped[k] = true
	}

	adapter := graphPartitionAdapter{g: o.Graph}
	p := partition.New(adapter, mapped, nil)

	mainRes, err := p.Walk(opts.EntryPoints)
	if err != nil {
		return nil, nil, err
	}
	testRes, err := p.Walk(opts.TestEntryPoints)
	if err != nil {
		return nil, nil, err
	}

	// Any specifier the loader recorded as mapped but neither walk
	// actually reached (e.g. only referenced from a module shim,
	// never imported by code) is attributed to test (spec.md §4.4).
	stillMapped, stillIgnored := partition.Remainder(mapped, nil, append(mainRes.Mapped, testRes.Mapped...), append(mainRes.Ignored, testRes.Ignored...))
	for _, k := range stillMapped {
		testRes.Mapped = append(testRes.Mapped, specifier.MustParse(k))
	}
	for _, k := range stillIgnored {
		testRes.Ignored = append(testRes.Ignored, specifier.MustParse(k))
	}

	return mainRes, testRes, nil
}

// packageSpecifierMappings builds spec.md §4.9's package_specifier_mappings
// union: every specifier the loader resolved to a package (C1 registry
// match or an explicit user mapping) maps to the bare import text a
// rewritten import/export should substitute.
func (o *Orchestrator) packageSpecifierMappings(opts Options) rewrite.PackageSpecifierMappings {
	out := make(rewrite.PackageSpecifierMappings)
	if o.Loader != nil {
		for specText, m := range o.Loader.Specifiers.Mapped {
			if m.IsPackage {
				out[specText] = m.Package.SpecifierText()
			}
		}
	}
	for specText, pkg := range opts.SpecifierMappings {
		out[specText] = pkg.SpecifierText()
	}
	return out
}

type graphPartitionAdapter struct{ g *graph.ModuleGraph }

func (a graphPartitionAdapter) Dependencies(spec specifier.Specifier) ([]specifier.Specifier, []specifier.Specifier, specifier.Specifier, bool) {
	mod, ok := a.g.Get(spec)
	if !ok {
		return nil, nil, specifier.Specifier{}, false
	}
	return mod.Dependencies, nil, mod.TypesDependency, true
}

func (o *Orchestrator) buildMappings(res *partition.Result) mappings.Mappings {
	var localPaths []string
	for _, s := range res.Local {
		localPaths = append(localPaths, s.FilePath())
	}
	baseDir, localOut := mappings.LocalPass(localPaths)

	mediaTypes := make(map[string]mappings.MediaType)
	for _, s := range res.Remote {
		mt := mappings.MediaJS
		if mod, ok := o.Graph.Get(s); ok && mod.MediaType != "" {
			mt = mod.MediaType
		}
		mediaTypes[s.String()] = mt
	}
	remoteOut := mappings.RemotePass(res.Remote, mediaTypes)

	m := mappings.SyntheticPaths(baseDir)
	for spec, p := range localOut {
		sp := specifier.FromFilePath(spec)
		m.Paths[sp.String()] = p
	}
	for spec, p := range remoteOut {
		m.Paths[spec] = p
	}
	return m
}

// resolveDeclarations runs C5 over every code specifier's candidate
// TypesDependency set recorded by the partitioner walk, returning the
// selected specifier per code module (for downstream types-map lookups)
// and the DuplicateDeclaration warnings for every losing candidate.
func (o *Orchestrator) resolveDeclarations(partitioned *partition.Result) (map[string]decls.Resolution, []string) {
	selected := make(map[string]decls.Resolution)
	var warnings []string
	for code, candSpecs := range partitioned.TypeCandidate {
		codeSpec, err := specifier.Parse(code)
		if err != nil {
			continue
		}
		var candidates []decls.Candidate
		for _, c := range candSpecs {
			mod, ok := o.Graph.Get(c)
			length := 0
			if ok {
				length = len(mod.Source)
			}
			candidates = append(candidates, decls.Candidate{Specifier: c, Referrer: codeSpec, SourceLength: length})
		}
		resolution, ok := decls.Resolve(codeSpec, candidates)
		if !ok {
			continue
		}
		selected[code] = resolution
		for _, w := range decls.Warnings(resolution) {
			warnings = append(warnings, w.String())
		}
	}
	return selected, warnings
}

// subtractDeclarationCandidates removes every declaration-file candidate
// (selected or ignored) from the local/remote lists: declaration files
// are surfaced through the types map, never emitted standalone (spec.md
// §4.4).
func subtractDeclarationCandidates(res *partition.Result, resolved map[string]decls.Resolution) {
	declSpecifiers := make(map[string]bool)
	for _, r := range resolved {
		declSpecifiers[r.Selected.Specifier.String()] = true
		for _, ig := range r.Ignored {
			declSpecifiers[ig.Specifier.String()] = true
		}
	}
	res.Local = partition.SubtractDeclarations(res.Local, declSpecifiers)
	res.Remote = partition.SubtractDeclarations(res.Remote, declSpecifiers)
}

func entryOutputPaths(entryPoints []specifier.Specifier, maps mappings.Mappings) []string {
	var out []string
	for _, e := range entryPoints {
		if p, ok := maps.Paths[e.String()]; ok {
			out = append(out, p)
		}
	}
	return out
}

// processEnvironment implements step 8: for every kept specifier, parse
// once and run C7/C11/C8/C10/C9, merge the TextChanges, and apply C14.
func (o *Orchestrator) processEnvironment(env *environment, res *partition.Result, maps mappings.Mappings, pkgMappings rewrite.PackageSpecifierMappings) []string {
	var warnings []string

	all := append(append([]specifier.Specifier(nil), res.Local...), res.Remote...)
	specifier.SortSpecifiers(all)

	for _, spec := range all {
		mod, ok := o.Graph.Get(spec)
		if !ok {
			continue
		}

		kind := classifyModuleKind(mod.MediaType)
		outputPath, hasPath := maps.Paths[spec.String()]
		if !hasPath {
			continue
		}

		var outText string
		switch kind {
		case kindJSON:
			outText = "export default " + strings.TrimPrefix(mod.Source, "﻿") + ";\n"
		case kindJS:
			outText = o.rewriteModule(env, mod, spec, outputPath, maps, pkgMappings, &warnings)
		default:
			warnings = append(warnings, (&UnsupportedModuleKindError{Specifier: spec.String()}).Error())
			continue
		}

		env.files = append(env.files, OutputFile{Path: outputPath, Text: outText})
	}

	return warnings
}

func (o *Orchestrator) rewriteModule(env *environment, mod *graph.Module, spec specifier.Specifier, outputPath string, maps mappings.Mappings, pkgMappings rewrite.PackageSpecifierMappings, warnings *[]string) string {
	parsed := mod.Parsed
	var changes []textchange.TextChange

	ignoreRes := analysis.ScanIgnoreLines(parsed.Comments, parsed.Tokens, spec.String())
	for _, w := range ignoreRes.Warnings {
		*warnings = append(*warnings, w.String())
	}

	if parsed.Root != nil && parsed.Scope != nil {
		ast.Walk(parsed.Root, func(n ast.Node) bool {
			env.polyfills.Visit(n, parsed.Scope)
			return true
		})

		lineOf := func(pos int) int {
			for _, c := range parsed.Comments {
				if c.Position.Start <= pos && pos < c.Position.End {
					return c.Line
				}
			}
			return -1
		}

		shimPath := rewrite.RelativeSpecifier(outputPath, env.shimsPath)
		globalsRes := rewrite.RewriteGlobals(parsed.Root, parsed.Scope, env.shimGlobalNames, ignoreRes.LineIndexes, lineOf, shimPath)
		if globalsRes.ImportedShim {
			env.importedShim = true
		}
		changes = append(changes, globalsRes.Changes...)

		changes = append(changes, rewrite.RewriteCommentDirectives(parsed.Comments)...)

		resolve := func(text, referrer string) (string, bool) {
			refSpec, err := specifier.Parse(referrer)
			if err != nil {
				return "", false
			}
			resolved, ok := refSpec.Resolve(text)
			if !ok {
				return "", false
			}
			return resolved.String(), true
		}
		outputPathFor := func(spec string) (string, bool) {
			p, ok := maps.Paths[spec]
			return p, ok
		}
		if importChanges, err := rewrite.RewriteImportsExports(parsed.Root, spec.String(), outputPath, resolve, outputPathFor, pkgMappings); err == nil {
			changes = append(changes, importChanges...)
		} else {
			*warnings = append(*warnings, err.Error())
		}
	}

	return textchange.Apply(mod.Source, changes)
}

func (o *Orchestrator) finalizeEnvironment(env *environment) {
	if env.importedShim {
		src, deps := shimfile.Build(env.configuredShims, map[string]bool{})
		env.files = append(env.files, OutputFile{Path: env.shimsPath, Text: src})
		for _, d := range deps {
			env.dependencies = append(env.dependencies, Dependency(d))
		}
	}

	if found := env.polyfills.Found(); len(found) > 0 {
		trace.Log("polyfill registry found %d polyfill(s) for %s", len(found), env.polyfillsPath)
		src, ok := polyfillfile.Build(found)
		if ok {
			env.files = append(env.files, OutputFile{Path: env.polyfillsPath, Text: src})
			for i := range env.entryPoints {
				relImport := rewrite.RelativeSpecifier(env.entryPoints[i], env.polyfillsPath)
				env.files = prependImportToEntry(env.files, env.entryPoints[i], polyfillfile.EntryPointImport(relImport))
			}
			env.dependencies = mergePolyfillDeps(env.dependencies, found)
		}
	}
}

func prependImportToEntry(files []OutputFile, entryPath string, importLine string) []OutputFile {
	for i, f := range files {
		if f.Path == entryPath {
			files[i].Text = importLine + f.Text
		}
	}
	return files
}

func mergePolyfillDeps(existing []Dependency, found []*polyfill.Polyfill) []Dependency {
	seen := make(map[string]bool, len(existing))
	out := append([]Dependency(nil), existing...)
	for _, d := range existing {
		seen[d.Name] = true
	}
	for _, p := range found {
		for _, d := range p.Deps() {
			if seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			out = append(out, Dependency(d))
		}
	}
	return out
}
