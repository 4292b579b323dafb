package main

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/denoland/dnt-sub000/internal/config"
	"github.com/denoland/dnt-sub000/internal/pkgspecifier"
	"github.com/denoland/dnt-sub000/internal/shimfile"
	"github.com/denoland/dnt-sub000/internal/specifier"
	"github.com/denoland/dnt-sub000/internal/transform"
)

// optionsFromConfig turns the on-disk config.Config into the
// transform.Options the orchestrator runs over, resolving relative
// entry-point paths against baseDir. Module shim specifiers are passed
// through verbatim (see resolveShims).
func optionsFromConfig(cfg config.Config, cwd string) (transform.Options, error) {
	if err := cfg.Validate(); err != nil {
		return transform.Options{}, err
	}

	baseDir := cwd
	if cfg.Cwd != "" && cfg.Cwd != "." {
		baseDir = filepath.Join(cwd, cfg.Cwd)
	}

	ignoreMatcher, err := loadIgnoreMatcher(baseDir)
	if err != nil {
		return transform.Options{}, err
	}

	entryPoints, err := resolveEntryPoints(baseDir, ignoreMatcher, cfg.EntryPoints)
	if err != nil {
		return transform.Options{}, err
	}
	testEntryPoints, err := resolveEntryPoints(baseDir, ignoreMatcher, cfg.TestEntryPoints)
	if err != nil {
		return transform.Options{}, err
	}

	shims, err := resolveShims(baseDir, cfg.Shims)
	if err != nil {
		return transform.Options{}, err
	}
	testShims, err := resolveShims(baseDir, cfg.TestShims)
	if err != nil {
		return transform.Options{}, err
	}

	mappings := make(map[string]pkgspecifier.PackageMappedSpecifier, len(cfg.SpecifierMappings))
	for specText, dep := range cfg.SpecifierMappings {
		mappings[specText] = pkgspecifier.PackageMappedSpecifier{
			Name:           dep.Name,
			Version:        dep.Version,
			SubPath:        dep.SubPath,
			PeerDependency: dep.PeerDependency,
		}
	}

	return transform.Options{
		EntryPoints:       entryPoints,
		TestEntryPoints:   testEntryPoints,
		Shims:             shims,
		TestShims:         testShims,
		SpecifierMappings: mappings,
		Target:            targetFromString(cfg.Target),
		Cwd:               baseDir,
	}, nil
}

// resolveEntryPoints expands glob patterns (entryPoints entries containing
// *, ?, or [ ) against baseDir before treating each match as its own
// source root, then drops anything .modgraftignore excludes. Plain paths
// pass through unchanged (and are never ignore-filtered: an explicit
// entry point always wins, matching git's own "explicitly added files
// bypass .gitignore" behavior).
func resolveEntryPoints(baseDir string, ignoreMatcher *ignore.GitIgnore, paths []string) ([]specifier.Specifier, error) {
	out := make([]specifier.Specifier, 0, len(paths))
	for _, p := range paths {
		if !isGlobPattern(p) {
			out = append(out, specifier.FromFilePath(resolvePath(baseDir, p)))
			continue
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(baseDir, p))
		if err != nil {
			return nil, err
		}
		for _, m := range filterIgnored(baseDir, ignoreMatcher, matches) {
			out = append(out, specifier.FromFilePath(m))
		}
	}
	return out, nil
}

func isGlobPattern(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

func resolveShims(baseDir string, cfgShims []config.ShimConfig) ([]shimfile.Shim, error) {
	out := make([]shimfile.Shim, 0, len(cfgShims))
	for _, s := range cfgShims {
		globals := make([]shimfile.GlobalName, 0, len(s.Globals))
		for _, g := range s.Globals {
			globals = append(globals, shimfile.GlobalName{
				Name:       g.Name,
				ExportName: g.ExportName,
				TypeOnly:   g.TypeOnly,
			})
		}

		shim := shimfile.Shim{
			PackageName: s.Package,
			SubPath:     s.SubPath,
			Version:     s.Version,
			GlobalNames: globals,
		}
		// ModuleSpecifierText is emitted verbatim as an import specifier
		// inside the generated _dnt.shims.ts aggregator (internal/shimfile),
		// so it must already be something a module resolver can follow from
		// the output tree: a bare scheme (node:fs, https://...) or a path
		// relative to the npm package root. Project-local source paths are
		// not resolved here, since their final output location is only
		// decided by internal/mappings during the transform itself.
		shim.ModuleSpecifierText = s.Module
		out = append(out, shim)
	}
	return out, nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
