package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/denoland/dnt-sub000/internal/config"
	"github.com/denoland/dnt-sub000/internal/depextract"
	"github.com/denoland/dnt-sub000/internal/diagnostic"
	"github.com/denoland/dnt-sub000/internal/graph"
	"github.com/denoland/dnt-sub000/internal/importmap"
	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/pkgspecifier"
	"github.com/denoland/dnt-sub000/internal/polyfill"
	"github.com/denoland/dnt-sub000/internal/specifier"
	"github.com/denoland/dnt-sub000/internal/trace"
	"github.com/denoland/dnt-sub000/internal/transform"
	"github.com/denoland/dnt-sub000/internal/transformcache"
	"github.com/denoland/dnt-sub000/internal/tsparser"
)

// buildFlags holds the parsed flags from the build command line.
type buildFlags struct {
	ConfigPath string
	OutDir     string
	CacheDir   string
	Reload     bool
	Debug      bool
	Quiet      bool
	Strict     bool
}

func parseBuildArgs(args []string) buildFlags {
	f := buildFlags{OutDir: "npm"}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				i++
				f.ConfigPath = args[i]
			}
		case "--out":
			if i+1 < len(args) {
				i++
				f.OutDir = args[i]
			}
		case "--cache":
			if i+1 < len(args) {
				i++
				f.CacheDir = args[i]
			}
		case "--reload":
			f.Reload = true
		case "--debug":
			f.Debug = true
		case "--quiet":
			f.Quiet = true
		case "--strict":
			f.Strict = true
		default:
			fmt.Fprintf(os.Stderr, "warning: unrecognized flag %q\n", args[i])
		}
	}
	return f
}

// runBuild loads the project config, runs the transform pipeline end to
// end, and writes the resulting files to disk.
func runBuild(args []string) int {
	flags := parseBuildArgs(args)
	trace.Enabled = flags.Debug

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(flags.ConfigPath, cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		return 1
	}
	if cfgPath != "" {
		fmt.Fprintf(os.Stderr, "loaded config from %s\n", filepath.Base(cfgPath))
	}

	var configHash string
	if cfgPath != "" {
		if data, err := os.ReadFile(cfgPath); err == nil {
			configHash = transformcache.HashBytes(data)
		}
	}
	cachePath := transformcache.Path(flags.OutDir)
	if !flags.Reload {
		if cached := transformcache.Load(cachePath); cached.IsValid(configHash) {
			fmt.Fprintln(os.Stderr, color.GreenString("%s is up to date, skipping transform", flags.OutDir))
			return 0
		}
	}

	collector := diagnostic.NewCollector(flags.Strict, flags.Quiet)

	opts, err := optionsFromConfig(cfg, cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		return 1
	}

	rawLoader := newDispatchLoader(flags.CacheDir, flags.Reload)
	registryMappings, redirects := splitSpecifierMappings(opts.SpecifierMappings)
	if cfg.ImportMap != "" {
		mapRedirects, err := loadImportMapRedirects(cwd, cfg.ImportMap)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
			return 1
		}
		for k, v := range mapRedirects {
			redirects[k] = v
		}
	}
	srcLoader := loader.New(rawLoader, registryMappings, redirects, nil)

	parser := tsparser.New()
	moduleGraph := graph.New(srcLoader, parser, depextract.Extract)

	allEntries := append(append([]specifier.Specifier{}, opts.EntryPoints...), opts.TestEntryPoints...)
	moduleGraph.Build(context.Background(), allEntries)

	orch := &transform.Orchestrator{
		Graph:     moduleGraph,
		Loader:    srcLoader,
		Parser:    parser,
		Collector: collector,
	}

	out, err := orch.Run(context.Background(), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		return 1
	}

	for _, w := range out.Warnings {
		if flags.Quiet {
			continue
		}
		fmt.Fprintln(os.Stderr, color.YellowString("warning: %s", w))
	}

	if err := writeOutput(flags.OutDir, out); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		return 1
	}

	if collector.HasErrors() {
		fmt.Fprintln(os.Stderr, color.RedString(collector.Summary()))
		return 1
	}

	transformcache.Delete(cachePath)
	outputHashes := make(map[string]string)
	for _, env := range []transform.EnvironmentOutput{out.Main, out.Test} {
		for _, f := range env.Files {
			outputHashes[filepath.Join(flags.OutDir, f.Path)] = transformcache.HashBytes([]byte(f.Text))
		}
	}
	if err := transformcache.Save(cachePath, transformcache.New(configHash, outputHashes)); err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("warning: could not write transform cache: %v", err))
	}

	total := len(out.Main.Files) + len(out.Test.Files)
	fmt.Fprintln(os.Stderr, color.GreenString("wrote %d file(s) to %s", total, flags.OutDir))
	return 0
}

func loadConfig(configPath, cwd string) (config.Config, string, error) {
	if configPath == "" {
		configPath = config.Discover(cwd)
	}
	if configPath == "" {
		return config.Config{}, "", fmt.Errorf("no modgraft.config.ts/.json found in %s and none given via --config", cwd)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, "", err
	}
	return *cfg, configPath, nil
}

// loadImportMapRedirects reads and parses the project's import-map
// document (config's importMap path, resolved against cwd) into the
// userRedirects shape loader.New's C2 mapping step consumes.
func loadImportMapRedirects(cwd, importMapPath string) (map[string]specifier.Specifier, error) {
	full := resolvePath(cwd, importMapPath)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading import map %s: %w", full, err)
	}
	baseURL := specifier.FromFilePath(full)
	m, err := importmap.Parse(string(data), baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing import map %s: %w", full, err)
	}
	return m.Redirects(), nil
}

func writeOutput(outDir string, out transform.Output) error {
	for _, env := range []transform.EnvironmentOutput{out.Main, out.Test} {
		for _, f := range env.Files {
			full := filepath.Join(outDir, f.Path)
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(full, []byte(f.Text), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitSpecifierMappings(m map[string]pkgspecifier.PackageMappedSpecifier) (map[string]pkgspecifier.PackageMappedSpecifier, map[string]specifier.Specifier) {
	return m, map[string]specifier.Specifier{}
}

// targetFromString mirrors config.validTargets' keys, mapping them onto
// polyfill.Target (spec.md §6's ScriptTarget).
func targetFromString(s string) polyfill.Target {
	switch s {
	case "ES3":
		return polyfill.ES3
	case "ES5":
		return polyfill.ES5
	case "ES2015":
		return polyfill.ES2015
	case "ES2016":
		return polyfill.ES2016
	case "ES2017":
		return polyfill.ES2017
	case "ES2018":
		return polyfill.ES2018
	case "ES2019":
		return polyfill.ES2019
	case "ES2020":
		return polyfill.ES2020
	case "ES2021":
		return polyfill.ES2021
	case "ES2022":
		return polyfill.ES2022
	case "ES2023":
		return polyfill.ES2023
	default:
		return polyfill.Latest
	}
}
