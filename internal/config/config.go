// Package config discovers and loads modgraft.config.{ts,json}, the
// on-disk authoring surface for TransformOptions (spec.md §6) so a
// project doesn't have to pass every entry point and shim as flags.
package config

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
)

// Config mirrors spec.md §6's TransformOptions, JSON-tagged for
// modgraft.config.json/.ts authoring.
type Config struct {
	EntryPoints       []string             `json:"entryPoints"`
	TestEntryPoints   []string             `json:"testEntryPoints,omitempty"`
	Shims             []ShimConfig         `json:"shims,omitempty"`
	TestShims         []ShimConfig         `json:"testShims,omitempty"`
	SpecifierMappings map[string]MappedDep `json:"mappings,omitempty"`
	Target            string               `json:"target,omitempty"` // "ES3".."ES2023", "Latest" (default)
	ImportMap         string               `json:"importMap,omitempty"`
	Cwd               string               `json:"cwd,omitempty"`
}

// ShimConfig is one declared shim entry (package or module form).
type ShimConfig struct {
	Package      string            `json:"package,omitempty"`
	Version      string            `json:"version,omitempty"`
	SubPath      string            `json:"subPath,omitempty"`
	TypesPackage string            `json:"typesPackage,omitempty"`
	Module       string            `json:"module,omitempty"`
	Globals      []ShimGlobalEntry `json:"globals"`
}

// ShimGlobalEntry mirrors the GlobalName record (spec.md Glossary).
type ShimGlobalEntry struct {
	Name       string `json:"name"`
	ExportName string `json:"exportName,omitempty"`
	TypeOnly   bool   `json:"typeOnly,omitempty"`
}

// MappedDep is one specifier_mappings destination (spec.md Glossary,
// PackageMappedSpecifier).
type MappedDep struct {
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	SubPath        string `json:"subPath,omitempty"`
	PeerDependency bool   `json:"peerDependency,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Target: "Latest",
		Cwd:    ".",
	}
}

// Discover searches for a modgraft config file in the given directory.
// Checks in priority order: modgraft.config.ts > modgraft.config.json.
// Returns the full path to the config file, or empty string if none found.
func Discover(dir string) string {
	candidates := []string{
		filepath.Join(dir, "modgraft.config.ts"),
		filepath.Join(dir, "modgraft.config.json"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads and parses a modgraft config file. Supports both JSON
// (.json) and TypeScript (.ts) formats; TypeScript configs are evaluated
// via Node.js to extract the config object.
func Load(path string) (*Config, error) {
	ext := filepath.Ext(path)
	switch ext {
	case ".ts":
		return LoadTS(path)
	case ".json":
		return LoadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (expected .ts or .json)", ext)
	}
}

// LoadJSON reads and parses a JSON config file.
func LoadJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

// LoadTS evaluates a TypeScript config file via Node.js and parses the
// result.
//
// The config file is expected to have a default export (e.g., export
// default defineConfig({...})). The function tries multiple Node.js
// strategies in order:
//  1. node --import tsx (tsx loader — works with any Node.js version)
//  2. node --experimental-strip-types (Node.js 22.6+ built-in TS support)
//
// Falls back to a clear error message if neither works.
func LoadTS(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", path, err)
	}

	fileURL := "file://" + absPath
	if os.PathSeparator == '\\' {
		fileURL = "file:///" + strings.ReplaceAll(absPath, "\\", "/")
	}
	evalScript := fmt.Sprintf(
		`import(%q).then(m => {const c = m.default; if (c === undefined || c === null || typeof c !== "object" || Object.keys(c).length === 0) { process.stderr.write("error: config file must have a non-empty default export (export default { ... })\\n"); process.exit(1); } process.stdout.write(JSON.stringify(c));}).catch(e => { process.stderr.write("error: " + e.message + "\\n"); process.exit(1); })`,
		fileURL,
	)

	configDir := filepath.Dir(absPath)

	jsonData, err := execNode(configDir, []string{"--import", "tsx", "--input-type=module", "-e", evalScript})
	if err != nil {
		jsonData, err = execNode(configDir, []string{"--experimental-strip-types", "--no-warnings", "--input-type=module", "-e", evalScript})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate TypeScript config %q: %w\nhint: install tsx (npm i -D tsx) or use Node.js 22.6+ for native TypeScript support", path, err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config from %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

// execNode runs node with the given arguments and returns stdout bytes.
// Returns an error if the command fails or exits non-zero.
func execNode(dir string, args []string) ([]byte, error) {
	nodePath, err := exec.LookPath("node")
	if err != nil {
		return nil, fmt.Errorf("node not found in PATH: %w", err)
	}

	cmd := exec.Command(nodePath, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- cmd.Run()
	}()

	select {
	case err := <-done:
		if err != nil {
			errMsg := strings.TrimSpace(stderr.String())
			if errMsg != "" {
				return nil, fmt.Errorf("%s", errMsg)
			}
			return nil, err
		}
		return stdout.Bytes(), nil
	case <-time.After(10 * time.Second):
		cmd.Process.Kill()
		return nil, fmt.Errorf("timed out after 10 seconds")
	}
}

var validTargets = map[string]bool{
	"ES3": true, "ES5": true, "ES2015": true, "ES2016": true, "ES2017": true,
	"ES2018": true, "ES2019": true, "ES2020": true, "ES2021": true, "ES2022": true,
	"ES2023": true, "Latest": true,
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	if len(c.EntryPoints) == 0 {
		return fmt.Errorf("entryPoints must have at least one entry")
	}
	if c.Target != "" && !validTargets[c.Target] {
		return fmt.Errorf("target must be one of ES3..ES2023 or Latest, got %q", c.Target)
	}
	for _, s := range c.Shims {
		if s.Package == "" && s.Module == "" {
			return fmt.Errorf("shim must declare either package or module")
		}
		if len(s.Globals) == 0 {
			return fmt.Errorf("shim %q declares no globals", firstNonEmpty(s.Package, s.Module))
		}
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
