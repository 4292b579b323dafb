package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/denoland/dnt-sub000/internal/pkgspecifier"
	"github.com/denoland/dnt-sub000/internal/transform"
)

func TestWriteOutput_WritesMainAndTestFiles(t *testing.T) {
	dir := t.TempDir()
	out := transform.Output{
		Main: transform.EnvironmentOutput{Files: []transform.OutputFile{
			{Path: "mod.js", Text: "export const x = 1;"},
			{Path: "nested/util.js", Text: "export const y = 2;"},
		}},
		Test: transform.EnvironmentOutput{Files: []transform.OutputFile{
			{Path: "mod.test.js", Text: "// test"},
		}},
	}
	if err := writeOutput(dir, out); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}

	for _, f := range []string{"mod.js", "nested/util.js", "mod.test.js"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected %s to exist: %v", f, err)
		}
	}
}

func TestSplitSpecifierMappings_PassesMappingsThrough(t *testing.T) {
	m := map[string]pkgspecifier.PackageMappedSpecifier{
		"https://esm.sh/chalk@5": {Name: "chalk", Version: "5.0.0"},
	}
	mappings, redirects := splitSpecifierMappings(m)
	if len(mappings) != 1 || mappings["https://esm.sh/chalk@5"].Name != "chalk" {
		t.Errorf("got mappings %+v", mappings)
	}
	if len(redirects) != 0 {
		t.Errorf("expected no redirects, got %+v", redirects)
	}
}

func TestLoadImportMapRedirects_ParsesTopLevelImports(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "import_map.json")
	os.WriteFile(mapPath, []byte(`{"imports": {"preact": "https://esm.sh/preact@10.19.0"}}`), 0o644)

	redirects, err := loadImportMapRedirects(dir, "import_map.json")
	if err != nil {
		t.Fatalf("loadImportMapRedirects: %v", err)
	}
	if got := redirects["preact"].String(); got != "https://esm.sh/preact@10.19.0" {
		t.Errorf("got %q", got)
	}
}
