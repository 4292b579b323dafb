package shimfile

import (
	"strings"
	"testing"
)

func TestBuild_PackageShimEmitsImportExportAndDependency(t *testing.T) {
	shims := []Shim{
		{
			PackageName: "deno.ns",
			Version:     "*",
			GlobalNames: []GlobalName{{Name: "Deno"}},
		},
	}
	src, deps := Build(shims, map[string]bool{})

	if !strings.Contains(src, `import { Deno } from "deno.ns";`) {
		t.Errorf("missing value import, got:\n%s", src)
	}
	if !strings.Contains(src, `export { Deno } from "deno.ns";`) {
		t.Errorf("missing export, got:\n%s", src)
	}
	if !strings.Contains(src, "createMergeProxy") {
		t.Errorf("missing createMergeProxy helper")
	}
	if len(deps) != 1 || deps[0].Name != "deno.ns" || deps[0].Version != "*" {
		t.Errorf("expected one dependency deno.ns@*, got %+v", deps)
	}
}

func TestBuild_RenamedExportAndTypeOnly(t *testing.T) {
	shims := []Shim{
		{
			ModuleSpecifierText: "./_dnt.shims.js",
			GlobalNames: []GlobalName{
				{Name: "fetch", ExportName: "fetchShim"},
				{Name: "RequestInit", TypeOnly: true},
			},
		},
	}
	src, _ := Build(shims, map[string]bool{})

	if !strings.Contains(src, `import { fetchShim as fetch } from "./_dnt.shims.js";`) {
		t.Errorf("expected renamed value import, got:\n%s", src)
	}
	if !strings.Contains(src, "export { fetch, type RequestInit }") {
		t.Errorf("expected type-only export prefixed with type, got:\n%s", src)
	}
}

func TestSpecifierText_PackageShimWithSubPath(t *testing.T) {
	s := Shim{PackageName: "node-fetch", SubPath: "lib/index.js"}
	if got := s.SpecifierText(); got != "node-fetch/lib/index.js" {
		t.Errorf("got %q", got)
	}
}
