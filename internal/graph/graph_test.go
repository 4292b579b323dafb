package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/denoland/dnt-sub000/internal/ast"
	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/mappings"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

type fakeRaw struct {
	files map[string]string
}

func (f *fakeRaw) Load(ctx context.Context, spec specifier.Specifier, cache loader.CacheSetting, checksum string) (*loader.LoadResponse, error) {
	content, ok := f.files[spec.String()]
	if !ok {
		return nil, errors.New("not found")
	}
	return &loader.LoadResponse{Specifier: spec, Content: []byte(content)}, nil
}

type fakeParser struct {
	deps map[string][]string
}

func (p *fakeParser) ParseProgram(req ast.ParseRequest) (ast.ParsedSource, error) {
	return ast.ParsedSource{Root: nil}, nil
}

func extractorFor(deps map[string][]string) DependencyExtractor {
	// The fake extractor ignores both the parsed source and deps: it
	// reports no dependencies for any module. Tests that need
	// per-module dependencies replace g.extractor with a closure keyed
	// on call order instead.
	return func(parsed ast.ParsedSource) ([]string, string) {
		return nil, ""
	}
}

func TestModuleGraph_BuildWalksTransitiveDependencies(t *testing.T) {
	files := map[string]string{
		"file:///a.ts": "import './b.ts'; import './c.ts';",
		"file:///b.ts": "export const b = 1;",
		"file:///c.ts": "import './b.ts';",
	}
	deps := map[string][]string{
		"file:///a.ts": {"./b.ts", "./c.ts"},
		"file:///b.ts": {},
		"file:///c.ts": {"./b.ts"},
	}

	raw := &fakeRaw{files: files}
	l := loader.New(raw, nil, nil, nil)
	p := &fakeParser{}

	extractor := func(parsed ast.ParsedSource) ([]string, string) { return nil, "" }
	g := New(l, p, extractor)

	// Override extraction per-module via a stateful wrapper since the fake
	// parser can't stash per-call context in ParsedSource.
	callCount := 0
	specOrder := []string{"file:///a.ts", "file:///b.ts", "file:///c.ts"}
	g.extractor = func(parsed ast.ParsedSource) ([]string, string) {
		defer func() { callCount++ }()
		if callCount < len(specOrder) {
			return deps[specOrder[callCount]], ""
		}
		return nil, ""
	}

	g.Build(context.Background(), []specifier.Specifier{specifier.MustParse("file:///a.ts")})

	if len(g.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", g.Errors())
	}
	mods := g.Modules()
	if len(mods) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(mods))
	}
}

func TestModuleGraph_RecordsLoadErrorsWithoutAborting(t *testing.T) {
	files := map[string]string{
		"file:///a.ts": "import './missing.ts'; import './b.ts';",
		"file:///b.ts": "export const b = 1;",
	}
	raw := &fakeRaw{files: files}
	l := loader.New(raw, nil, nil, nil)
	p := &fakeParser{}

	callCount := 0
	specOrder := []string{"file:///a.ts", "file:///missing.ts", "file:///b.ts"}
	depsBySpec := map[string][]string{
		"file:///a.ts": {"./missing.ts", "./b.ts"},
		"file:///b.ts": {},
	}
	g := New(l, p, nil)
	g.extractor = func(parsed ast.ParsedSource) ([]string, string) {
		defer func() { callCount++ }()
		if callCount < len(specOrder) {
			return depsBySpec[specOrder[callCount]], ""
		}
		return nil, ""
	}

	g.Build(context.Background(), []specifier.Specifier{specifier.MustParse("file:///a.ts")})

	errs := g.Errors()
	if len(errs) != 1 || errs[0].Specifier.String() != "file:///missing.ts" {
		t.Fatalf("expected one error for missing.ts, got %v", errs)
	}
	if _, ok := g.Get(specifier.MustParse("file:///b.ts")); !ok {
		t.Errorf("expected b.ts to still be loaded despite sibling error")
	}
}

type headerRaw struct {
	files   map[string]string
	headers map[string]map[string]string
}

func (f *headerRaw) Load(ctx context.Context, spec specifier.Specifier, cache loader.CacheSetting, checksum string) (*loader.LoadResponse, error) {
	content, ok := f.files[spec.String()]
	if !ok {
		return nil, errors.New("not found")
	}
	return &loader.LoadResponse{Specifier: spec, Content: []byte(content), Headers: f.headers[spec.String()]}, nil
}

type recordingParser struct {
	gotMediaType map[string]string
}

func (p *recordingParser) ParseProgram(req ast.ParseRequest) (ast.ParsedSource, error) {
	if p.gotMediaType == nil {
		p.gotMediaType = make(map[string]string)
	}
	p.gotMediaType[req.Specifier] = req.MediaType
	return ast.ParsedSource{Root: nil}, nil
}

func TestModuleGraph_MediaTypeFromExtension(t *testing.T) {
	raw := &headerRaw{files: map[string]string{"file:///comp.tsx": "export const C = () => null;"}}
	l := loader.New(raw, nil, nil, nil)
	p := &recordingParser{}
	g := New(l, p, func(ast.ParsedSource) ([]string, string) { return nil, "" })
	g.Build(context.Background(), []specifier.Specifier{specifier.MustParse("file:///comp.tsx")})

	mod, ok := g.Get(specifier.MustParse("file:///comp.tsx"))
	if !ok {
		t.Fatalf("expected comp.tsx to load")
	}
	if mod.MediaType != mappings.MediaTSX {
		t.Errorf("expected MediaTSX, got %q", mod.MediaType)
	}
	if p.gotMediaType["file:///comp.tsx"] != "Tsx" {
		t.Errorf("expected ParseRequest.MediaType = Tsx, got %q", p.gotMediaType["file:///comp.tsx"])
	}
}

func TestModuleGraph_MediaTypeFromContentTypeHeaderWhenExtensionless(t *testing.T) {
	raw := &headerRaw{
		files: map[string]string{"http://localhost/folder": "export const x = 1;"},
		headers: map[string]map[string]string{
			"http://localhost/folder": {"Content-Type": "application/typescript; charset=utf-8"},
		},
	}
	l := loader.New(raw, nil, nil, nil)
	p := &recordingParser{}
	g := New(l, p, func(ast.ParsedSource) ([]string, string) { return nil, "" })
	g.Build(context.Background(), []specifier.Specifier{specifier.MustParse("http://localhost/folder")})

	mod, ok := g.Get(specifier.MustParse("http://localhost/folder"))
	if !ok {
		t.Fatalf("expected extensionless remote module to load")
	}
	if mod.MediaType != mappings.MediaTS {
		t.Errorf("expected MediaTS from Content-Type sniff, got %q", mod.MediaType)
	}
}

func TestModuleGraph_MediaTypeDefaultsToJSWhenUnknown(t *testing.T) {
	raw := &headerRaw{files: map[string]string{"http://localhost/folder": "export const x = 1;"}}
	l := loader.New(raw, nil, nil, nil)
	p := &recordingParser{}
	g := New(l, p, func(ast.ParsedSource) ([]string, string) { return nil, "" })
	g.Build(context.Background(), []specifier.Specifier{specifier.MustParse("http://localhost/folder")})

	mod, ok := g.Get(specifier.MustParse("http://localhost/folder"))
	if !ok {
		t.Fatalf("expected extensionless remote module to load")
	}
	if mod.MediaType != mappings.MediaJS {
		t.Errorf("expected default MediaJS, got %q", mod.MediaType)
	}
}
