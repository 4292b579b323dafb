package fsloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.ts")
	if err := os.WriteFile(path, []byte("export const x = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := New()
	resp, err := l.Load(context.Background(), specifier.FromFilePath(path), loader.CacheUseCache, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resp == nil {
		t.Fatal("expected a non-nil response")
	}
	if string(resp.Content) != "export const x = 1;\n" {
		t.Errorf("got content %q", resp.Content)
	}
}

func TestLoad_MissingFileReturnsNilNotError(t *testing.T) {
	dir := t.TempDir()
	l := New()
	resp, err := l.Load(context.Background(), specifier.FromFilePath(filepath.Join(dir, "missing.ts")), loader.CacheUseCache, "")
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if resp != nil {
		t.Error("expected nil response for a missing file")
	}
}

func TestLoad_RejectsNonFileSpecifier(t *testing.T) {
	l := New()
	_, err := l.Load(context.Background(), specifier.MustParse("https://example.com/mod.ts"), loader.CacheUseCache, "")
	if err == nil {
		t.Fatal("expected an error for a non-file specifier")
	}
}
