package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

func TestDispatchLoader_RoutesFileScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.ts")
	if err := os.WriteFile(path, []byte("export const x = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newDispatchLoader("", false)
	resp, err := d.Load(context.Background(), specifier.FromFilePath(path), loader.CacheUseCache, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resp == nil || string(resp.Content) != "export const x = 1;" {
		t.Fatalf("got %+v", resp)
	}
}

func TestDispatchLoader_RejectsUnsupportedScheme(t *testing.T) {
	d := newDispatchLoader("", false)
	spec := specifier.MustParse("ftp://example.com/mod.ts")
	if _, err := d.Load(context.Background(), spec, loader.CacheUseCache, ""); err == nil {
		t.Fatal("expected an error for an unsupported scheme")
	}
}

func TestDispatchLoader_ForceReloadUpgradesCacheSetting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.ts")
	os.WriteFile(path, []byte("export const x = 1;"), 0o644)

	d := newDispatchLoader("", true)
	resp, err := d.Load(context.Background(), specifier.FromFilePath(path), loader.CacheUseCache, "")
	if err != nil || resp == nil {
		t.Fatalf("Load: resp=%+v err=%v", resp, err)
	}
}
