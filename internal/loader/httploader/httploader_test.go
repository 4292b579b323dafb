package httploader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/denoland/dnt-sub000/internal/loader"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

func TestLoad_FetchesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("export const x = 1;\n"))
	}))
	defer srv.Close()

	l := New("")
	resp, err := l.Load(context.Background(), specifier.MustParse(srv.URL+"/mod.ts"), loader.CacheUseCache, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(resp.Content) != "export const x = 1;\n" {
		t.Errorf("got content %q", resp.Content)
	}
}

func TestLoad_404ReturnsNilNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l := New("")
	resp, err := l.Load(context.Background(), specifier.MustParse(srv.URL+"/missing.ts"), loader.CacheUseCache, "")
	if err != nil {
		t.Fatalf("expected no error for a 404, got %v", err)
	}
	if resp != nil {
		t.Error("expected nil response for a 404")
	}
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content"))
	}))
	defer srv.Close()

	l := New("")
	_, err := l.Load(context.Background(), specifier.MustParse(srv.URL+"/mod.ts"), loader.CacheUseCache, "deadbeef")
	if err == nil {
		t.Fatal("expected a checksum mismatch error")
	}
}

func TestLoad_RejectsNonHTTPSpecifier(t *testing.T) {
	l := New("")
	_, err := l.Load(context.Background(), specifier.MustParse("file:///mod.ts"), loader.CacheUseCache, "")
	if err == nil {
		t.Fatal("expected an error for a non-http specifier")
	}
}
