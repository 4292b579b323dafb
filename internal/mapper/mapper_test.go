package mapper

import "testing"

func TestDefault_SkypackAndEsmSh(t *testing.T) {
	r := Default()

	m, ok := r.Match("https://cdn.skypack.dev/chalk@5.0.0")
	if !ok || m.ToSpecifier != "chalk" || m.Version != "5.0.0" {
		t.Errorf("skypack match = %+v, ok=%v", m, ok)
	}

	m, ok = r.Match("https://esm.sh/lodash@4.17.21")
	if !ok || m.ToSpecifier != "lodash" || m.Version != "4.17.21" {
		t.Errorf("esm.sh match = %+v, ok=%v", m, ok)
	}

	_, ok = r.Match("https://example.com/not-mapped.ts")
	if ok {
		t.Error("expected no match for unrelated host")
	}
}

func TestDefault_StdNodeBuiltin(t *testing.T) {
	r := Default()
	m, ok := r.Match("https://deno.land/std@0.200.0/node/fs.ts")
	if !ok || m.ToSpecifier != "fs" || m.Version != "" {
		t.Errorf("std node builtin match = %+v, ok=%v", m, ok)
	}
}

func TestFirstWinsOrder(t *testing.T) {
	calls := 0
	alwaysMiss := func(string) (Match, bool) { calls++; return Match{}, false }
	alwaysHit := func(string) (Match, bool) { return Match{ToSpecifier: "hit"}, true }
	neverCalled := func(string) (Match, bool) { t.Fatal("rule after a hit must not run"); return Match{}, false }

	r := New(alwaysMiss, alwaysHit, neverCalled)
	m, ok := r.Match("anything")
	if !ok || m.ToSpecifier != "hit" {
		t.Fatalf("expected hit, got %+v ok=%v", m, ok)
	}
	if calls != 1 {
		t.Errorf("expected alwaysMiss called once, got %d", calls)
	}
}
