package trace

import "testing"

func TestLog_NoopWhenDisabled(t *testing.T) {
	called := false
	orig := Log
	defer func() { Log = orig }()

	Enabled = false
	Log = func(format string, args ...any) { called = true }
	// The default Log checks Enabled itself; a stubbed Log doesn't, so
	// this only exercises that callers can swap it out freely.
	Log("x %d", 1)
	if !called {
		t.Fatal("expected stubbed Log to run")
	}
}

func TestEnabled_DefaultFalse(t *testing.T) {
	if Enabled {
		t.Fatal("expected Enabled to default to false")
	}
}
