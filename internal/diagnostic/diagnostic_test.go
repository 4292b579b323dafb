package diagnostic

import (
	"strings"
	"testing"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Category: CategoryDuplicateDeclaration,
		File:     "file:///mod.ts",
		Line:     10,
		Column:   5,
		Message:  "multiple .d.ts candidates for this module",
		Hint:     "remove the redundant triple-slash reference",
	}

	s := d.String()
	if !strings.Contains(s, "file:///mod.ts:10:5") {
		t.Errorf("expected file:line:col, got %q", s)
	}
	if !strings.Contains(s, "warning") {
		t.Errorf("expected 'warning', got %q", s)
	}
	if !strings.Contains(s, "[duplicate-declaration]") {
		t.Errorf("expected category, got %q", s)
	}
	if !strings.Contains(s, "hint:") {
		t.Errorf("expected hint, got %q", s)
	}
}

func TestCollector_WarnAndError(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryLegacyIgnoreSpelling, "test.ts", 5, "deno-shim-ignore is deprecated, use dnt-shim-ignore")
	c.Error(CategoryNoEntryPoints, "", 0, "no entry points supplied")

	if c.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", c.WarningCount())
	}
	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", c.ErrorCount())
	}
	if !c.HasErrors() {
		t.Error("expected HasErrors() = true")
	}
}

func TestCollector_StrictMode(t *testing.T) {
	c := NewCollector(true, false) // strict mode
	c.Warn(CategoryDuplicateDeclaration, "test.ts", 1, "duplicate declaration")

	// In strict mode, warnings become errors
	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error (strict mode), got %d", c.ErrorCount())
	}
	if c.WarningCount() != 0 {
		t.Errorf("expected 0 warnings (strict mode), got %d", c.WarningCount())
	}
}

func TestCollector_QuietMode(t *testing.T) {
	c := NewCollector(false, true) // quiet mode
	c.Warn(CategoryDuplicateDeclaration, "test.ts", 1, "duplicate declaration")
	c.Info(CategoryConfigInvalid, "test.ts", 1, "informational note")
	c.Error(CategoryNoEntryPoints, "", 0, "real error") // errors still show

	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected 1 diagnostic (only error), got %d", len(c.Diagnostics()))
	}
}

func TestCollector_Summary(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryDuplicateDeclaration, "a.ts", 1, "warn1")
	c.Warn(CategoryDuplicateDeclaration, "b.ts", 2, "warn2")
	c.Error(CategoryNoEntryPoints, "", 0, "err1")

	summary := c.Summary()
	if !strings.Contains(summary, "1 error") {
		t.Errorf("expected '1 error' in summary, got %q", summary)
	}
	if !strings.Contains(summary, "2 warning") {
		t.Errorf("expected '2 warning' in summary, got %q", summary)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	// Should not panic
	c.Warn(CategoryDuplicateDeclaration, "", 0, "test")
	c.Error(CategoryNoEntryPoints, "", 0, "test")
	if c.HasErrors() {
		t.Error("nil collector should not have errors")
	}
	if c.Summary() != "" {
		t.Error("nil collector should return empty summary")
	}
}

func TestCollector_FormatAll(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryDuplicateDeclaration, "test.ts", 10, "duplicate declaration candidate")

	formatted := c.FormatAll()
	if !strings.Contains(formatted, "test.ts:10") {
		t.Errorf("expected formatted output with file:line, got %q", formatted)
	}
}

func TestCollector_WarnWithHint(t *testing.T) {
	c := NewCollector(false, false)
	c.WarnWithHint(CategoryDuplicateDeclaration, "test.ts", 5, "two .d.ts candidates found", "the local one was kept")

	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Hint != "the local one was kept" {
		t.Errorf("expected hint, got %v", diags)
	}
}
