package config

import (
	"fmt"
	"strings"
)

// ValidationResult holds config validation results: fatal errors plus
// non-fatal warnings a user probably wants to see even though the
// config is usable as written.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with
// suggestions, beyond the fatal-only checks in Validate.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if len(c.EntryPoints) == 0 {
		result.Errors = append(result.Errors, "entryPoints: at least one entry point required")
	}
	for _, ep := range c.EntryPoints {
		if !strings.HasSuffix(ep, ".ts") && !strings.HasSuffix(ep, ".js") &&
			!strings.HasSuffix(ep, ".tsx") && !strings.HasSuffix(ep, ".jsx") &&
			!strings.HasSuffix(ep, ".mts") && !strings.HasSuffix(ep, ".mjs") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("entryPoints: %q doesn't look like a JS/TS module — did you mean to add an extension?", ep))
		}
	}

	if len(c.TestEntryPoints) == 0 {
		result.Warnings = append(result.Warnings,
			"testEntryPoints: none declared — the output package will ship without a test entry point")
	}

	if c.Target != "" && !validTargets[c.Target] {
		result.Errors = append(result.Errors,
			fmt.Sprintf("target: invalid value %q — must be one of ES3..ES2023 or Latest", c.Target))
	}

	for name, dep := range c.SpecifierMappings {
		if dep.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("mappings[%q]: name is required", name))
		}
	}

	for _, s := range c.Shims {
		if s.Package == "" && s.Module == "" {
			result.Errors = append(result.Errors, "shims: entry declares neither package nor module")
			continue
		}
		if len(s.Globals) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("shims[%q]: no globals declared — this shim will never be imported", firstNonEmpty(s.Package, s.Module)))
		}
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
