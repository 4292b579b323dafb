package config

import (
	"testing"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.EntryPoints = []string{"mod.ts"}
	cfg.TestEntryPoints = []string{"mod.test.ts"}
	return cfg
}

func TestValidateDetailed_Valid(t *testing.T) {
	cfg := validConfig()
	result := cfg.ValidateDetailed()
	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
}

func TestValidateDetailed_MissingEntryPoints(t *testing.T) {
	cfg := validConfig()
	cfg.EntryPoints = nil
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected invalid config")
	}
}

func TestValidateDetailed_NoTestEntryPointsWarning(t *testing.T) {
	cfg := validConfig()
	cfg.TestEntryPoints = nil
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected warning about missing test entry points")
	}
}

func TestValidateDetailed_InvalidTarget(t *testing.T) {
	cfg := validConfig()
	cfg.Target = "ES1999"
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected error for invalid target")
	}
}

func TestValidateDetailed_ShimWithoutGlobalsWarns(t *testing.T) {
	cfg := validConfig()
	cfg.Shims = []ShimConfig{{Package: "deno.ns", Version: "*"}}
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected warning for shim without globals")
	}
}

func TestValidateDetailed_ShimWithNeitherPackageNorModule(t *testing.T) {
	cfg := validConfig()
	cfg.Shims = []ShimConfig{{Globals: []ShimGlobalEntry{{Name: "fetch"}}}}
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected error for shim with neither package nor module")
	}
}

func TestValidateDetailed_MappingMissingName(t *testing.T) {
	cfg := validConfig()
	cfg.SpecifierMappings = map[string]MappedDep{"https://deno.land/x/foo/mod.ts": {}}
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected error for mapping missing a destination name")
	}
}
