// Package loader implements C2, the Source Loader: a wrapper around an
// injected raw Loader that applies specifier-mapping overrides and
// records which specifiers were mapped (to a package or another module)
// and which are external node: modules (spec.md §4.2).
package loader

import (
	"context"
	"fmt"

	"github.com/denoland/dnt-sub000/internal/mapper"
	"github.com/denoland/dnt-sub000/internal/pkgspecifier"
	"github.com/denoland/dnt-sub000/internal/specifier"
)

// CacheSetting mirrors spec.md §6's loader cache_setting parameter.
type CacheSetting int

const (
	CacheUseCache CacheSetting = iota
	CacheReload
	CacheNoCache
)

// LoadResponse mirrors spec.md §6's Loader interface result.
type LoadResponse struct {
	Specifier specifier.Specifier
	Content   []byte
	Headers   map[string]string
}

// RawLoader is the external collaborator spec.md §6 describes: "the host
// provides" a load function. nil response + nil error means "not found".
type RawLoader interface {
	Load(ctx context.Context, spec specifier.Specifier, cache CacheSetting, checksum string) (*LoadResponse, error)
}

// LoadFailureError wraps a raw-loader failure with the specifier it
// failed on (spec.md §7, LoadFailure).
type LoadFailureError struct {
	Specifier string
	Err       error
}

func (e *LoadFailureError) Error() string {
	return fmt.Sprintf("load failure for %s: %v", e.Specifier, e.Err)
}
func (e *LoadFailureError) Unwrap() error { return e.Err }

// Mapping records why a specifier never reached the raw loader.
type Mapping struct {
	Specifier specifier.Specifier
	Package   pkgspecifier.PackageMappedSpecifier
	IsPackage bool
	Redirect  specifier.Specifier // set when mapped to another module instead of a package
}

// Specifiers accumulates the bookkeeping C4 needs: which specifiers were
// explicitly/registry mapped and which are external (node:). Specifiers
// loaded as ordinary local/remote modules are not recorded here.
type Specifiers struct {
	Mapped   map[string]Mapping
	External map[string]bool
}

func newSpecifiers() *Specifiers {
	return &Specifiers{Mapped: make(map[string]Mapping), External: make(map[string]bool)}
}

// SourceLoader is C2: it wraps a RawLoader and a user-supplied mapping
// table, consulting the C1 registry as a fallback.
type SourceLoader struct {
	raw           RawLoader
	userMappings  map[string]pkgspecifier.PackageMappedSpecifier
	userRedirects map[string]specifier.Specifier
	registry      *mapper.Registry
	Specifiers    *Specifiers
}

// New builds a SourceLoader. userMappings and userRedirects come from
// TransformOptions.specifier_mappings (spec.md §6), split into
// package-destination and module-destination mappings by the caller.
func New(raw RawLoader, userMappings map[string]pkgspecifier.PackageMappedSpecifier, userRedirects map[string]specifier.Specifier, registry *mapper.Registry) *SourceLoader {
	if registry == nil {
		registry = mapper.Default()
	}
	return &SourceLoader{
		raw:           raw,
		userMappings:  userMappings,
		userRedirects: userRedirects,
		registry:      registry,
		Specifiers:    newSpecifiers(),
	}
}

// syntheticModuleSource is the zero-byte JS module body returned for
// package-mapped specifiers so graph traversal can still proceed
// (spec.md §4.2, step 1).
const syntheticModuleSource = ""

// Load implements spec.md §4.2's five-step load algorithm.
func (l *SourceLoader) Load(ctx context.Context, spec specifier.Specifier, cache CacheSetting) (*LoadResponse, error) {
	key := spec.String()

	// 1. Explicit user mapping to a package.
	if pkg, ok := l.userMappings[key]; ok {
		l.Specifiers.Mapped[key] = Mapping{Specifier: spec, Package: pkg, IsPackage: true}
		return &LoadResponse{Specifier: spec, Content: []byte(syntheticModuleSource)}, nil
	}

	// 2. Explicit user mapping to another module: redirect and delegate.
	if redirect, ok := l.userRedirects[key]; ok {
		l.Specifiers.Mapped[key] = Mapping{Specifier: spec, Redirect: redirect}
		return l.loadFromRaw(ctx, redirect, cache)
	}

	// 3. Consult C1 registry.
	if m, ok := l.registry.Match(key); ok {
		pkg := pkgspecifier.PackageMappedSpecifier{Name: m.ToSpecifier, Version: m.Version}
		l.Specifiers.Mapped[key] = Mapping{Specifier: spec, Package: pkg, IsPackage: true}
		return &LoadResponse{Specifier: spec, Content: []byte(syntheticModuleSource)}, nil
	}

	// 4. node: scheme -> external marker, no content.
	if spec.Scheme() == specifier.SchemeNode {
		l.Specifiers.External[key] = true
		return nil, nil
	}

	// 5. Delegate to the raw loader.
	return l.loadFromRaw(ctx, spec, cache)
}

func (l *SourceLoader) loadFromRaw(ctx context.Context, spec specifier.Specifier, cache CacheSetting) (*LoadResponse, error) {
	resp, err := l.raw.Load(ctx, spec, cache, "")
	if err != nil {
		return nil, &LoadFailureError{Specifier: spec.String(), Err: err}
	}
	return resp, nil
}
