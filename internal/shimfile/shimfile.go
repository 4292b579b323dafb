// Package shimfile implements C12, the Shim File Builder: it emits the
// synthesized `_dnt.shims.ts` aggregator module that the Globals/Shim
// Rewriter's `import * as dntShim from "..."` points at (spec.md §4.12).
package shimfile

import (
	"sort"
	"strings"
)

// GlobalName is one ambient-global binding a shim provides.
type GlobalName struct {
	Name       string
	ExportName string // "" means same as Name
	TypeOnly   bool
}

// localName returns the name the shim module exports this global under
// (ExportName when set, otherwise Name); Build imports it as Name.
func (g GlobalName) localName() string {
	if g.ExportName != "" {
		return g.ExportName
	}
	return g.Name
}

// Dependency is a runtime package dependency a package shim contributes.
type Dependency struct {
	Name           string
	Version        string
	PeerDependency bool
}

// Shim is either a package shim (Package set) or a module shim (ModuleSpecifier set).
type Shim struct {
	// Package shim fields.
	PackageName string
	SubPath     string
	Version     string
	PeerDep     bool

	// Module shim fields: either a concrete resolved specifier (handled by
	// the caller via RelativeModuleSpecifier) or a raw module string like
	// "node:fs".
	ModuleSpecifierText string

	GlobalNames []GlobalName
}

// IsPackageShim reports whether this is a package shim.
func (s Shim) IsPackageShim() bool { return s.PackageName != "" }

// SpecifierText computes spec.md §4.12's "module specifier text" for one
// shim: for a package shim, `<name>[/<sub_path>]`; otherwise the already
// resolved module-specifier text supplied by the caller (either a
// relative path to the shim file, computed upstream via
// rewrite.RelativeSpecifier, or a raw module string such as "node:fs").
func (s Shim) SpecifierText() string {
	if s.IsPackageShim() {
		if s.SubPath != "" {
			return s.PackageName + "/" + s.SubPath
		}
		return s.PackageName
	}
	return s.ModuleSpecifierText
}

// Build implements spec.md §4.12: for each shim, one import of its
// non-type-only globals (renamed where ExportName is set), one export of
// all globals (type-only ones prefixed with `type`), then a tail block
// declaring dntGlobals/dntGlobalThis and the createMergeProxy helper.
// Returns the empty string (and an empty dependency list) if shims is
// empty, since C12 is only invoked when imported_shim fired.
func Build(shims []Shim, alreadyPresentDeps map[string]bool) (source string, deps []Dependency) {
	if len(shims) == 0 {
		return "", nil
	}
	var sb strings.Builder
	var valueGlobalNames []string

	for _, shim := range shims {
		specifierText := shim.SpecifierText()

		var valueImports []string
		var exportNames []string
		for _, g := range shim.GlobalNames {
			if !g.TypeOnly {
				if g.ExportName != "" {
					valueImports = append(valueImports, g.ExportName+" as "+g.Name)
				} else {
					valueImports = append(valueImports, g.Name)
				}
				valueGlobalNames = append(valueGlobalNames, g.Name)
			}
			if g.TypeOnly {
				exportNames = append(exportNames, "type "+g.Name)
			} else {
				exportNames = append(exportNames, g.Name)
			}
		}

		if len(valueImports) > 0 {
			sb.WriteString("import { " + strings.Join(valueImports, ", ") + " } from \"" + specifierText + "\";\n")
		}
		if len(exportNames) > 0 {
			sb.WriteString("export { " + strings.Join(exportNames, ", ") + " } from \"" + specifierText + "\";\n")
		}

		if shim.IsPackageShim() && shim.Version != "" && !alreadyPresentDeps[shim.PackageName] {
			deps = append(deps, Dependency{Name: shim.PackageName, Version: shim.Version, PeerDependency: shim.PeerDep})
			alreadyPresentDeps[shim.PackageName] = true
		}
	}

	sort.Strings(valueGlobalNames)
	sb.WriteString("\nconst dntGlobals = { " + strings.Join(valueGlobalNames, ", ") + " };\n")
	sb.WriteString("export const dntGlobalThis = createMergeProxy(globalThis, dntGlobals);\n\n")
	sb.WriteString(createMergeProxyBody)

	return sb.String(), deps
}

// createMergeProxyBody is the fixed helper spec.md §4.12 requires: a
// Proxy that prefers properties from the overrides object, falling back
// to the wrapped target.
const createMergeProxyBody = `function createMergeProxy(baseObj, extObj) {
  return new Proxy(baseObj, {
    get(_target, prop, _receiver) {
      if (prop in extObj) {
        return extObj[prop];
      } else {
        return baseObj[prop];
      }
    },
    set(_target, prop, value) {
      if (prop in extObj) {
        delete extObj[prop];
      }
      baseObj[prop] = value;
      return true;
    },
    deleteProperty(_target, prop) {
      let success = false;
      if (prop in extObj) {
        delete extObj[prop];
        success = true;
      }
      if (prop in baseObj) {
        delete baseObj[prop];
        success = true;
      }
      return success;
    },
    ownKeys(_target) {
      const baseKeys = Reflect.ownKeys(baseObj);
      const extKeys = new Set(Reflect.ownKeys(extObj));
      return [...new Set([...baseKeys, ...extKeys])];
    },
    defineProperty(_target, _prop, _descriptor) {
      throw new Error("Not implemented.");
    },
    getOwnPropertyDescriptor(_target, prop) {
      if (prop in extObj) {
        return Object.getOwnPropertyDescriptor(extObj, prop);
      } else {
        return Object.getOwnPropertyDescriptor(baseObj, prop);
      }
    },
  });
}
`
