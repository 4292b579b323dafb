// Package mappings implements C6, Path Mappings: assigns an output file
// path to every kept local and remote specifier (spec.md §4.6).
package mappings

import (
	"path"
	"strings"

	"github.com/denoland/dnt-sub000/internal/specifier"
)

// MediaType mirrors the module's declared media type, used to pick the
// output file extension for remote specifiers (spec.md §4.6).
type MediaType string

const (
	MediaTS   MediaType = ".ts"
	MediaJS   MediaType = ".js"
	MediaDTS  MediaType = ".d.ts"
	MediaJSON MediaType = ".json"
	MediaTSX  MediaType = ".tsx"
	MediaJSX  MediaType = ".jsx"
	MediaMTS  MediaType = ".mts"
	MediaCTS  MediaType = ".cts"
	MediaMJS  MediaType = ".mjs"
	MediaCJS  MediaType = ".cjs"
)

// Mappings is the output of C6: a specifier -> output path table plus the
// synthetic shim/polyfill file paths for both environments.
type Mappings struct {
	Paths map[string]string // specifier string -> output path (relative, / separated)

	MainShims     string
	MainPolyfills string
	TestShims     string
	TestPolyfills string
}

// LocalPass computes spec.md §4.6's local pass: base_dir is the deepest
// common ancestor directory of every local file path; each local
// specifier's output path is that path made relative to base_dir.
func LocalPass(localFilePaths []string) (baseDir string, outputPaths map[string]string) {
	baseDir = commonAncestorDir(localFilePaths)
	outputPaths = make(map[string]string)
	for _, p := range localFilePaths {
		rel := strings.TrimPrefix(p, baseDir)
		rel = strings.TrimPrefix(rel, "/")
		outputPaths[p] = rel
	}
	return baseDir, outputPaths
}

func commonAncestorDir(paths []string) string {
	if len(paths) == 0 {
		return "/"
	}
	dirs := make([][]string, len(paths))
	for i, p := range paths {
		dirs[i] = strings.Split(path.Dir(p), "/")
	}
	common := dirs[0]
	for _, d := range dirs[1:] {
		common = commonPrefix(common, d)
	}
	if len(common) == 0 {
		return "/"
	}
	return strings.Join(common, "/")
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// remoteGroup is one "root group" of remote specifiers rooted at a first
// member, per spec.md §4.6's remote pass.
type remoteGroup struct {
	root    specifier.Specifier
	members []specifier.Specifier
}

// RemotePass implements spec.md §4.6's remote-specifier grouping: remote
// specifiers are accumulated into root groups by relative-path proximity,
// lifting the group root upward with `..` segments when needed. Group i's
// files live under deps/<i>/, with the extension taken from mediaTypes and
// disambiguated with _2, _3, … on collision.
func RemotePass(remoteSpecs []specifier.Specifier, mediaTypes map[string]MediaType) map[string]string {
	var groups []*remoteGroup

	for _, r := range remoteSpecs {
		placed := false
		for _, g := range groups {
			if rel, ok := relativeWithinGroup(g.root, r); ok {
				if strings.HasPrefix(rel, "../") {
					g.root = liftRoot(g.root, rel)
				}
				g.members = append(g.members, r)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, &remoteGroup{root: r, members: []specifier.Specifier{r}})
		}
	}

	out := make(map[string]string)
	for i, g := range groups {
		usedExt := make(map[string]int) // basename (extension-less) -> count, for collision disambiguation
		for _, m := range g.members {
			ext := string(mediaTypes[m.String()])
			if ext == "" {
				ext = string(MediaJS)
			}
			base := baseNameNoExt(m.Path())
			n := usedExt[base]
			usedExt[base]++
			name := base
			if n > 0 {
				name = base + "_" + itoa(n+1)
			}
			out[m.String()] = "deps/" + itoa(i) + "/" + name + ext
		}
	}
	return out
}

// relativeWithinGroup reports whether r has a defined relative path from
// g's root, and what that path is. Since Specifier carries no filesystem
// notion of its own, hosts (+paths) are compared directly: same host ->
// relative via path segments; different host -> no relation.
func relativeWithinGroup(root, r specifier.Specifier) (string, bool) {
	if root.Host() != r.Host() {
		return "", false
	}
	rootDir := path.Dir(root.Path())
	rel, err := relPath(rootDir, r.Path())
	if err != nil {
		return "", false
	}
	return rel, true
}

func relPath(base, target string) (string, error) {
	baseParts := strings.Split(strings.Trim(base, "/"), "/")
	targetParts := strings.Split(strings.Trim(target, "/"), "/")
	i := 0
	for i < len(baseParts) && i < len(targetParts) && baseParts[i] == targetParts[i] {
		i++
	}
	up := len(baseParts) - i
	var sb strings.Builder
	for j := 0; j < up; j++ {
		sb.WriteString("../")
	}
	sb.WriteString(strings.Join(targetParts[i:], "/"))
	return sb.String(), nil
}

// liftRoot moves the group root upward by the number of leading `..`
// segments in rel (spec.md §4.6: "lift the group root upward").
func liftRoot(root specifier.Specifier, rel string) specifier.Specifier {
	ups := 0
	rest := rel
	for strings.HasPrefix(rest, "../") {
		ups++
		rest = strings.TrimPrefix(rest, "../")
	}
	dir := path.Dir(root.Path())
	for i := 0; i < ups; i++ {
		dir = path.Dir(dir)
	}
	lifted, _ := root.Resolve(dir + "/")
	if lifted.IsZero() {
		return root
	}
	return lifted
}

func baseNameNoExt(p string) string {
	base := path.Base(p)
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// SyntheticPaths assigns spec.md §4.6's pre-assigned synthetic specifier
// paths, scoped under baseDir.
func SyntheticPaths(baseDir string) Mappings {
	join := func(name string) string {
		if baseDir == "" || baseDir == "/" {
			return name
		}
		return strings.TrimSuffix(baseDir, "/") + "/" + name
	}
	return Mappings{
		Paths:         make(map[string]string),
		MainShims:     join("_dnt.shims.ts"),
		MainPolyfills: join("_dnt.polyfills.ts"),
		TestShims:     join("_dnt.test_shims.ts"),
		TestPolyfills: join("_dnt.test_polyfills.ts"),
	}
}
